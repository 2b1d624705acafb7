// Package retrieval provides top-k snippet retrieval over an in-memory
// embedding index of jobs and courses.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ananya/resumatch/internal/similarity"
)

// DefaultTopK is the default number of snippets returned per query.
const DefaultTopK = 5

// Retriever returns the most relevant indexed snippets for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]string, error)
}

// indexedDoc is one entry of the store.
type indexedDoc struct {
	snippet string
	vector  []float32
}

// Store is an embedding-backed in-memory snippet index. Indexing happens once
// at startup; lookups are safe for concurrent use.
type Store struct {
	embedder similarity.Embedder

	mu   sync.RWMutex
	docs []indexedDoc
}

// NewStore creates an empty Store backed by the given embedder.
func NewStore(embedder similarity.Embedder) *Store {
	return &Store{embedder: embedder}
}

// Index embeds the snippet and adds it to the store.
func (s *Store) Index(ctx context.Context, snippet string) error {
	if snippet == "" {
		return fmt.Errorf("snippet cannot be empty")
	}

	vector, err := s.embedder.Embed(ctx, snippet)
	if err != nil {
		return fmt.Errorf("failed to embed snippet: %w", err)
	}

	s.mu.Lock()
	s.docs = append(s.docs, indexedDoc{snippet: snippet, vector: vector})
	s.mu.Unlock()
	return nil
}

// IndexAll indexes every snippet, skipping entries that fail to embed and
// reporting how many were stored.
func (s *Store) IndexAll(ctx context.Context, snippets []string) int {
	indexed := 0
	for _, snippet := range snippets {
		if err := s.Index(ctx, snippet); err != nil {
			continue
		}
		indexed++
	}
	return indexed
}

// Len returns the number of indexed snippets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Retrieve returns up to k snippets ranked by cosine similarity to the query.
func (s *Store) Retrieve(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		snippet string
		score   float64
	}
	ranked := make([]scored, 0, len(s.docs))
	for _, doc := range s.docs {
		ranked = append(ranked, scored{
			snippet: doc.snippet,
			score:   similarity.Cosine(queryVec, doc.vector),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	snippets := make([]string, len(ranked))
	for i, r := range ranked {
		snippets[i] = r.snippet
	}
	return snippets, nil
}
