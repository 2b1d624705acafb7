package similarity

import (
	"context"
	"math"
	"sort"

	"github.com/ananya/resumatch/internal/types"
)

// Cosine computes the cosine similarity of two vectors. If either vector has
// zero norm the similarity is 0; there is no division by zero.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Scorer computes 0-100 fit scores between two documents.
type Scorer struct {
	embedder Embedder
}

// NewScorer creates a Scorer backed by the given embedder.
func NewScorer(embedder Embedder) *Scorer {
	return &Scorer{embedder: embedder}
}

// Score computes the fit between two documents. The score is symmetric:
// Score(a, b) == Score(b, a). If vectorization fails for either document the
// score is 0 rather than an error, so downstream stages always receive a
// result; matched skills are still reported from the extracted skill sets.
func (s *Scorer) Score(ctx context.Context, a, b *types.Document) types.MatchResult {
	result := types.MatchResult{
		MatchedSkills: intersectSkills(a, b),
	}

	vecA, err := s.embedder.Embed(ctx, a.RawText)
	if err != nil {
		return result
	}
	vecB, err := s.embedder.Embed(ctx, b.RawText)
	if err != nil {
		return result
	}

	result.OverallScore = Cosine(vecA, vecB) * 100
	if result.OverallScore < 0 {
		result.OverallScore = 0
	}
	return result
}

// intersectSkills returns the sorted intersection of the two documents'
// extracted skill sets.
func intersectSkills(a, b *types.Document) []string {
	var matched []string
	bSet := b.SkillSet()
	for skill := range a.ExtractedSkills {
		if bSet[skill] {
			matched = append(matched, skill)
		}
	}
	sort.Strings(matched)
	return matched
}
