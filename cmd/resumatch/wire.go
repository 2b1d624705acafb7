package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ananya/resumatch/internal/config"
	"github.com/ananya/resumatch/internal/courses"
	"github.com/ananya/resumatch/internal/gaps"
	"github.com/ananya/resumatch/internal/llm"
	"github.com/ananya/resumatch/internal/market"
	"github.com/ananya/resumatch/internal/retrieval"
	"github.com/ananya/resumatch/internal/roadmap"
	"github.com/ananya/resumatch/internal/similarity"
	"github.com/ananya/resumatch/internal/textproc"
	"github.com/ananya/resumatch/internal/vocab"
	"github.com/ananya/resumatch/internal/workflow"
)

// loadMergedConfig loads the optional config file and fills gaps from
// environment variables and defaults.
func loadMergedConfig(path string) (config.Config, error) {
	var cfg config.Config
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return cfg, err
		}
		cfg = *loaded
	}

	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		FeedURL:     market.DefaultFeedURL,
		Port:        8080,
	})
	return cfg, nil
}

// buildPipeline wires all analysis collaborators and returns the pipeline
// plus a cleanup function for the underlying API clients.
func buildPipeline(ctx context.Context, cfg config.Config) (*workflow.Pipeline, llm.Client, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, nil, fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or 'api_key' in config)")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	embedder, err := similarity.NewGeminiEmbedder(ctx, cfg.APIKey, similarity.DefaultEmbeddingModel)
	if err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	v := vocab.New()

	catalog, err := courses.Load(cfg.CatalogPath, v)
	if err != nil {
		client.Close()
		return nil, nil, nil, fmt.Errorf("failed to load course catalog: %w", err)
	}

	store := retrieval.NewStore(embedder)
	if catalog.Len() > 0 {
		snippets := make([]string, 0, catalog.Len())
		for _, course := range catalog.Courses() {
			snippets = append(snippets, courseSnippet(course.Title, course.Description, course.URL))
		}
		indexed := store.IndexAll(ctx, snippets)
		log.Printf("indexed %d/%d catalog courses for retrieval", indexed, len(snippets))
	}

	detectorCfg := gaps.DefaultConfig()
	if cfg.SemanticThreshold > 0 {
		detectorCfg.SemanticThreshold = cfg.SemanticThreshold
	}
	if cfg.CriticalImportance > 0 {
		detectorCfg.CriticalImportance = cfg.CriticalImportance
	}

	pipeline := workflow.NewPipeline(workflow.Deps{
		Client:    client,
		Retriever: store,
		Market:    market.NewProvider(v, &market.Options{FeedURL: cfg.FeedURL}),
		Detector:  gaps.NewDetector(detectorCfg, embedder, textproc.NewNormalizer(v), v),
		Builder:   roadmap.NewBuilder(v),
		Catalog:   catalog,
		Scorer:    similarity.NewScorer(embedder),
	})

	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Printf("warning: failed to close LLM client: %v", err)
		}
	}
	return pipeline, client, cleanup, nil
}

func courseSnippet(title, description, url string) string {
	snippet := title
	if description != "" {
		snippet += ": " + description
	}
	if url != "" {
		snippet += " (" + url + ")"
	}
	return snippet
}
