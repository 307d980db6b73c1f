package core

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/agenthands/catena/internal/llm"
)

// embeddingCache fronts the embedding provider with a bounded LRU keyed by
// raw text. Purely a latency optimization: the provider is deterministic, so
// hits and misses produce identical vectors.
type embeddingCache struct {
	embedder llm.EmbedderClient
	lru      *lru.Cache[string, []float32]
}

func newEmbeddingCache(embedder llm.EmbedderClient, size int) (*embeddingCache, error) {
	cache, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &embeddingCache{embedder: embedder, lru: cache}, nil
}

func (c *embeddingCache) GetOrCompute(ctx context.Context, text string) ([]float32, error) {
	if vec, ok := c.lru.Get(text); ok {
		return vec, nil
	}
	vec, err := c.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.lru.Add(text, vec)
	return vec, nil
}
