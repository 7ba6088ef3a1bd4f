package llm

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// CachingEmbedder memoizes embedding results by input text. Repeated queries
// (the demo and batch scripts, retried interactive questions) skip the billed
// embeddings round-trip.
type CachingEmbedder struct {
	inner Embedder
	cache *ristretto.Cache
}

// NewCachingEmbedder wraps an embedder with an in-process cache.
func NewCachingEmbedder(inner Embedder) (*CachingEmbedder, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,          // track frequency for ~1k cached queries
		MaxCost:     64 * 1024 * 1024, // bytes of embedding data
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &CachingEmbedder{
		inner: inner,
		cache: cache,
	}, nil
}

// Embed returns the cached vector for text, computing it on a miss.
func (e *CachingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := e.cache.Get(text); ok {
		if embedding, ok := cached.([]float32); ok {
			return embedding, nil
		}
	}

	embedding, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.cache.Set(text, embedding, int64(len(embedding)*4))
	e.cache.Wait() // make the write visible before the next lookup
	return embedding, nil
}

// Dimensions returns the embedding vector size.
func (e *CachingEmbedder) Dimensions() int {
	return e.inner.Dimensions()
}

// Close releases cache resources.
func (e *CachingEmbedder) Close() {
	e.cache.Close()
}
