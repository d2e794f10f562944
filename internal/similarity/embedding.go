package similarity

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Embedder turns a single text into an embedding vector. Implementations
// wrap one remote service and model.
type Embedder interface {
	// Embed generates the embedding for text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Model names the embedding model, used for cache keys and logs.
	Model() string

	// Close releases resources held by the backend.
	Close() error
}

// EmbeddingProvider scores a text pair by embedding both sides and taking
// the cosine similarity of the vectors, clamped to [0, 1]. Vectors are served
// from the cache when present, so repeated questions across a run cost one
// remote call each.
type EmbeddingProvider struct {
	embedder Embedder
	cache    *VectorCache
	timeout  time.Duration
}

// NewEmbeddingProvider wraps an embedding backend in the pair-scoring
// contract. cache may be nil for a fresh in-memory cache; timeout <= 0 falls
// back to DefaultTimeout.
func NewEmbeddingProvider(embedder Embedder, cache *VectorCache, timeout time.Duration) *EmbeddingProvider {
	if cache == nil {
		cache = NewVectorCache()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &EmbeddingProvider{embedder: embedder, cache: cache, timeout: timeout}
}

// Name identifies the provider and its model.
func (p *EmbeddingProvider) Name() string { return "embedding/" + p.embedder.Model() }

// Score embeds both texts and returns their cosine similarity. Identical
// normalized text scores 1.0 without touching the backend; text that
// normalizes to empty scores 0.0 the same way.
func (p *EmbeddingProvider) Score(ctx context.Context, a, b string) (float64, error) {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0, nil
	}
	if na == nb {
		return 1, nil
	}
	va, err := p.vector(ctx, na)
	if err != nil {
		return 0, err
	}
	vb, err := p.vector(ctx, nb)
	if err != nil {
		return 0, err
	}
	return clamp01(float64(cosine32(va, vb))), nil
}

// Close releases the cache and the backend.
func (p *EmbeddingProvider) Close() error {
	cerr := p.cache.Close()
	if err := p.embedder.Close(); err != nil {
		return err
	}
	return cerr
}

func (p *EmbeddingProvider) vector(ctx context.Context, text string) ([]float32, error) {
	key := CacheKey(p.embedder.Model(), text)
	if vec, ok := p.cache.Get(key); ok {
		return vec, nil
	}
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	vec, err := p.embedder.Embed(callCtx, text)
	if err != nil {
		return nil, classify(err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: backend returned an empty embedding", ErrProviderUnavailable)
	}
	p.cache.Put(key, vec)
	return vec, nil
}

// cosine32 computes cosine similarity between two float32 vectors. Mismatched
// lengths and zero vectors score 0.
func cosine32(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
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
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// clamp01 bounds x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
