package similarity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quefill/quefill/internal/config"
)

// DefaultTimeout bounds a single remote similarity call when the
// configuration does not say otherwise.
const DefaultTimeout = 60 * time.Second

// ErrProviderUnavailable marks a remote similarity call that failed in
// transport or at the service. The affected comparison degrades to 0.0; the
// run continues.
var ErrProviderUnavailable = errors.New("similarity provider unavailable")

// ErrProviderTimeout marks a remote similarity call that exceeded its
// per-call deadline. The affected comparison degrades to 0.0; the run
// continues.
var ErrProviderTimeout = errors.New("similarity provider timeout")

// Provider scores the similarity of two texts on [0, 1], where 1.0 means the
// texts carry the same meaning and 0.0 means they are unrelated.
// Implementations normalize their inputs, return 0.0 without remote work when
// either side normalizes to empty, and must be safe for concurrent use.
type Provider interface {
	// Name identifies the provider in logs and CLI output.
	Name() string

	// Score returns the similarity of a and b. Remote-backed providers wrap
	// failures in ErrProviderUnavailable or ErrProviderTimeout so callers can
	// degrade a single comparison instead of aborting the batch.
	Score(ctx context.Context, a, b string) (float64, error)

	// Close releases any resources held by the provider.
	Close() error
}

// FromConfig builds the semantic provider selected by cfg.
func FromConfig(cfg *config.ProviderConfig) (Provider, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Kind {
	case "exact":
		return Exact{}, nil
	case "lexical":
		return Lexical{}, nil
	case "openai":
		embedder, err := NewOpenAIEmbedder(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		cache, err := cacheFor(cfg.CachePath)
		if err != nil {
			embedder.Close()
			return nil, err
		}
		return NewEmbeddingProvider(embedder, cache, timeout), nil
	case "gemini":
		embedder, err := NewGeminiEmbedder(cfg.APIKey, cfg.Model, cfg.Dimensions)
		if err != nil {
			return nil, err
		}
		cache, err := cacheFor(cfg.CachePath)
		if err != nil {
			embedder.Close()
			return nil, err
		}
		return NewEmbeddingProvider(embedder, cache, timeout), nil
	case "chat":
		return NewChatProvider(cfg.APIKey, cfg.BaseURL, cfg.Model, timeout)
	default:
		return nil, fmt.Errorf("unknown similarity provider: %s", cfg.Kind)
	}
}

func cacheFor(path string) (*VectorCache, error) {
	if path == "" {
		return NewVectorCache(), nil
	}
	return OpenVectorCache(path)
}

// classify wraps a remote failure in the matching sentinel so callers can
// test with errors.Is.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
