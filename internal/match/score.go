package match

import (
	"context"
	"log"

	"github.com/quefill/quefill/internal/similarity"
)

// pairScore applies the two-stage provider ordering for one text pair: the
// exact variant first, the semantic variant only when the texts differ.
// Identical text therefore scores 1.0 even when the semantic provider is
// down. Text that normalizes to empty scores 0.0 with no remote call. A
// semantic failure degrades the pair to 0.0 and reports degraded=true; it
// never propagates.
func pairScore(ctx context.Context, semantic similarity.Provider, a, b string) (score float64, degraded bool) {
	if s, _ := (similarity.Exact{}).Score(ctx, a, b); s == 1 {
		return 1, false
	}
	if similarity.Normalize(a) == "" || similarity.Normalize(b) == "" {
		return 0, false
	}
	s, err := semantic.Score(ctx, a, b)
	if err != nil {
		log.Printf("Warning: %s comparison degraded to 0.0: %v", semantic.Name(), err)
		return 0, true
	}
	return s, false
}
