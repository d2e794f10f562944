package similarity

import (
	"context"

	"github.com/hbollon/go-edlib"
)

// Lexical scores pairs with Jaro-Winkler string similarity. It needs no
// network, which makes it the offline stand-in for the embedding variants.
// Scores for non-identical text come from edit distance, not meaning, so
// thresholds tuned for a semantic provider run hot against it.
type Lexical struct{}

// Name identifies the provider.
func (Lexical) Name() string { return "lexical" }

// Score compares the normalized forms of a and b with Jaro-Winkler.
func (Lexical) Score(_ context.Context, a, b string) (float64, error) {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0, nil
	}
	if na == nb {
		return 1, nil
	}
	score, err := edlib.StringsSimilarity(na, nb, edlib.JaroWinkler)
	if err != nil {
		return 0, nil
	}
	return clamp01(float64(score)), nil
}

// Close is a no-op.
func (Lexical) Close() error { return nil }
