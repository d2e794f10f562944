package match

import (
	"context"

	"github.com/quefill/quefill/internal/similarity"
	"github.com/quefill/quefill/pkg/models"
)

// Comparator scores how close the unanswered row's current answer is to the
// answer carried by its matched reference row. The score is advisory; it
// never changes the question match.
type Comparator struct {
	semantic  similarity.Provider
	threshold float64
}

// NewComparator creates a comparator around the given semantic provider.
func NewComparator(semantic similarity.Provider, threshold float64) *Comparator {
	return &Comparator{semantic: semantic, threshold: threshold}
}

// Compare scores the answer pair with the same provider ordering the matcher
// uses. An answer that normalizes to empty on either side scores 0.0 without
// a remote call. degraded counts comparisons that failed at the provider and
// were scored 0.0.
func (c *Comparator) Compare(ctx context.Context, unanswered, matched models.QuestionRecord) (cmp models.AnswerComparison, degraded int) {
	score, deg := pairScore(ctx, c.semantic, unanswered.Answer, matched.Answer)
	if deg {
		degraded = 1
	}
	return models.AnswerComparison{
		Score:    score,
		Reliable: score >= c.threshold,
	}, degraded
}
