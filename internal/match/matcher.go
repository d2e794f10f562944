package match

import (
	"context"

	"github.com/quefill/quefill/internal/similarity"
	"github.com/quefill/quefill/pkg/models"
)

// Matcher selects, for one unanswered question, the best-scoring question in
// the reference set. Ties on score resolve to the smallest reference RowID so
// reruns over the same inputs reproduce the same matches.
type Matcher struct {
	semantic  similarity.Provider
	threshold float64
	pinned    map[string]string
}

// NewMatcher creates a matcher around the given semantic provider. threshold
// is the acceptance bound on [0, 1]; pinned maps unanswered question text to
// the reference question it must match, both compared in normalized form.
func NewMatcher(semantic similarity.Provider, threshold float64, pinned map[string]string) *Matcher {
	normalized := make(map[string]string, len(pinned))
	for question, reference := range pinned {
		normalized[similarity.Normalize(question)] = similarity.Normalize(reference)
	}
	return &Matcher{semantic: semantic, threshold: threshold, pinned: normalized}
}

// Match scores unanswered against every record in reference and returns the
// best candidate. best is nil when no candidate reaches the threshold; score
// is the best score found either way. reference is expected in source order
// (ascending RowID). degraded counts candidate comparisons that failed at the
// provider and were scored 0.0.
func (m *Matcher) Match(ctx context.Context, unanswered models.QuestionRecord, reference []models.QuestionRecord) (best *models.QuestionRecord, score float64, degraded int) {
	if len(reference) == 0 {
		return nil, 0, 0
	}
	if ref := m.pinnedMatch(unanswered, reference); ref != nil {
		return ref, 1, 0
	}

	var bestRef *models.QuestionRecord
	var bestScore float64
	for i := range reference {
		candidate := &reference[i]
		s, deg := pairScore(ctx, m.semantic, unanswered.Question, candidate.Question)
		if deg {
			degraded++
		}
		if bestRef == nil || s > bestScore || (s == bestScore && candidate.RowID < bestRef.RowID) {
			bestRef = candidate
			bestScore = s
		}
		if bestScore == 1 {
			// Nothing can beat 1.0, and ascending RowID order makes this the
			// tie-break winner already.
			break
		}
	}

	if bestScore >= m.threshold {
		return bestRef, bestScore, degraded
	}
	return nil, bestScore, degraded
}

// pinnedMatch returns the reference record a pin forces unanswered onto, or
// nil when no pin applies or the pinned reference is absent from this set.
func (m *Matcher) pinnedMatch(unanswered models.QuestionRecord, reference []models.QuestionRecord) *models.QuestionRecord {
	if len(m.pinned) == 0 {
		return nil
	}
	want, ok := m.pinned[similarity.Normalize(unanswered.Question)]
	if !ok {
		return nil
	}
	for i := range reference {
		if similarity.Normalize(reference[i].Question) == want {
			return &reference[i]
		}
	}
	return nil
}
