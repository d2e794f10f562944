package match

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quefill/quefill/internal/similarity"
	"github.com/quefill/quefill/pkg/models"
)

// Config holds the engine settings.
type Config struct {
	// QuestionThreshold is the minimum score for a question match to be
	// accepted, on [0, 1]. The boundary value itself is accepted.
	QuestionThreshold float64

	// AnswerThreshold is the minimum score for an answer comparison to be
	// flagged reliable, on [0, 1].
	AnswerThreshold float64

	// Workers bounds concurrent record processing. Values below 2 run the
	// batch sequentially.
	Workers int

	// Pinned maps unanswered question text to the reference question it must
	// match, bypassing similarity scoring for those pairs.
	Pinned map[string]string
}

// Engine runs the full matching pass: every unanswered record scored against
// the reference set, one MatchResult per record, in source order, no drops.
type Engine struct {
	matcher    *Matcher
	comparator *Comparator
	workers    int
}

// NewEngine validates cfg and builds an engine around the given semantic
// provider. Out-of-range thresholds and worker counts are rejected here,
// before any matching work.
func NewEngine(semantic similarity.Provider, cfg Config) (*Engine, error) {
	if semantic == nil {
		return nil, ConfigError{Field: "provider", Message: "semantic provider is required"}
	}
	if cfg.QuestionThreshold < 0 || cfg.QuestionThreshold > 1 {
		return nil, ConfigError{Field: "question_threshold", Message: "must be between 0 and 1"}
	}
	if cfg.AnswerThreshold < 0 || cfg.AnswerThreshold > 1 {
		return nil, ConfigError{Field: "answer_threshold", Message: "must be between 0 and 1"}
	}
	if cfg.Workers < 0 {
		return nil, ConfigError{Field: "workers", Message: "must not be negative"}
	}

	return &Engine{
		matcher:    NewMatcher(semantic, cfg.QuestionThreshold, cfg.Pinned),
		comparator: NewComparator(semantic, cfg.AnswerThreshold),
		workers:    cfg.Workers,
	}, nil
}

// Run matches every unanswered record against the reference set. reference
// may be empty, in which case every record comes back unmatched with score
// 0.0. An empty unanswered set is refused with InputError. Results keep the
// source order of unanswered regardless of worker count.
func (e *Engine) Run(ctx context.Context, reference, unanswered []models.QuestionRecord) (*models.Report, error) {
	if len(unanswered) == 0 {
		return nil, InputError{Reason: "unanswered questionnaire has no records"}
	}

	start := time.Now()
	results := make([]models.MatchResult, len(unanswered))
	var degraded atomic.Int64

	process := func(ctx context.Context, i int) {
		record := unanswered[i]
		best, score, deg := e.matcher.Match(ctx, record, reference)
		result := models.MatchResult{
			Unanswered:       record,
			Matched:          best,
			QuestionScore:    score,
			QuestionReliable: score >= e.matcher.threshold,
		}
		if best != nil {
			comparison, cdeg := e.comparator.Compare(ctx, record, *best)
			result.Answer = &comparison
			deg += cdeg
		}
		results[i] = result
		if deg > 0 {
			degraded.Add(int64(deg))
		}
	}

	if e.workers < 2 {
		for i := range unanswered {
			process(ctx, i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i := range unanswered {
			g.Go(func() error {
				process(gctx, i)
				return nil
			})
		}
		// Workers degrade failures instead of returning them.
		_ = g.Wait()
	}

	stats := models.RunStats{
		Total:      len(unanswered),
		Degraded:   int(degraded.Load()),
		DurationMs: time.Since(start).Milliseconds(),
	}
	for i := range results {
		if results[i].Matched != nil {
			stats.Matched++
		} else {
			stats.Unmatched++
		}
	}

	return &models.Report{
		RunID:   models.NewRunID(),
		Results: results,
		Stats:   stats,
	}, nil
}
