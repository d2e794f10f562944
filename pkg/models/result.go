package models

import "github.com/google/uuid"

// AnswerComparison scores the unanswered row's current answer against the
// answer carried by the matched reference row. Advisory only: it never affects
// whether the question match itself is accepted.
type AnswerComparison struct {
	Score    float64 `json:"score"`    // Similarity score (0-1)
	Reliable bool    `json:"reliable"` // Score met the answer threshold
}

// MatchResult is the outcome for one unanswered record. Matched is nil when no
// reference question reached the acceptance threshold (including an empty
// reference set); QuestionScore still carries the best score observed so
// reviewers can see near-misses. Answer is nil exactly when Matched is nil.
type MatchResult struct {
	Unanswered       QuestionRecord    `json:"unanswered"`
	Matched          *QuestionRecord   `json:"matched,omitempty"`
	QuestionScore    float64           `json:"question_score"`
	QuestionReliable bool              `json:"question_reliable"`
	Answer           *AnswerComparison `json:"answer,omitempty"`
}

// RunStats contains statistics from a matching run
type RunStats struct {
	Total      int   `json:"total"`
	Matched    int   `json:"matched"`
	Unmatched  int   `json:"unmatched"`
	Degraded   int   `json:"degraded"` // comparisons scored 0.0 after a provider failure
	DurationMs int64 `json:"duration_ms"`
}

// MatchRate returns the fraction of unanswered questions that matched (0-1)
func (s RunStats) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total)
}

// Report is the complete ordered output of one matching run. Results holds
// exactly one entry per unanswered record, in source row order.
type Report struct {
	RunID   string        `json:"run_id"`
	Results []MatchResult `json:"results"`
	Stats   RunStats      `json:"stats"`
}

// NewRunID generates a unique identifier for a matching run
func NewRunID() string {
	return uuid.NewString()
}
