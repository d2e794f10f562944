package match

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/quefill/quefill/pkg/models"
)

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{
			name:      "question threshold below range",
			cfg:       Config{QuestionThreshold: -0.1, AnswerThreshold: 0.85},
			wantField: "question_threshold",
		},
		{
			name:      "question threshold above range",
			cfg:       Config{QuestionThreshold: 1.1, AnswerThreshold: 0.85},
			wantField: "question_threshold",
		},
		{
			name:      "answer threshold above range",
			cfg:       Config{QuestionThreshold: 0.85, AnswerThreshold: 1.5},
			wantField: "answer_threshold",
		},
		{
			name:      "negative workers",
			cfg:       Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85, Workers: -1},
			wantField: "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(&stubProvider{}, tt.cfg)
			var cfgErr ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("NewEngine() error = %v, want ConfigError", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("ConfigError.Field = %q, want %q", cfgErr.Field, tt.wantField)
			}
		})
	}
}

func TestNewEngineRequiresProvider(t *testing.T) {
	_, err := NewEngine(nil, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85})
	var cfgErr ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("NewEngine() error = %v, want ConfigError", err)
	}
}

func TestEngineRejectsEmptyUnanswered(t *testing.T) {
	engine, err := NewEngine(&stubProvider{}, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	reference := []models.QuestionRecord{record(1, "Any question?", "Any answer")}
	rep, err := engine.Run(context.Background(), reference, nil)
	var inputErr InputError
	if !errors.As(err, &inputErr) {
		t.Fatalf("Run() error = %v, want InputError", err)
	}
	if rep != nil {
		t.Errorf("Run() report = %+v, want nil", rep)
	}
}

func TestEngineEmptyReference(t *testing.T) {
	engine, err := NewEngine(&stubProvider{}, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	unanswered := []models.QuestionRecord{
		record(1, "Do you encrypt data?", ""),
		record(2, "Where are your offices?", ""),
	}
	rep, err := engine.Run(context.Background(), nil, unanswered)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rep.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(rep.Results))
	}
	for i, r := range rep.Results {
		if r.Matched != nil {
			t.Errorf("Results[%d].Matched = %+v, want nil", i, r.Matched)
		}
		if r.QuestionScore != 0 {
			t.Errorf("Results[%d].QuestionScore = %v, want 0", i, r.QuestionScore)
		}
	}
	if rep.Stats.Unmatched != 2 || rep.Stats.Matched != 0 {
		t.Errorf("Stats = %+v, want 2 unmatched", rep.Stats)
	}
}

// fixture builds a small run: one exact match, one semantic match, one below
// threshold, one empty question.
func fixture() (*stubProvider, []models.QuestionRecord, []models.QuestionRecord) {
	reference := []models.QuestionRecord{
		record(1, "What is your company name?", "Acme GmbH"),
		record(2, "Do you encrypt data at rest?", "Yes, AES-256"),
		record(3, "How long do you retain backups?", "90 days"),
	}
	unanswered := []models.QuestionRecord{
		record(1, "Do you encrypt data at rest ?", ""),
		record(2, "What is your backup retention period?", "Backups kept 90 days"),
		record(3, "Do you run a bug bounty program?", ""),
		record(4, "", ""),
	}
	provider := &stubProvider{scores: map[string]float64{
		pairKey(unanswered[1].Question, reference[0].Question): 0.05,
		pairKey(unanswered[1].Question, reference[1].Question): 0.20,
		pairKey(unanswered[1].Question, reference[2].Question): 0.91,
		pairKey(unanswered[2].Question, reference[0].Question): 0.10,
		pairKey(unanswered[2].Question, reference[1].Question): 0.30,
		pairKey(unanswered[2].Question, reference[2].Question): 0.15,
		pairKey(unanswered[1].Answer, reference[2].Answer):     0.88,
	}}
	return provider, reference, unanswered
}

func TestEngineRun(t *testing.T) {
	provider, reference, unanswered := fixture()
	engine, err := NewEngine(provider, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	rep, err := engine.Run(context.Background(), reference, unanswered)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rep.Results) != len(unanswered) {
		t.Fatalf("len(Results) = %d, want %d", len(rep.Results), len(unanswered))
	}
	for i, r := range rep.Results {
		if r.Unanswered.RowID != i+1 {
			t.Errorf("Results[%d] carries row %d, want source order", i, r.Unanswered.RowID)
		}
		if (r.Matched == nil) != (r.Answer == nil) {
			t.Errorf("Results[%d]: Answer presence must follow Matched presence", i)
		}
	}

	exact := rep.Results[0]
	if exact.Matched == nil || exact.Matched.RowID != 2 {
		t.Fatalf("Results[0].Matched = %+v, want reference row 2", exact.Matched)
	}
	if exact.QuestionScore != 1 || !exact.QuestionReliable {
		t.Errorf("Results[0] score = %v reliable = %v, want 1 and true", exact.QuestionScore, exact.QuestionReliable)
	}
	if exact.Answer.Score != 0 || exact.Answer.Reliable {
		t.Errorf("Results[0].Answer = %+v, want score 0 for empty current answer", exact.Answer)
	}

	semantic := rep.Results[1]
	if semantic.Matched == nil || semantic.Matched.RowID != 3 {
		t.Fatalf("Results[1].Matched = %+v, want reference row 3", semantic.Matched)
	}
	if semantic.QuestionScore != 0.91 {
		t.Errorf("Results[1].QuestionScore = %v, want 0.91", semantic.QuestionScore)
	}
	if semantic.Answer.Score != 0.88 || !semantic.Answer.Reliable {
		t.Errorf("Results[1].Answer = %+v, want 0.88 reliable", semantic.Answer)
	}

	below := rep.Results[2]
	if below.Matched != nil {
		t.Errorf("Results[2].Matched = %+v, want nil below threshold", below.Matched)
	}
	if below.QuestionScore != 0.30 {
		t.Errorf("Results[2].QuestionScore = %v, want best score 0.30", below.QuestionScore)
	}

	empty := rep.Results[3]
	if empty.Matched != nil || empty.QuestionScore != 0 {
		t.Errorf("Results[3] = %+v, want unmatched with score 0", empty)
	}

	stats := rep.Stats
	if stats.Total != 4 || stats.Matched != 2 || stats.Unmatched != 2 {
		t.Errorf("Stats = %+v, want total 4, matched 2, unmatched 2", stats)
	}
	if stats.Degraded != 0 {
		t.Errorf("Stats.Degraded = %d, want 0", stats.Degraded)
	}
	if rep.RunID == "" {
		t.Error("RunID is empty")
	}
}

func TestEngineWorkersMatchSequential(t *testing.T) {
	provider, reference, unanswered := fixture()
	sequential, err := NewEngine(provider, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	concurrent, err := NewEngine(provider, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85, Workers: 4})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	seqRep, err := sequential.Run(context.Background(), reference, unanswered)
	if err != nil {
		t.Fatalf("sequential Run() error = %v", err)
	}
	conRep, err := concurrent.Run(context.Background(), reference, unanswered)
	if err != nil {
		t.Fatalf("concurrent Run() error = %v", err)
	}

	if !reflect.DeepEqual(seqRep.Results, conRep.Results) {
		t.Errorf("worker pool changed results:\nsequential: %+v\nconcurrent: %+v", seqRep.Results, conRep.Results)
	}
}

func TestEngineIdempotent(t *testing.T) {
	provider, reference, unanswered := fixture()
	engine, err := NewEngine(provider, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	first, err := engine.Run(context.Background(), reference, unanswered)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	second, err := engine.Run(context.Background(), reference, unanswered)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(first.Results, second.Results) {
		t.Error("identical inputs produced different results")
	}
}

func TestEngineDegradedRun(t *testing.T) {
	question := "How long do you retain backups?"
	reference := []models.QuestionRecord{
		record(1, "What is your company name?", "Acme"),
		record(2, "What is your backup retention period?", "90 days"),
	}
	provider := &stubProvider{
		scores: map[string]float64{
			pairKey(question, reference[1].Question): 0.91,
		},
		errs: map[string]error{
			pairKey(question, reference[0].Question): errors.New("deadline exceeded"),
		},
	}
	engine, err := NewEngine(provider, Config{QuestionThreshold: 0.85, AnswerThreshold: 0.85})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	unanswered := []models.QuestionRecord{record(1, question, "90 days")}
	rep, err := engine.Run(context.Background(), reference, unanswered)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rep.Results[0].Matched == nil || rep.Results[0].Matched.RowID != 2 {
		t.Fatalf("Matched = %+v, want row 2 despite one degraded candidate", rep.Results[0].Matched)
	}
	if rep.Stats.Degraded != 1 {
		t.Errorf("Stats.Degraded = %d, want 1", rep.Stats.Degraded)
	}
}
