package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quefill/quefill/internal/match"
	"github.com/quefill/quefill/internal/questionnaire"
	"github.com/quefill/quefill/internal/report"
	"github.com/quefill/quefill/internal/similarity"
)

func newFillCmd() *cobra.Command {
	var (
		output            string
		providerKind      string
		questionThreshold float64
		answerThreshold   float64
		workers           int
		questionCol       string
		answerCol         string
		refQuestionCol    string
		refAnswerCol      string
	)

	cmd := &cobra.Command{
		Use:   "fill [reference] [unanswered]",
		Short: "Fill an unanswered questionnaire from an answered reference",
		Long: `Match every question of the unanswered questionnaire against the answered
reference questionnaire and write a review file pairing each question with the
best-scoring reference question, its answer, and similarity scores.

Questions with no reference match above the threshold are kept in the output
with their best score, so nothing silently disappears.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			// Flag overrides beat the config file.
			if cmd.Flags().Changed("question-threshold") {
				cfg.Thresholds.Question = questionThreshold
			}
			if cmd.Flags().Changed("answer-threshold") {
				cfg.Thresholds.Answer = answerThreshold
			}
			if providerKind != "" {
				cfg.Provider.Kind = providerKind
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if err := validateConfig(cfg); err != nil {
				return err
			}

			if refQuestionCol == "" {
				refQuestionCol = cfg.Columns.Question
			}
			if refAnswerCol == "" {
				refAnswerCol = cfg.Columns.Answer
			}
			if questionCol == "" {
				questionCol = cfg.Columns.Question
			}
			if answerCol == "" {
				answerCol = cfg.Columns.Answer
			}

			reference, err := questionnaire.Load(args[0], refQuestionCol, refAnswerCol)
			if err != nil {
				return fmt.Errorf("failed to load reference questionnaire: %w", err)
			}
			unanswered, err := questionnaire.Load(args[1], questionCol, answerCol)
			if err != nil {
				return fmt.Errorf("failed to load unanswered questionnaire: %w", err)
			}

			provider, err := similarity.FromConfig(&cfg.Provider)
			if err != nil {
				return fmt.Errorf("failed to create similarity provider: %w", err)
			}
			defer provider.Close()

			engine, err := match.NewEngine(provider, match.Config{
				QuestionThreshold: cfg.Thresholds.Question,
				AnswerThreshold:   cfg.Thresholds.Answer,
				Workers:           cfg.Workers,
				Pinned:            cfg.PinnedMap(),
			})
			if err != nil {
				return err
			}

			fmt.Printf("Matching %d questions against %d reference questions using %s...\n",
				len(unanswered), len(reference), provider.Name())

			rep, err := engine.Run(ctx, reference, unanswered)
			if err != nil {
				return fmt.Errorf("matching failed: %w", err)
			}

			opts := report.Options{
				QuestionThreshold: cfg.Thresholds.Question,
				AnswerThreshold:   cfg.Thresholds.Answer,
			}
			if err := report.Write(output, rep, opts); err != nil {
				return fmt.Errorf("failed to write results: %w", err)
			}

			stats := rep.Stats
			fmt.Printf("\nRun %s\n", rep.RunID)
			fmt.Printf("  Total questions:      %d\n", stats.Total)
			fmt.Printf("  Matched:              %d\n", stats.Matched)
			fmt.Printf("  No match found:       %d\n", stats.Unmatched)
			fmt.Printf("  Match rate:           %.1f%%\n", stats.MatchRate()*100)
			if stats.Degraded > 0 {
				fmt.Printf("  Degraded comparisons: %d (provider failures scored 0.0)\n", stats.Degraded)
			}
			fmt.Printf("\nResults saved to %s (%dms)\n", output, stats.DurationMs)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "combined_questionnaire.csv", "output file (.csv or .xlsx)")
	cmd.Flags().StringVar(&providerKind, "provider", "", "similarity provider (exact, lexical, openai, gemini, chat)")
	cmd.Flags().Float64Var(&questionThreshold, "question-threshold", 0.85, "minimum score to accept a question match")
	cmd.Flags().Float64Var(&answerThreshold, "answer-threshold", 0.85, "minimum score to flag an answer as reliable")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent questions to process (0 = sequential)")
	cmd.Flags().StringVar(&questionCol, "question-col", "", "question column in the unanswered file")
	cmd.Flags().StringVar(&answerCol, "answer-col", "", "answer column in the unanswered file")
	cmd.Flags().StringVar(&refQuestionCol, "ref-question-col", "", "question column in the reference file")
	cmd.Flags().StringVar(&refAnswerCol, "ref-answer-col", "", "answer column in the reference file")

	return cmd
}
