package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quefill/quefill/internal/similarity"
)

func newScoreCmd() *cobra.Command {
	var providerKind string

	cmd := &cobra.Command{
		Use:   "score [text-a] [text-b]",
		Short: "Score the similarity of two texts (debugging/testing)",
		Long:  `Score a single text pair with the configured similarity provider, exact comparison first.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if providerKind != "" {
				cfg.Provider.Kind = providerKind
			}
			if err := validateConfig(cfg); err != nil {
				return err
			}

			fmt.Printf("Text A (normalized): %s\n", similarity.Normalize(args[0]))
			fmt.Printf("Text B (normalized): %s\n", similarity.Normalize(args[1]))

			if score, _ := (similarity.Exact{}).Score(ctx, args[0], args[1]); score == 1 {
				fmt.Printf("\nSimilarity: 1.00 (exact)\n")
				return nil
			}

			provider, err := similarity.FromConfig(&cfg.Provider)
			if err != nil {
				return fmt.Errorf("failed to create similarity provider: %w", err)
			}
			defer provider.Close()

			score, err := provider.Score(ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("scoring failed: %w", err)
			}

			verdict := "below"
			if score >= cfg.Thresholds.Question {
				verdict = "at or above"
			}
			fmt.Printf("\nSimilarity: %.2f (%s, %s question threshold %.2f)\n",
				score, provider.Name(), verdict, cfg.Thresholds.Question)

			return nil
		},
	}

	cmd.Flags().StringVar(&providerKind, "provider", "", "similarity provider (exact, lexical, openai, gemini, chat)")

	return cmd
}
