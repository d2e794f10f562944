package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quefill/quefill/internal/config"
)

var (
	cfgFile string
	envFile string
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "quefill",
	Short: "Questionnaire answer reuse tool",
	Long: `quefill matches the questions of an unanswered questionnaire against a
previously answered reference questionnaire and carries the old answers over,
with per-question similarity scores and reliability flags for review.

Matching runs exact comparison first and falls back to a configurable
similarity provider (OpenAI or Gemini embeddings, a chat model, or offline
lexical matching) for everything else.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file with provider credentials")

	rootCmd.AddCommand(newFillCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("quefill version %s\n", version)
		},
	}
}

// loadConfig is the shared command preamble: preload the dotenv file, find
// and parse the config, fall back to defaults when no file exists.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfgPath := config.FindConfigPath(cfgFile)
	if cfgPath == "" {
		return config.Default(), nil
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// validateConfig prints validation errors the way the config validate
// command does and reports whether cfg is usable.
func validateConfig(cfg *config.Config) error {
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("config error: %v\n", e)
		}
		return fmt.Errorf("invalid configuration")
	}
	return nil
}
