package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quefill/quefill/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}

			cfgPath := config.FindConfigPath(cfgFile)
			if cfgPath == "" {
				return fmt.Errorf("config file not found")
			}

			fmt.Printf("Validating config: %s\n", cfgPath)

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Println("\nValidation errors:")
				for _, e := range errs {
					fmt.Printf("  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Println("\nConfiguration is valid!")
			fmt.Printf("  - Provider: %s", cfg.Provider.Kind)
			if cfg.Provider.Model != "" {
				fmt.Printf(" (%s)", cfg.Provider.Model)
			}
			fmt.Println()
			fmt.Printf("  - Question threshold: %.2f\n", cfg.Thresholds.Question)
			fmt.Printf("  - Answer threshold: %.2f\n", cfg.Thresholds.Answer)
			fmt.Printf("  - Columns: %q / %q\n", cfg.Columns.Question, cfg.Columns.Answer)
			fmt.Printf("  - Pinned matches: %d configured\n", len(cfg.Pinned))

			return nil
		},
	}
}
