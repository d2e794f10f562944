package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/joho/godotenv"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with environment variable values
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if env var not set
	})
}

// expandConfigEnvVars expands environment variables in config string fields
func expandConfigEnvVars(cfg *Config) {
	cfg.Provider.APIKey = expandEnvVars(cfg.Provider.APIKey)
	cfg.Provider.BaseURL = expandEnvVars(cfg.Provider.BaseURL)
	cfg.Provider.Model = expandEnvVars(cfg.Provider.Model)
	cfg.Provider.CachePath = expandEnvVars(cfg.Provider.CachePath)
}

// LoadEnvFile loads credentials from a dotenv file into the process
// environment before config parsing, so ${VAR} references in the config can
// see them. An explicit path must exist; otherwise the first of config.env
// and .env found in the working directory is loaded, and absence of both is
// fine.
func LoadEnvFile(explicit string) error {
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", explicit, err)
		}
		return nil
	}
	for _, p := range []string{"config.env", ".env"} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err != nil {
				return fmt.Errorf("failed to load env file %s: %w", p, err)
			}
			return nil
		}
	}
	return nil
}
