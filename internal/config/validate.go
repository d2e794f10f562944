package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors
func Validate(cfg *Config) []error {
	var errs []error

	// Validate provider config
	switch cfg.Provider.Kind {
	case "exact", "lexical":
		// Offline providers need no credentials
	case "openai", "gemini", "chat":
		if cfg.Provider.APIKey == "" {
			errs = append(errs, ValidationError{"provider.api_key", "required for remote providers"})
		}
	default:
		errs = append(errs, ValidationError{"provider.kind", "must be one of 'exact', 'lexical', 'openai', 'gemini', 'chat'"})
	}

	if cfg.Provider.Dimensions < 0 {
		errs = append(errs, ValidationError{"provider.dimensions", "must not be negative"})
	}
	if cfg.Provider.TimeoutSeconds < 0 {
		errs = append(errs, ValidationError{"provider.timeout_seconds", "must not be negative"})
	}

	// Validate thresholds
	if cfg.Thresholds.Question < 0 || cfg.Thresholds.Question > 1 {
		errs = append(errs, ValidationError{"thresholds.question", "must be between 0 and 1"})
	}
	if cfg.Thresholds.Answer < 0 || cfg.Thresholds.Answer > 1 {
		errs = append(errs, ValidationError{"thresholds.answer", "must be between 0 and 1"})
	}

	if cfg.Workers < 0 {
		errs = append(errs, ValidationError{"workers", "must not be negative"})
	}

	// Validate pinned matches
	for i, pin := range cfg.Pinned {
		prefix := fmt.Sprintf("pinned_matches[%d]", i)

		if strings.TrimSpace(pin.Question) == "" {
			errs = append(errs, ValidationError{prefix + ".question", "required"})
		}
		if strings.TrimSpace(pin.Reference) == "" {
			errs = append(errs, ValidationError{prefix + ".reference", "required"})
		}
	}

	return errs
}
