package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	Provider   ProviderConfig   `yaml:"provider"`
	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Columns    ColumnsConfig    `yaml:"columns"`
	Workers    int              `yaml:"workers"`
	Pinned     []PinnedMatch    `yaml:"pinned_matches"`
}

// ProviderConfig contains settings for the semantic similarity provider
type ProviderConfig struct {
	Kind           string `yaml:"kind"`
	Model          string `yaml:"model"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Dimensions     int    `yaml:"dimensions"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CachePath      string `yaml:"cache_path"`
}

// ThresholdsConfig contains the acceptance thresholds
type ThresholdsConfig struct {
	Question float64 `yaml:"question"`
	Answer   float64 `yaml:"answer"`
}

// ColumnsConfig names the questionnaire columns to read
type ColumnsConfig struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

// PinnedMatch forces an unanswered question onto a specific reference
// question, bypassing similarity scoring for that pair
type PinnedMatch struct {
	Question  string `yaml:"question"`
	Reference string `yaml:"reference"`
}

// Load reads and parses config from the given path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns the configuration used when no config file exists: the
// offline exact provider with the standard thresholds.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	// Check common locations
	paths := []string{
		"quefill.yaml",
		"quefill.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	// Check home directory
	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "quefill", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// PinnedMap returns the pinned matches as a question-to-reference lookup.
// Later entries win on duplicate questions.
func (cfg *Config) PinnedMap() map[string]string {
	if len(cfg.Pinned) == 0 {
		return nil
	}
	m := make(map[string]string, len(cfg.Pinned))
	for _, p := range cfg.Pinned {
		m[p.Question] = p.Reference
	}
	return m
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Provider.Kind == "" {
		cfg.Provider.Kind = "exact"
	}
	if cfg.Provider.Dimensions == 0 {
		cfg.Provider.Dimensions = 768
	}
	if cfg.Provider.TimeoutSeconds == 0 {
		cfg.Provider.TimeoutSeconds = 60
	}
	if cfg.Thresholds.Question == 0 {
		cfg.Thresholds.Question = 0.85
	}
	if cfg.Thresholds.Answer == 0 {
		cfg.Thresholds.Answer = 0.85
	}
	if cfg.Columns.Question == "" {
		cfg.Columns.Question = "Question"
	}
	if cfg.Columns.Answer == "" {
		cfg.Columns.Answer = "Answer"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
}
