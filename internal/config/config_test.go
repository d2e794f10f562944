package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expands env var",
			input:  "${TEST_VAR}",
			expect: "test-value",
		},
		{
			name:   "keeps unset var",
			input:  "${UNSET_VAR}",
			expect: "${UNSET_VAR}",
		},
		{
			name:   "expands in string",
			input:  "https://${TEST_VAR}.example.com",
			expect: "https://test-value.example.com",
		},
		{
			name:   "no vars",
			input:  "plain string",
			expect: "plain string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expect {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	// Create temp config file
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")

	os.Setenv("QUEFILL_TEST_KEY", "secret-key")
	defer os.Unsetenv("QUEFILL_TEST_KEY")

	content := `
provider:
  kind: "openai"
  model: "text-embedding-3-small"
  api_key: "${QUEFILL_TEST_KEY}"
  base_url: "https://gateway.example.com/v1"

thresholds:
  question: 0.9
  answer: 0.8

columns:
  question: "Prompt"
  answer: "Response"

workers: 4

pinned_matches:
  - question: "Who is your DPO?"
    reference: "Who is the data protection officer?"
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider.Kind != "openai" {
		t.Errorf("Provider.Kind = %v, want openai", cfg.Provider.Kind)
	}
	if cfg.Provider.APIKey != "secret-key" {
		t.Errorf("Provider.APIKey = %v, want expanded env value", cfg.Provider.APIKey)
	}
	if cfg.Thresholds.Question != 0.9 {
		t.Errorf("Thresholds.Question = %v, want 0.9", cfg.Thresholds.Question)
	}
	if cfg.Thresholds.Answer != 0.8 {
		t.Errorf("Thresholds.Answer = %v, want 0.8", cfg.Thresholds.Answer)
	}
	if cfg.Columns.Question != "Prompt" {
		t.Errorf("Columns.Question = %v, want Prompt", cfg.Columns.Question)
	}
	if cfg.Workers != 4 {
		t.Errorf("Workers = %v, want 4", cfg.Workers)
	}
	if len(cfg.Pinned) != 1 {
		t.Errorf("len(Pinned) = %d, want 1", len(cfg.Pinned))
	}

	// Defaults still fill the gaps
	if cfg.Provider.TimeoutSeconds != 60 {
		t.Errorf("Provider.TimeoutSeconds = %v, want 60", cfg.Provider.TimeoutSeconds)
	}
	if cfg.Provider.Dimensions != 768 {
		t.Errorf("Provider.Dimensions = %v, want 768", cfg.Provider.Dimensions)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Provider.Kind != "exact" {
		t.Errorf("Provider.Kind = %v, want exact", cfg.Provider.Kind)
	}
	if cfg.Thresholds.Question != 0.85 {
		t.Errorf("Thresholds.Question = %v, want 0.85", cfg.Thresholds.Question)
	}
	if cfg.Thresholds.Answer != 0.85 {
		t.Errorf("Thresholds.Answer = %v, want 0.85", cfg.Thresholds.Answer)
	}
	if cfg.Columns.Question != "Question" || cfg.Columns.Answer != "Answer" {
		t.Errorf("Columns = %v/%v, want Question/Answer", cfg.Columns.Question, cfg.Columns.Answer)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %v, want 1", cfg.Workers)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if errs := Validate(cfg); len(errs) > 0 {
		t.Errorf("Validate(Default()) = %v, want no errors", errs)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid defaults",
			mutate:  func(cfg *Config) {},
			wantErr: false,
		},
		{
			name: "remote provider with key",
			mutate: func(cfg *Config) {
				cfg.Provider.Kind = "openai"
				cfg.Provider.APIKey = "sk-test"
			},
			wantErr: false,
		},
		{
			name: "remote provider without key",
			mutate: func(cfg *Config) {
				cfg.Provider.Kind = "gemini"
			},
			wantErr: true,
		},
		{
			name: "unknown provider kind",
			mutate: func(cfg *Config) {
				cfg.Provider.Kind = "telepathy"
			},
			wantErr: true,
		},
		{
			name: "question threshold out of range",
			mutate: func(cfg *Config) {
				cfg.Thresholds.Question = 1.5
			},
			wantErr: true,
		},
		{
			name: "answer threshold negative",
			mutate: func(cfg *Config) {
				cfg.Thresholds.Answer = -0.2
			},
			wantErr: true,
		},
		{
			name: "negative workers",
			mutate: func(cfg *Config) {
				cfg.Workers = -3
			},
			wantErr: true,
		},
		{
			name: "pinned match without reference",
			mutate: func(cfg *Config) {
				cfg.Pinned = []PinnedMatch{{Question: "Who is your DPO?"}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			errs := Validate(cfg)
			if tt.wantErr && len(errs) == 0 {
				t.Error("Validate() = no errors, want at least one")
			}
			if !tt.wantErr && len(errs) > 0 {
				t.Errorf("Validate() = %v, want no errors", errs)
			}
		})
	}
}

func TestPinnedMap(t *testing.T) {
	cfg := &Config{Pinned: []PinnedMatch{
		{Question: "Who is your DPO?", Reference: "Who is the data protection officer?"},
		{Question: "What is your DR plan?", Reference: "Describe your disaster recovery plan"},
	}}

	m := cfg.PinnedMap()
	if len(m) != 2 {
		t.Fatalf("len(PinnedMap()) = %d, want 2", len(m))
	}
	if m["Who is your DPO?"] != "Who is the data protection officer?" {
		t.Errorf("PinnedMap() lookup = %q", m["Who is your DPO?"])
	}

	if (&Config{}).PinnedMap() != nil {
		t.Error("PinnedMap() on empty config should be nil")
	}
}

func TestLoadEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	envPath := filepath.Join(tmpDir, "config.env")

	content := "QUEFILL_ENV_TEST=from-dotenv\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp env file: %v", err)
	}
	defer os.Unsetenv("QUEFILL_ENV_TEST")

	if err := LoadEnvFile(envPath); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("QUEFILL_ENV_TEST"); got != "from-dotenv" {
		t.Errorf("QUEFILL_ENV_TEST = %q, want from-dotenv", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Error("LoadEnvFile() accepted a missing explicit path")
	}
	// No explicit path: absence of config.env and .env is fine
	if err := LoadEnvFile(""); err != nil {
		t.Errorf("LoadEnvFile(\"\") error = %v, want nil", err)
	}
}

func TestFindConfigPath(t *testing.T) {
	if got := FindConfigPath("explicit.yaml"); got != "explicit.yaml" {
		t.Errorf("FindConfigPath(explicit) = %q, want passthrough", got)
	}
}
