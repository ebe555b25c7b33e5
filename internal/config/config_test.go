package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fantasy-advisor/internal/provider"
	"fantasy-advisor/internal/retry"
)

// clearEnv unsets every variable Load reads so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LEAGUE_ID", "YEAR", "ESPN_S2", "SWID",
		"MY_TEAM_ID", "MAX_TURNS", "OPENAI_API_KEY", "OPENAI_MODEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "advisor.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
league_id: 1234
year: 2025
espn_s2: s2-value
swid: "{ABC-123}"
max_turns: 6
openai:
  api_key: sk-test
  model: gpt-4o-mini
retry:
  max_attempts: 3
  base_delay: 100ms
  max_delay: 2s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LeagueID != 1234 || cfg.Year != 2025 {
		t.Errorf("league settings not loaded: %+v", cfg)
	}
	if cfg.SWID != "{ABC-123}" || cfg.ESPNS2 != "s2-value" {
		t.Errorf("cookies not loaded: %+v", cfg)
	}
	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("expected model gpt-4o-mini, got %q", cfg.OpenAI.Model)
	}
	if cfg.MaxTurns != 6 {
		t.Errorf("expected max_turns 6, got %d", cfg.MaxTurns)
	}
	if time.Duration(cfg.Retry.BaseDelay) != 100*time.Millisecond {
		t.Errorf("expected base_delay 100ms, got %v", cfg.Retry.BaseDelay)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEAGUE_ID", "5678")
	t.Setenv("YEAR", "2025")
	t.Setenv("OPENAI_API_KEY", "sk-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LeagueID != 5678 {
		t.Errorf("expected league 5678, got %d", cfg.LeagueID)
	}
	if cfg.OpenAI.APIKey != "sk-env" {
		t.Errorf("API key not read from env: %q", cfg.OpenAI.APIKey)
	}
	if cfg.OpenAI.Model != provider.DefaultOpenAIModel {
		t.Errorf("expected default model, got %q", cfg.OpenAI.Model)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
league_id: 1234
year: 2025
openai:
  api_key: sk-file
  model: gpt-4o-mini
`)
	t.Setenv("LEAGUE_ID", "9999")
	t.Setenv("OPENAI_MODEL", "gpt-4o")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LeagueID != 9999 {
		t.Errorf("env must override file, got league %d", cfg.LeagueID)
	}
	if cfg.OpenAI.Model != "gpt-4o" {
		t.Errorf("env must override file, got model %q", cfg.OpenAI.Model)
	}
	if cfg.OpenAI.APIKey != "sk-file" {
		t.Errorf("file value must survive when env is unset, got %q", cfg.OpenAI.APIKey)
	}
}

func TestLoadMissingRequiredFields(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "no league id",
			env:  map[string]string{"YEAR": "2025", "OPENAI_API_KEY": "sk"},
			want: "LeagueID",
		},
		{
			name: "no year",
			env:  map[string]string{"LEAGUE_ID": "1", "OPENAI_API_KEY": "sk"},
			want: "Year",
		},
		{
			name: "no api key",
			env:  map[string]string{"LEAGUE_ID": "1", "YEAR": "2025"},
			want: "APIKey",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error should name %s: %v", tt.want, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load("/nonexistent/advisor.yaml"); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestRetryPolicy(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEAGUE_ID", "1")
	t.Setenv("YEAR", "2025")
	t.Setenv("OPENAI_API_KEY", "sk")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	p := cfg.RetryPolicy()
	if p.MaxAttempts != retry.DefaultMaxAttempts {
		t.Errorf("expected default max attempts, got %d", p.MaxAttempts)
	}
	if p.BaseDelay != retry.DefaultBaseDelay {
		t.Errorf("expected default base delay, got %v", p.BaseDelay)
	}
}
