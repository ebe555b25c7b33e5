// Package config loads advisor settings from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"fantasy-advisor/internal/provider"
	"fantasy-advisor/internal/retry"
)

// Config holds everything the advisor needs to run.
type Config struct {
	// LeagueID is the fantasy league identifier from the league URL.
	LeagueID int `yaml:"league_id" validate:"required,gt=0"`
	// Year is the season year.
	Year int `yaml:"year" validate:"required,gte=2000,lte=2100"`
	// ESPNS2 and SWID are the cookies for private league access.
	ESPNS2 string `yaml:"espn_s2"`
	SWID   string `yaml:"swid"`
	// MyTeamID pins the caller's team explicitly. Zero means identify
	// it from the SWID cookie.
	MyTeamID int `yaml:"my_team_id" validate:"gte=0"`
	// MaxTurns bounds model round trips per question.
	MaxTurns int `yaml:"max_turns" validate:"gte=0,lte=32"`

	OpenAI OpenAIConfig `yaml:"openai"`
	Retry  RetryConfig  `yaml:"retry"`
}

// OpenAIConfig configures the model provider.
type OpenAIConfig struct {
	APIKey string `yaml:"api_key" validate:"required"`
	Model  string `yaml:"model"`
}

// RetryConfig configures the backoff schedule for external calls.
type RetryConfig struct {
	MaxAttempts int      `yaml:"max_attempts" validate:"gte=0,lte=10"`
	BaseDelay   Duration `yaml:"base_delay" validate:"gte=0"`
	MaxDelay    Duration `yaml:"max_delay" validate:"gte=0"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "500ms" or "2s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"500ms\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads the YAML file at path (when non-empty), applies
// environment overrides, fills defaults, and validates the result.
// With an empty path the configuration comes purely from the
// environment, matching how credentials are usually supplied.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv lets environment variables win over file values.
func (c *Config) applyEnv() {
	if v, ok := envInt("LEAGUE_ID"); ok {
		c.LeagueID = v
	}
	if v, ok := envInt("YEAR"); ok {
		c.Year = v
	}
	if v := os.Getenv("ESPN_S2"); v != "" {
		c.ESPNS2 = v
	}
	if v := os.Getenv("SWID"); v != "" {
		c.SWID = v
	}
	if v, ok := envInt("MY_TEAM_ID"); ok {
		c.MyTeamID = v
	}
	if v, ok := envInt("MAX_TURNS"); ok {
		c.MaxTurns = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		c.OpenAI.Model = v
	}
}

func (c *Config) applyDefaults() {
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = provider.DefaultOpenAIModel
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = retry.DefaultMaxAttempts
	}
	if c.Retry.BaseDelay == 0 {
		c.Retry.BaseDelay = Duration(retry.DefaultBaseDelay)
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = Duration(retry.DefaultMaxDelay)
	}
}

func (c *Config) validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Errorf("config: invalid %s (failed %q constraint)", first.Namespace(), first.Tag())
	}
	return fmt.Errorf("config: %w", err)
}

// RetryPolicy converts the retry settings into a policy.
func (c *Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	p.MaxAttempts = c.Retry.MaxAttempts
	p.BaseDelay = time.Duration(c.Retry.BaseDelay)
	p.MaxDelay = time.Duration(c.Retry.MaxDelay)
	return p
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
