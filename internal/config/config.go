// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/release-notifier/internal/schemas"
	"github.com/jonathan/release-notifier/internal/types"
)

// Config is the notifier configuration. Settings come from a JSON file
// merged with CLI flags; secrets and connection URLs come from the
// environment only.
type Config struct {
	Repos              []types.WatchedRepository `json:"repos" validate:"required,min=1,dive"`
	SendMode           string                    `json:"send_mode,omitempty" validate:"omitempty,oneof=combined per_repo"`
	IncludePrereleases bool                      `json:"include_prereleases,omitempty"`
	FetchCount         int                       `json:"fetch_count,omitempty" validate:"omitempty,min=1"`
	MaxBullets         int                       `json:"max_bullets,omitempty" validate:"omitempty,min=1"`
	Sections           []types.SectionRule       `json:"sections,omitempty" validate:"omitempty,dive"`
	Summary            SummaryConfig             `json:"summary,omitempty"`
	State              StateConfig               `json:"state,omitempty"`
	WebhookURL         string                    `json:"webhook_url,omitempty"`

	// Environment-only fields, never read from the config file.
	GitHubToken   string `json:"-"`
	GitLabToken   string `json:"-"`
	GitLabBaseURL string `json:"-"`
	GeminiAPIKey  string `json:"-"`
	GeminiModel   string `json:"-"`
	OpenAIAPIKey  string `json:"-"`
	OpenAIModel   string `json:"-"`
	DatabaseURL   string `json:"-"`
	RedisURL      string `json:"-"`
	LogFormat     string `json:"-"`
}

// SummaryConfig selects the LLM summary provider.
type SummaryConfig struct {
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=auto gemini openai"`
	Model    string `json:"model,omitempty"`
}

// StateConfig selects the last-seen cursor backend.
type StateConfig struct {
	Backend string `json:"backend,omitempty" validate:"omitempty,oneof=file postgres redis"`
	Path    string `json:"path,omitempty"`
}

// Load reads a JSON config file, checks it against the embedded schema,
// and parses it.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := schemas.ValidateConfig(data); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv fills secrets from the environment and lets environment
// variables stand in for unset file settings. File values win for
// settings; INCLUDE_PRERELEASES overrides when present because a bool
// cannot distinguish unset from false.
func (c *Config) ApplyEnv() {
	c.GitHubToken = os.Getenv("GITHUB_TOKEN")
	c.GitLabToken = os.Getenv("GITLAB_TOKEN")
	c.GitLabBaseURL = os.Getenv("GITLAB_BASE_URL")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	c.GeminiModel = os.Getenv("GEMINI_MODEL")
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.OpenAIModel = os.Getenv("OPENAI_MODEL")
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.RedisURL = os.Getenv("REDIS_URL")
	c.LogFormat = os.Getenv("LOG_FORMAT")

	if c.WebhookURL == "" {
		c.WebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	if c.SendMode == "" {
		c.SendMode = os.Getenv("SLACK_SEND_MODE")
	}
	if c.State.Path == "" {
		c.State.Path = os.Getenv("STATE_PATH")
	}
	if v, ok := os.LookupEnv("INCLUDE_PRERELEASES"); ok {
		c.IncludePrereleases = envBool(v)
	}
}

// Normalize fills defaults after file, flag, and environment merging.
func (c *Config) Normalize() {
	if c.SendMode == "" {
		c.SendMode = string(types.SendCombined)
	}
	if c.FetchCount <= 0 {
		c.FetchCount = DefaultFetchCount
	}
	if c.FetchCount > MaxFetchCount {
		c.FetchCount = MaxFetchCount
	}
	if c.MaxBullets <= 0 {
		c.MaxBullets = types.DefaultMaxBullets
	}
	if len(c.Sections) == 0 {
		c.Sections = DefaultSectionRules()
	}
}

// Validate checks the merged configuration: struct constraints, repo
// entries, and that every section pattern compiles.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for _, rule := range c.Sections {
		for _, pattern := range rule.Patterns {
			if _, err := regexp.Compile("(?i)" + pattern); err != nil {
				return fmt.Errorf("config error: section %s pattern %q does not compile: %w", rule.Name, pattern, err)
			}
		}
	}

	return nil
}

// RequireWebhook returns an error when no delivery target is configured.
// The run command treats this as fatal: nothing can be delivered.
func (c *Config) RequireWebhook() error {
	if strings.TrimSpace(c.WebhookURL) == "" {
		return fmt.Errorf("no webhook URL configured: set webhook_url or SLACK_WEBHOOK_URL")
	}
	return nil
}

// Mode returns the parsed send mode.
func (c *Config) Mode() types.SendMode {
	return types.ParseSendMode(c.SendMode)
}

// envBool follows the scheduler convention: 1/true/yes/y/on enable a flag.
func envBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
