// Package config loads and persists the reporter configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/HealKnix/code-quality-reporter/internal/kvstore"
)

// DefaultBaseURL is the report backend used when nothing is configured.
const DefaultBaseURL = "http://localhost:8000"

// DefaultPollInterval is how often task status is re-fetched.
const DefaultPollInterval = 3 * time.Second

// Config represents the application configuration.
type Config struct {
	BaseURL             string   `yaml:"base_url,omitempty"`
	DefaultFormat       string   `yaml:"default_format,omitempty"`
	NotifyEmail         string   `yaml:"notify_email,omitempty"`
	PollIntervalSeconds int      `yaml:"poll_interval_seconds,omitempty"`
	ExcludeContributors []string `yaml:"exclude_contributors,omitempty"`
	CacheTTLMinutes     int      `yaml:"cache_ttl_minutes,omitempty"`

	store kvstore.Store
}

// DefaultConfigDir returns the default config directory.
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".cqr"
	}
	return filepath.Join(configDir, "cqr")
}

// ConfigPath returns the path to the global config file.
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the
// current directory.
func LocalConfigPath() string {
	return ".cqr.yaml"
}

// Load loads the configuration from disk. It first loads the global
// config from the XDG config directory, then merges any local
// .cqr.yaml on top (local values take precedence). A local .env file
// is loaded for environment-only settings like GITHUB_TOKEN.
func Load(store kvstore.Store) (*Config, error) {
	// Missing .env is fine; any other read error is not worth failing
	// startup over either.
	_ = godotenv.Load()

	cfg := &Config{
		DefaultFormat: "table",
		store:         store,
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg.merge(&localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = "table"
	}

	return cfg, nil
}

// merge overlays local values on top of the receiver. Unset local
// values preserve the existing ones.
func (c *Config) merge(local *Config) {
	if local.BaseURL != "" {
		c.BaseURL = local.BaseURL
	}
	if local.DefaultFormat != "" {
		c.DefaultFormat = local.DefaultFormat
	}
	if local.NotifyEmail != "" {
		c.NotifyEmail = local.NotifyEmail
	}
	if local.PollIntervalSeconds > 0 {
		c.PollIntervalSeconds = local.PollIntervalSeconds
	}
	if len(local.ExcludeContributors) > 0 {
		c.ExcludeContributors = local.ExcludeContributors
	}
	if local.CacheTTLMinutes > 0 {
		c.CacheTTLMinutes = local.CacheTTLMinutes
	}
}

// Save saves the global configuration to disk.
func (c *Config) Save() error {
	configDir := DefaultConfigDir()
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GetBaseURL returns the report backend base URL: key-value store
// first, then config file, then the built-in default.
func (c *Config) GetBaseURL() string {
	if c.store != nil {
		if v, ok := c.store.Get(kvstore.KeyBaseURL); ok && v != "" {
			return v
		}
	}
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

// GetGitHubToken returns the GitHub token. The environment wins
// (12-factor style, including a local .env); the key-value store is
// the fallback for users who ran `cqr config set token`.
func (c *Config) GetGitHubToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	if c.store != nil {
		if v, ok := c.store.Get(kvstore.KeyToken); ok {
			return v
		}
	}
	return ""
}

// GetNotifyEmail returns the default report notification email.
func (c *Config) GetNotifyEmail() string {
	if c.store != nil {
		if v, ok := c.store.Get(kvstore.KeyEmail); ok && v != "" {
			return v
		}
	}
	return c.NotifyEmail
}

// PollInterval returns the task status poll interval.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalSeconds > 0 {
		return time.Duration(c.PollIntervalSeconds) * time.Second
	}
	return DefaultPollInterval
}

// CacheTTL returns how long cached contributor rosters stay valid.
func (c *Config) CacheTTL() time.Duration {
	if c.CacheTTLMinutes > 0 {
		return time.Duration(c.CacheTTLMinutes) * time.Minute
	}
	return 15 * time.Minute
}

// Store exposes the key-value capability for commands that mutate it.
func (c *Config) Store() kvstore.Store {
	return c.store
}

// IsContributorExcluded checks if a login is in the exclude list.
func (c *Config) IsContributorExcluded(login string) bool {
	for _, excluded := range c.ExcludeContributors {
		if excluded == login {
			return true
		}
	}
	return false
}

// MinimalConfig returns a minimal config template with comments.
func MinimalConfig() string {
	return `# code-quality-reporter configuration file

# Report backend base URL
base_url: http://localhost:8000

# Output format: table or json
default_format: table

# Default email for finished-report notifications (optional)
# notify_email: you@example.com

# Task status poll interval in seconds
# poll_interval_seconds: 3

# Exclude bot contributors (optional)
# exclude_contributors:
#   - dependabot[bot]
#   - renovate[bot]
`
}
