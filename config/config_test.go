package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HealKnix/code-quality-reporter/internal/kvstore"
)

// isolate points the config loader at empty directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("GITHUB_TOKEN", "")
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(kvstore.NewMemStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetBaseURL() != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.GetBaseURL())
	}
	if cfg.DefaultFormat != "table" {
		t.Errorf("expected table format, got %q", cfg.DefaultFormat)
	}
	if cfg.PollInterval() != DefaultPollInterval {
		t.Errorf("expected default poll interval, got %v", cfg.PollInterval())
	}
	if cfg.CacheTTL() != 15*time.Minute {
		t.Errorf("expected 15m cache TTL, got %v", cfg.CacheTTL())
	}
}

func TestLocalOverridesGlobal(t *testing.T) {
	isolate(t)

	globalDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "cqr")
	if err := os.MkdirAll(globalDir, 0700); err != nil {
		t.Fatal(err)
	}
	global := "base_url: http://global:8000\nnotify_email: global@example.com\n"
	if err := os.WriteFile(filepath.Join(globalDir, "config.yaml"), []byte(global), 0600); err != nil {
		t.Fatal(err)
	}

	local := "base_url: http://local:8000\n"
	if err := os.WriteFile(".cqr.yaml", []byte(local), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(kvstore.NewMemStore())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetBaseURL() != "http://local:8000" {
		t.Errorf("expected local base URL to win, got %q", cfg.GetBaseURL())
	}
	if cfg.GetNotifyEmail() != "global@example.com" {
		t.Errorf("expected unset local values to fall back to global, got %q", cfg.GetNotifyEmail())
	}
}

func TestStoreValuesWin(t *testing.T) {
	isolate(t)

	store := kvstore.NewMemStore()
	if err := store.Set(kvstore.KeyBaseURL, "http://stored:9000"); err != nil {
		t.Fatal(err)
	}
	if err := store.Set(kvstore.KeyEmail, "stored@example.com"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GetBaseURL() != "http://stored:9000" {
		t.Errorf("expected stored base URL to win, got %q", cfg.GetBaseURL())
	}
	if cfg.GetNotifyEmail() != "stored@example.com" {
		t.Errorf("expected stored email to win, got %q", cfg.GetNotifyEmail())
	}
}

func TestGetGitHubTokenPrecedence(t *testing.T) {
	isolate(t)

	store := kvstore.NewMemStore()
	if err := store.Set(kvstore.KeyToken, "stored-token"); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := cfg.GetGitHubToken(); got != "stored-token" {
		t.Errorf("expected stored token fallback, got %q", got)
	}

	t.Setenv("GITHUB_TOKEN", "env-token")
	if got := cfg.GetGitHubToken(); got != "env-token" {
		t.Errorf("expected environment token to win, got %q", got)
	}
}

func TestIsContributorExcluded(t *testing.T) {
	cfg := &Config{ExcludeContributors: []string{"dependabot[bot]", "renovate[bot]"}}

	if !cfg.IsContributorExcluded("dependabot[bot]") {
		t.Error("expected dependabot excluded")
	}
	if cfg.IsContributorExcluded("alice") {
		t.Error("alice should not be excluded")
	}
}
