package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tidyup/internal/config"
)

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.APIURL != config.DefaultAPIURL {
		t.Errorf("expected default api url, got %q", cfg.APIURL)
	}
	if cfg.Mock {
		t.Error("mock should be off by default")
	}
	if cfg.MockLatency != config.DefaultMockLatency {
		t.Errorf("expected default latency, got %s", cfg.MockLatency)
	}
	if cfg.TokenPath() != filepath.Join(dir, "token.json") {
		t.Errorf("unexpected token path %q", cfg.TokenPath())
	}
}

func TestNewReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := "api_url: https://api.tidyup.example/\nmock: true\nmock_latency: 50ms\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.APIURL != "https://api.tidyup.example" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.APIURL)
	}
	if !cfg.Mock {
		t.Error("expected mock from config file")
	}
	if cfg.MockLatency != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %s", cfg.MockLatency)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: http://file:1\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TIDYUP_API_URL", "http://env:2")
	t.Setenv("TIDYUP_MOCK_API", "true")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if cfg.APIURL != "http://env:2" {
		t.Errorf("expected env api url, got %q", cfg.APIURL)
	}
	if !cfg.Mock {
		t.Error("expected mock from env")
	}
}

func TestNewInvalidEnv(t *testing.T) {
	t.Setenv("TIDYUP_MOCK_API", "maybe")

	_, err := config.New(t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestNewInvalidURL(t *testing.T) {
	t.Setenv("TIDYUP_API_URL", "not a url")

	if _, err := config.New(t.TempDir()); err == nil {
		t.Fatal("expected error for invalid api url")
	}
}

func TestDefaultConfigDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := config.DefaultConfigDir(); got != filepath.Join("/tmp/xdg", "tidyup") {
		t.Errorf("unexpected dir %q", got)
	}
}
