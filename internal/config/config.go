// Package config handles the configuration directory, the optional config
// file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tidyup"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// TokenFile is the stored bearer token filename.
	TokenFile = "token.json"

	// MockStateFile holds the mock backend's state between invocations.
	MockStateFile = "mock_state.json"

	// DefaultAPIURL is used when no API base URL is configured.
	DefaultAPIURL = "http://localhost:8080"

	// DefaultMockLatency is the artificial delay of every mock call.
	DefaultMockLatency = 300 * time.Millisecond

	// DefaultHTTPTimeout bounds a single API request.
	DefaultHTTPTimeout = 10 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `yaml:"-"`

	// APIURL is the base URL of the TidyUp API.
	APIURL string `yaml:"api_url" env:"TIDYUP_API_URL"`

	// Mock selects the in-memory mock backend instead of the HTTP API.
	Mock bool `yaml:"mock" env:"TIDYUP_MOCK_API"`

	// MockLatency is the artificial delay of every mock call.
	MockLatency time.Duration `yaml:"mock_latency" env:"TIDYUP_MOCK_LATENCY"`

	// HTTPTimeout bounds a single API request.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"TIDYUP_HTTP_TIMEOUT"`

	// Debug enables debug logging.
	Debug bool `yaml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `yaml:"-"`
}

// New creates a Config for the default or specified config directory.
// Settings are layered: defaults, then config.yaml in the directory (if
// present), then TIDYUP_* environment variables.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:         dir,
		APIURL:      DefaultAPIURL,
		MockLatency: DefaultMockLatency,
		HTTPTimeout: DefaultHTTPTimeout,
	}

	if err := cfg.readFile(); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.APIURL = strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile() error {
	data, err := os.ReadFile(c.ConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", ConfigFile, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return nil
}

func (c *Config) validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api url: %q", c.APIURL)
	}
	if c.MockLatency < 0 {
		return fmt.Errorf("invalid mock latency: %s", c.MockLatency)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid http timeout: %s", c.HTTPTimeout)
	}
	return nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the optional config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// MockStatePath returns the path to the mock backend's state file.
func (c *Config) MockStatePath() string {
	return filepath.Join(c.Dir, MockStateFile)
}
