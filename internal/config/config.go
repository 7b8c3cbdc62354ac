// Package config loads the optional YAML file that configures the
// program itself (where data lives, what to export). User preferences
// for the timer live in the database settings table instead.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/pomolit/internal/constants"
)

// Notifications controls desktop alerts
type Notifications struct {
	Enabled bool `yaml:"enabled"`
}

// KeepAlive controls the running-timer lockfile
type KeepAlive struct {
	Enabled bool `yaml:"enabled"`
}

// Metrics controls the OTLP exporter
type Metrics struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Insecure bool   `yaml:"insecure"`
}

// Server configures the reporting API
type Server struct {
	Addr string `yaml:"addr"`
}

// Config holds all configuration options
type Config struct {
	Database      string        `yaml:"database,omitempty"`
	Debug         bool          `yaml:"debug"`
	Notifications Notifications `yaml:"notifications"`
	KeepAlive     KeepAlive     `yaml:"keepalive"`
	Metrics       Metrics       `yaml:"metrics"`
	Server        Server        `yaml:"server"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Database:      constants.DefaultDBPath,
		Notifications: Notifications{Enabled: true},
		KeepAlive:     KeepAlive{Enabled: true},
		Server:        Server{Addr: constants.DefaultServerAddr},
	}
}

// DefaultPath returns the config file location, honouring XDG_CONFIG_HOME
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, constants.AppName, "config.yaml")
	}
	return ExpandHome(constants.DefaultConfigFile)
}

// Load reads path, falling back to defaults when the file is missing.
// A file that exists but does not parse is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(ExpandHome(path))
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = constants.DefaultServerAddr
	}
	if cfg.Database == "" {
		cfg.Database = constants.DefaultDBPath
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if db := os.Getenv("POMOLIT_DB"); db != "" {
		c.Database = db
	}
	if endpoint := os.Getenv("POMOLIT_OTEL_ENDPOINT"); endpoint != "" {
		c.Metrics.Endpoint = endpoint
		c.Metrics.Enabled = true
	}
}

// Save writes the configuration as YAML, creating parent directories
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	path = ExpandHome(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
