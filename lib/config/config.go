// Copyright 2026 The Livebasket Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ctnicholas/livebasket/lib/roomtoken"
)

// Config is the master configuration for livebasket.
type Config struct {
	// Auth configures room token issuance.
	Auth AuthConfig `yaml:"auth"`

	// Catalog configures the product catalog.
	Catalog CatalogConfig `yaml:"catalog"`

	// Log configures logging output.
	Log LogConfig `yaml:"log"`
}

// AuthConfig configures room token issuance.
type AuthConfig struct {
	// Secret is the shared HMAC signing secret for room tokens.
	// Required for token issuance; commands that only need an
	// ephemeral in-process room generate one when it is empty.
	Secret string `yaml:"secret"`

	// TokenTTL is how long issued room tokens remain valid.
	// Default: 15m.
	TokenTTL Duration `yaml:"token_ttl"`
}

// CatalogConfig configures the product catalog.
type CatalogConfig struct {
	// File is the path to a catalog YAML file. Empty means the
	// embedded default catalog.
	File string `yaml:"file"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	// Default: info.
	Level string `yaml:"level"`
}

// Duration wraps time.Duration so YAML values can be written as
// "15m" or "1h30m".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Default returns the default configuration. These defaults are a
// base for LoadFile to merge into; Load itself requires an explicit
// file.
func Default() *Config {
	return &Config{
		Auth: AuthConfig{
			TokenTTL: Duration(roomtoken.DefaultTTL),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the path named by the
// LIVEBASKET_CONFIG environment variable. Fails when the variable is
// unset: there are no fallback locations.
func Load() (*Config, error) {
	path := os.Getenv("LIVEBASKET_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("LIVEBASKET_CONFIG environment variable not set; " +
			"set it to the path of your livebasket.yaml config file, or use --config")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path, merging it
// over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if time.Duration(c.Auth.TokenTTL) < 0 {
		return fmt.Errorf("auth.token_ttl is negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts the configured log level name to a slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(c.Log.Level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
}
