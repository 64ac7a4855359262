// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for lineadmin.
//
// Configuration is TOML at ~/.lineadmin/config.toml with built-in defaults
// and LINEADMIN_* environment variable overrides, applied in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/lineadmin-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete lineadmin configuration.
type Config struct {
	Version string `toml:"version"`

	// Server is the remote user-management API.
	Server ServerConfig `toml:"server"`

	// UI holds terminal presentation settings.
	UI UIConfig `toml:"ui"`
}

// ServerConfig points the console at the user-management API.
type ServerConfig struct {
	// URL is the API base URL.
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	// PageSize is the number of directory rows per page.
	PageSize int `toml:"page_size"`
	// Theme selects the color register: "dark" or "auto".
	Theme string `toml:"theme"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			URL:         "http://127.0.0.1:8990",
			TimeoutSecs: 15,
		},
		UI: UIConfig{
			PageSize: 10,
			Theme:    "auto",
		},
	}
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the lineadmin configuration directory (~/.lineadmin).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".lineadmin"), nil
}

// Path returns the config file location (~/.lineadmin/config.toml).
func Path() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads configuration from the config file, falling back to defaults
// when the file does not exist. Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from an explicit file path. A missing
// file yields defaults, not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the standard location atomically.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes the configuration to an explicit path atomically.
func SaveToPath(cfg *Config, path string) error {
	var buf []byte
	{
		w := &tomlBuffer{}
		if err := toml.NewEncoder(w).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		buf = w.data
	}
	return util.AtomicWriteFile(path, buf, 0600)
}

// tomlBuffer is a minimal io.Writer for the TOML encoder.
type tomlBuffer struct{ data []byte }

func (b *tomlBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// =============================================================================
// OVERRIDES / VALIDATION
// =============================================================================

// ApplyEnvOverrides applies LINEADMIN_* environment variables on top of the
// loaded values. Environment wins over file contents.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LINEADMIN_SERVER_URL"); v != "" {
		c.Server.URL = v
	}
	if v := os.Getenv("LINEADMIN_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Server.TimeoutSecs = n
		}
	}
	if v := os.Getenv("LINEADMIN_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// fillDefaults replaces zero values with defaults after a partial file load.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Server.URL == "" {
		c.Server.URL = def.Server.URL
	}
	if c.Server.TimeoutSecs <= 0 {
		c.Server.TimeoutSecs = def.Server.TimeoutSecs
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = def.UI.PageSize
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if c.Server.TimeoutSecs <= 0 || c.Server.TimeoutSecs > 300 {
		return fmt.Errorf("server.timeout_secs must be in 1..300, got %d", c.Server.TimeoutSecs)
	}
	if c.UI.PageSize <= 0 || c.UI.PageSize > 100 {
		return fmt.Errorf("ui.page_size must be in 1..100, got %d", c.UI.PageSize)
	}
	switch c.UI.Theme {
	case "dark", "auto":
	default:
		return fmt.Errorf("ui.theme must be %q or %q, got %q", "dark", "auto", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// GLOBAL INSTANCE
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the process-wide configuration, loading it on first access.
// Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfigMu.Lock()
		globalConfig = cfg
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal re-reads the configuration from disk, replacing the global
// instance. Used by the config file watcher.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	globalConfig = cfg
	globalConfigMu.Unlock()
	return nil
}

// SetGlobal replaces the global configuration. Intended for tests and for
// CLI config mutations.
func SetGlobal(cfg *Config) {
	globalConfigOnce.Do(func() {})
	globalConfigMu.Lock()
	globalConfig = cfg
	globalConfigMu.Unlock()
}
