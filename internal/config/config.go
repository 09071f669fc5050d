// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for sqlrun.
//
// Settings come from ~/.sqlrun/config.toml with built-in defaults and
// SQLRUN_* environment variable overrides applied on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete sqlrun configuration.
type Config struct {
	// Prompt is the primary prompt while no session is current.
	Prompt string `toml:"prompt"`

	// HistoryFile is where input history persists. Empty disables
	// persistence; the default lives in the config directory.
	HistoryFile string `toml:"history_file"`

	// CommentsRemove strips SQL comments from statements before they
	// reach the database.
	CommentsRemove bool `toml:"comments_remove"`

	// EchoStatements reprints each statement before executing it.
	EchoStatements bool `toml:"echo_statements"`

	// Theme is the chroma style used for echoed statements.
	Theme string `toml:"theme"`

	// RowLimit caps printed query rows. Zero means unlimited.
	RowLimit int `toml:"row_limit"`

	// Startup describes what to open and run before the first prompt.
	Startup StartupConfig `toml:"startup"`
}

// StartupConfig contains the optional auto-connect and script settings.
type StartupConfig struct {
	// URL is a database to connect to on start.
	URL string `toml:"url"`
	// Name names the startup session; empty generates one.
	Name string `toml:"name"`
	// Files are statement files loaded after connecting.
	Files []string `toml:"files"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Prompt:   "sql> ",
		Theme:    "monokai",
		RowLimit: 0,
	}
}

// ConfigDir returns the sqlrun configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".sqlrun"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// HistoryPath returns the default history file path, or "" when the
// config directory is unavailable.
func HistoryPath() string {
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, falling back to defaults when it does not
// exist. Environment overrides and validation are applied either way.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		cfg := Default()
		cfg.ApplyEnvOverrides()
		return cfg, cfg.Validate()
	}
	return LoadFromPath(path)
}

// LoadFromPath reads the config file at an explicit location. A missing
// file yields defaults; a malformed one is an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the default location.
func Save(cfg *Config) error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid setting.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the settings and fills anything empty that has a
// required default.
func (c *Config) Validate() error {
	if c.Prompt == "" {
		c.Prompt = Default().Prompt
	}
	if c.Theme == "" {
		c.Theme = Default().Theme
	}
	if c.RowLimit < 0 {
		return ValidationError{Field: "row_limit", Message: "must be >= 0"}
	}
	for _, file := range c.Startup.Files {
		if strings.TrimSpace(file) == "" {
			return ValidationError{Field: "startup.files", Message: "empty filename"}
		}
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies SQLRUN_* environment variables on top of
// whatever was loaded. Malformed numeric or boolean values are ignored
// so a bad environment cannot make startup fail.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SQLRUN_PROMPT"); v != "" {
		c.Prompt = v
	}
	if v := os.Getenv("SQLRUN_HISTORY_FILE"); v != "" {
		c.HistoryFile = v
	}
	if v := os.Getenv("SQLRUN_THEME"); v != "" {
		c.Theme = v
	}
	if v := os.Getenv("SQLRUN_URL"); v != "" {
		c.Startup.URL = v
	}
	if v := os.Getenv("SQLRUN_ROW_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RowLimit = n
		}
	}
	if v := os.Getenv("SQLRUN_ECHO_STATEMENTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.EchoStatements = b
		}
	}
	if v := os.Getenv("SQLRUN_COMMENTS_REMOVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.CommentsRemove = b
		}
	}
}
