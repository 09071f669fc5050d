// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sql> ", cfg.Prompt)
	assert.Equal(t, "monokai", cfg.Theme)
	assert.Zero(t, cfg.RowLimit)
	assert.False(t, cfg.EchoStatements)
}

func TestLoadFromPathMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Prompt, cfg.Prompt)
}

func TestLoadFromPathReadsTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
prompt = "db$ "
theme = "github"
row_limit = 500
echo_statements = true

[startup]
url = "work.db"
name = "work"
files = ["init.sql"]
`), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "db$ ", cfg.Prompt)
	assert.Equal(t, "github", cfg.Theme)
	assert.Equal(t, 500, cfg.RowLimit)
	assert.True(t, cfg.EchoStatements)
	assert.Equal(t, "work.db", cfg.Startup.URL)
	assert.Equal(t, "work", cfg.Startup.Name)
	assert.Equal(t, []string{"init.sql"}, cfg.Startup.Files)
}

func TestLoadFromPathRejectsMalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("prompt = [broken"), 0600))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}

func TestValidateRejectsNegativeRowLimit(t *testing.T) {
	cfg := Default()
	cfg.RowLimit = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row_limit")
}

func TestValidateFillsEmptyPromptAndTheme(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sql> ", cfg.Prompt)
	assert.Equal(t, "monokai", cfg.Theme)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SQLRUN_PROMPT", "env> ")
	t.Setenv("SQLRUN_THEME", "dracula")
	t.Setenv("SQLRUN_ROW_LIMIT", "10")
	t.Setenv("SQLRUN_ECHO_STATEMENTS", "true")
	t.Setenv("SQLRUN_URL", "env.db")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "env> ", cfg.Prompt)
	assert.Equal(t, "dracula", cfg.Theme)
	assert.Equal(t, 10, cfg.RowLimit)
	assert.True(t, cfg.EchoStatements)
	assert.Equal(t, "env.db", cfg.Startup.URL)
}

func TestApplyEnvOverridesIgnoresMalformedValues(t *testing.T) {
	t.Setenv("SQLRUN_ROW_LIMIT", "lots")
	t.Setenv("SQLRUN_ECHO_STATEMENTS", "yep")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Zero(t, cfg.RowLimit)
	assert.False(t, cfg.EchoStatements)
}
