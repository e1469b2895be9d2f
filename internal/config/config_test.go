// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://shizuha.app/agent/api/chatbot", cfg.Chat.APIBaseURL)
	assert.Equal(t, "bottom-right", cfg.Chat.Position)
	assert.True(t, cfg.Chat.ShowToolCalls)
	assert.NotEmpty(t, cfg.Identity.LogoutURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
version = "1"

[chat]
api_base_url = "https://agent.internal/api/chatbot"
source_service = "pulse"
show_tool_calls = false

[ui]
theme = "dark"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, "https://agent.internal/api/chatbot", cfg.Chat.APIBaseURL)
	assert.Equal(t, "pulse", cfg.Chat.SourceService)
	assert.False(t, cfg.Chat.ShowToolCalls)
	assert.Equal(t, "dark", cfg.UI.Theme)

	// Unset fields fall back to defaults.
	assert.Equal(t, "bottom-right", cfg.Chat.Position)
	assert.NotEmpty(t, cfg.Chat.WelcomeMessage)
}

func TestLoadFromPath_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[chat]\nposition = \"top-left\"\n"), 0644))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat.position")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SHIZUHA_API_BASE_URL", "https://override.example/chatbot")
	t.Setenv("SHIZUHA_SOURCE_SERVICE", "ledger")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "https://override.example/chatbot", cfg.Chat.APIBaseURL)
	assert.Equal(t, "ledger", cfg.Chat.SourceService)
}

func TestStateDir_Override(t *testing.T) {
	t.Setenv("SHIZUHA_STATE_DIR", "/tmp/shizuha-test")

	dir, err := StateDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/shizuha-test", dir)
}

func TestValidate_Theme(t *testing.T) {
	cfg := Default()
	cfg.UI.Theme = "solarized"
	err := cfg.Validate()
	require.Error(t, err)

	var verr ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ui.theme", verr.Field)
}
