// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for home-tui.
//
// Configuration is TOML with sensible defaults and environment variable
// overrides. The file lives inside the shared Shizuha state directory:
//
//   - $SHIZUHA_STATE_DIR/config.toml (when the override is set)
//   - ~/.shizuha/config.toml otherwise
//
// The state directory is shared with other Shizuha processes (the identity
// CLI writes auth material there, every process reads the theme key), so
// its location must be resolved through this package only.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete home-tui configuration.
type Config struct {
	Version string `toml:"version"`

	// StateDir is the shared Shizuha state directory. Empty means the
	// default ~/.shizuha. Not read from the file; resolved at load time.
	StateDir string `toml:"-"`

	Chat     ChatConfig     `toml:"chat"`
	Identity IdentityConfig `toml:"identity"`
	UI       UIConfig       `toml:"ui"`
}

// ChatConfig configures the embedded chat widget.
type ChatConfig struct {
	// APIBaseURL is the base URL of the chatbot backend.
	APIBaseURL string `toml:"api_base_url"`
	// SourceService identifies the embedding product to the backend.
	SourceService string `toml:"source_service"`
	// WelcomeMessage is shown as a synthetic assistant message in empty
	// sessions. Never persisted.
	WelcomeMessage string `toml:"welcome_message"`
	// Placeholder is the input placeholder text.
	Placeholder string `toml:"placeholder"`
	// Position anchors the widget: "bottom-right" or "bottom-left".
	Position string `toml:"position"`
	// ShowToolCalls toggles the tool-call viewer on finalized messages.
	ShowToolCalls bool `toml:"show_tool_calls"`
}

// IdentityConfig holds the opaque navigation targets owned by shizuha-id.
// These are never fetched by this client; they are shown to the user so the
// external identity pages can handle login, logout, and account management.
type IdentityConfig struct {
	LoginURL    string `toml:"login_url"`
	LogoutURL   string `toml:"logout_url"`
	RegisterURL string `toml:"register_url"`
	AccountURL  string `toml:"account_url"`
}

// UIConfig contains presentation settings.
type UIConfig struct {
	// Theme forces "light" or "dark". Empty defers to the shared theme
	// key, then to terminal background detection.
	Theme string `toml:"theme"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		Chat: ChatConfig{
			APIBaseURL:     "https://shizuha.app/agent/api/chatbot",
			SourceService:  "home",
			WelcomeMessage: "Hi! I'm the Shizuha assistant. How can I help?",
			Placeholder:    "Type a message...",
			Position:       "bottom-right",
			ShowToolCalls:  true,
		},
		Identity: IdentityConfig{
			LoginURL:    "https://shizuha.app/id/login",
			LogoutURL:   "https://shizuha.app/id/logout",
			RegisterURL: "https://shizuha.app/id/register",
			AccountURL:  "https://shizuha.app/id/account",
		},
		UI: UIConfig{},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// StateDir returns the shared Shizuha state directory, honoring the
// SHIZUHA_STATE_DIR override.
func StateDir() (string, error) {
	if dir := os.Getenv("SHIZUHA_STATE_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".shizuha"), nil
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the config file, fills defaults, applies environment
// overrides, and validates. A missing file is not an error; defaults are
// returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", path, err)
			}
		}
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()

	if cfg.StateDir == "" {
		dir, err := StateDir()
		if err != nil {
			return nil, err
		}
		cfg.StateDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific TOML file with full
// validation. Used by tests and the --config flag.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()

	if cfg.StateDir == "" {
		dir, err := StateDir()
		if err != nil {
			return nil, err
		}
		cfg.StateDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Chat.APIBaseURL == "" {
		c.Chat.APIBaseURL = defaults.Chat.APIBaseURL
	}
	if c.Chat.SourceService == "" {
		c.Chat.SourceService = defaults.Chat.SourceService
	}
	if c.Chat.WelcomeMessage == "" {
		c.Chat.WelcomeMessage = defaults.Chat.WelcomeMessage
	}
	if c.Chat.Placeholder == "" {
		c.Chat.Placeholder = defaults.Chat.Placeholder
	}
	if c.Chat.Position == "" {
		c.Chat.Position = defaults.Chat.Position
	}
	if c.Identity.LoginURL == "" {
		c.Identity.LoginURL = defaults.Identity.LoginURL
	}
	if c.Identity.LogoutURL == "" {
		c.Identity.LogoutURL = defaults.Identity.LogoutURL
	}
	if c.Identity.RegisterURL == "" {
		c.Identity.RegisterURL = defaults.Identity.RegisterURL
	}
	if c.Identity.AccountURL == "" {
		c.Identity.AccountURL = defaults.Identity.AccountURL
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies SHIZUHA_* environment variables on top of the
// loaded configuration. Overrides win over both file values and defaults.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SHIZUHA_STATE_DIR"); v != "" {
		c.StateDir = v
	}
	if v := os.Getenv("SHIZUHA_API_BASE_URL"); v != "" {
		c.Chat.APIBaseURL = v
	}
	if v := os.Getenv("SHIZUHA_SOURCE_SERVICE"); v != "" {
		c.Chat.SourceService = v
	}
	if v := os.Getenv("SHIZUHA_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.Chat.APIBaseURL); err != nil {
		return ValidationError{Field: "chat.api_base_url", Message: "must be a valid URL"}
	}
	switch c.Chat.Position {
	case "bottom-right", "bottom-left":
	default:
		return ValidationError{Field: "chat.position", Message: "must be bottom-right or bottom-left"}
	}
	switch strings.ToLower(c.UI.Theme) {
	case "", "light", "dark":
	default:
		return ValidationError{Field: "ui.theme", Message: "must be light or dark"}
	}
	return nil
}
