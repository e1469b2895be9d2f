// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Auth and configuration status for the CLI.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shizuha/home-tui/internal/auth"
	"github.com/shizuha/home-tui/internal/config"
	"github.com/shizuha/home-tui/internal/history"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

// statusReport is the JSON shape of "status --json".
type statusReport struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	StateDir      string `json:"state_dir"`
	APIBaseURL    string `json:"api_base_url"`
	Sessions      int    `json:"sessions"`
	Version       string `json:"version"`
}

// HandleStatus prints the current auth and config state.
func HandleStatus(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	mirror := auth.NewMirror(cfg.StateDir)
	snap := mirror.Snapshot()
	sessions := len(history.NewStore(cfg.StateDir).List())

	username := ""
	if snap.User != nil {
		username = snap.User.Username
	}

	if args.JSON {
		report := statusReport{
			Authenticated: snap.IsAuthenticated,
			Username:      username,
			StateDir:      cfg.StateDir,
			APIBaseURL:    cfg.Chat.APIBaseURL,
			Sessions:      sessions,
			Version:       Version,
		}
		return json.NewEncoder(os.Stdout).Encode(report)
	}

	fmt.Printf("shizuha-home %s\n\n", Version)
	if snap.IsAuthenticated {
		fmt.Println(styles.RenderSuccess("Signed in as " + snap.User.DisplayName()))
	} else {
		fmt.Println(styles.RenderWarning("Not signed in"))
		fmt.Printf("  Sign in at %s\n", cfg.Identity.LoginURL)
	}
	fmt.Printf("\n  State dir:  %s\n", cfg.StateDir)
	fmt.Printf("  Backend:    %s\n", cfg.Chat.APIBaseURL)
	fmt.Printf("  Sessions:   %d stored\n", sessions)
	return nil
}

// HandleConfig prints the effective configuration.
func HandleConfig(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	path, _ := config.ConfigPath()
	fmt.Printf("Config file:      %s\n", path)
	fmt.Printf("State dir:        %s\n", cfg.StateDir)
	fmt.Printf("Backend:          %s\n", cfg.Chat.APIBaseURL)
	fmt.Printf("Source service:   %s\n", cfg.Chat.SourceService)
	fmt.Printf("Widget position:  %s\n", cfg.Chat.Position)
	fmt.Printf("Show tool calls:  %t\n", cfg.Chat.ShowToolCalls)
	fmt.Printf("Login URL:        %s\n", cfg.Identity.LoginURL)
	fmt.Printf("Theme:            %s\n", styles.LoadPreference(cfg.StateDir))
	return nil
}
