// shizuha-home - the Shizuha platform in your terminal.
//
// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shizuha/home-tui/internal/auth"
	"github.com/shizuha/home-tui/internal/chatbot"
	"github.com/shizuha/home-tui/internal/cli"
	"github.com/shizuha/home-tui/internal/config"
	"github.com/shizuha/home-tui/internal/history"
	"github.com/shizuha/home-tui/internal/session"
	"github.com/shizuha/home-tui/internal/ui/app"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdHome:
		runTUI()
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdHistory:
		if err := cli.HandleHistory(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdStatus:
		if err := cli.HandleStatus(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// runTUI wires the shared state directory, auth mirror, chat backend,
// and session manager into the full-screen interface.
func runTUI() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.StateDir, 0700); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create state dir: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal; logs go to a file in the state dir.
	if logFile, err := os.OpenFile(filepath.Join(cfg.StateDir, "home-tui.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mirror := auth.NewMirror(cfg.StateDir)
	if err := mirror.Watch(ctx); err != nil {
		// Login/logout from other processes won't be picked up live,
		// but the session itself still works.
		log.Printf("auth watch unavailable: %v", err)
	}
	defer mirror.Close()

	client := chatbot.NewClient(cfg.Chat.APIBaseURL,
		mirror.AccessToken,
		chatbot.WithSourceService(cfg.Chat.SourceService))

	store := history.NewStore(cfg.StateDir)
	manager := session.NewManager(client, store)

	program := tea.NewProgram(app.New(cfg, mirror, manager), tea.WithAltScreen())

	// Theme toggles in other Shizuha processes flow in live.
	if prefCh, err := styles.WatchPreference(ctx, cfg.StateDir); err == nil {
		go func() {
			for pref := range prefCh {
				program.Send(app.ThemeChangedMsg{Preference: pref})
			}
		}()
	} else {
		log.Printf("theme watch unavailable: %v", err)
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
