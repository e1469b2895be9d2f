// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// history.go - Chat history management for the CLI.
//
// Command: history
//
// Examples:
//
//	shizuha-home history list          List stored sessions
//	shizuha-home history clear <id>    Delete one session
//	shizuha-home history clear --all   Delete every session
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shizuha/home-tui/internal/config"
	"github.com/shizuha/home-tui/internal/history"
	"github.com/shizuha/home-tui/internal/ui/styles"
	"github.com/shizuha/home-tui/internal/util"
)

// HandleHistory runs the history subcommands.
func HandleHistory(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	store := history.NewStore(cfg.StateDir)

	switch args.Subcommand {
	case "", "list":
		return listHistory(store, args)
	case "clear":
		return clearHistory(store, args)
	default:
		return fmt.Errorf("unknown history subcommand: %s", args.Subcommand)
	}
}

func listHistory(store *history.Store, args Args) error {
	metas := store.List()

	if args.JSON {
		return json.NewEncoder(os.Stdout).Encode(metas)
	}

	if len(metas) == 0 {
		fmt.Println("No stored chat sessions.")
		return nil
	}

	width := TerminalWidth()
	for _, meta := range metas {
		when := meta.UpdatedAt.Format("2006-01-02 15:04")
		line := fmt.Sprintf("%s  %s  %3d msgs  %s",
			util.TruncateRunes(meta.SessionID, 8), when, meta.MessageCount, meta.Preview)
		fmt.Println(util.TruncateWidth(line, width))
	}
	return nil
}

func clearHistory(store *history.Store, args Args) error {
	if len(args.Raw) >= 2 && args.Raw[1] != "--all" {
		target := args.Raw[1]
		if err := store.Clear(target); err != nil {
			return fmt.Errorf("failed to clear session %s: %w", target, err)
		}
		fmt.Println(styles.RenderSuccess("Cleared session " + target))
		return nil
	}

	if err := store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Println(styles.RenderSuccess("Cleared all chat history"))
	return nil
}
