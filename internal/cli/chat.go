// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive assistant REPL for the CLI.
//
// Handles the "shizuha-home chat" command: a line-based conversation
// with the platform assistant, with streaming output, input history,
// and the same persisted chat history the TUI widget uses.
//
// Interactive Commands (during chat):
//
//	/help, /h     Show available commands
//	/clear, /c    Start a fresh session and drop its history
//	/history      Show the current conversation
//	/quit, /q     Exit chat
//	Ctrl+C        Cancel current answer
//	Ctrl+D        Exit chat
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/peterh/liner"

	"github.com/shizuha/home-tui/internal/auth"
	"github.com/shizuha/home-tui/internal/chatbot"
	"github.com/shizuha/home-tui/internal/config"
	"github.com/shizuha/home-tui/internal/history"
	"github.com/shizuha/home-tui/internal/model"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Indigo).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Violet).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	toolStyle = lipgloss.NewStyle().
			Foreground(styles.Teal)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// replInput provides input history and line editing for interactive chat.
type replInput struct {
	line        *liner.State
	historyFile string
}

// newREPLInput creates a liner-backed input with persistent history.
func newREPLInput(stateDir string) *replInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile := filepath.Join(stateDir, "repl_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}

	return &replInput{line: line, historyFile: historyFile}
}

// Close persists input history and restores the terminal.
func (r *replInput) Close() {
	if f, err := os.Create(r.historyFile); err == nil {
		r.line.WriteHistory(f)
		f.Close()
	}
	r.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the interactive assistant REPL.
func HandleChat(args Args) {
	if !IsTTY() {
		errorf("chat requires an interactive terminal")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		errorf("failed to load config: %v", err)
		os.Exit(1)
	}

	mirror := auth.NewMirror(cfg.StateDir)
	snap := mirror.Snapshot()
	if !snap.IsAuthenticated {
		errorf("you are not signed in; visit %s", cfg.Identity.LoginURL)
		os.Exit(1)
	}

	client := chatbot.NewClient(cfg.Chat.APIBaseURL,
		func() string { return mirror.Snapshot().AccessToken },
		chatbot.WithSourceService(cfg.Chat.SourceService))
	store := history.NewStore(cfg.StateDir)

	input := newREPLInput(cfg.StateDir)
	defer input.Close()

	sessionID := uuid.NewString()
	var messages []model.ChatMessage

	if !args.Quiet {
		fmt.Println(welcomeStyle.Render("Shizuha Assistant"))
		fmt.Println(infoStyle.Render("Signed in as " + snap.User.DisplayName() + ". Type /help for commands."))
		fmt.Println()
	}

	for {
		text, err := input.line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			// Ctrl+C at the prompt or Ctrl+D.
			fmt.Println()
			return
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		input.line.AppendHistory(text)

		if strings.HasPrefix(text, "/") {
			if quit := handleReplCommand(text, store, sessionID, &messages); quit {
				return
			}
			if text == "/clear" || text == "/c" {
				sessionID = uuid.NewString()
			}
			continue
		}

		messages = append(messages, model.NewUserMessage(text))
		assistant := runReplTurn(client, sessionID, text, args.Verbose)
		messages = append(messages, assistant)

		if err := store.Save(sessionID, messages); err != nil {
			errorf("failed to save history: %v", err)
		}
	}
}

// runReplTurn streams one assistant answer to stdout and returns the
// finished message.
func runReplTurn(client *chatbot.Client, sessionID, text string, verbose bool) model.ChatMessage {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C during streaming cancels the turn, not the REPL.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	acc := chatbot.NewAccumulator()
	err := client.StreamChat(ctx, sessionID, text, func(ev chatbot.Event) {
		switch ev.Kind {
		case chatbot.EventTextDelta:
			fmt.Print(ev.Text)
		case chatbot.EventToolStart:
			if verbose {
				fmt.Println(toolStyle.Render("[tool: " + ev.Tool + "]"))
			}
		}
		acc.Apply(ev)
	})

	if acc.State() == chatbot.TurnStreaming {
		switch {
		case ctx.Err() != nil:
			acc.OnError("interrupted")
		case err != nil:
			acc.OnError(err.Error())
		default:
			acc.OnError("The connection was interrupted. Please try again.")
		}
	}
	fmt.Println()
	if acc.ErrorMessage() != "" {
		fmt.Println(styles.RenderError(acc.ErrorMessage()))
	}
	fmt.Println()

	msg := model.NewAssistantPlaceholder()
	acc.WriteTo(&msg)
	return msg
}

// handleReplCommand executes a slash command. Returns true to exit.
func handleReplCommand(text string, store *history.Store, sessionID string, messages *[]model.ChatMessage) bool {
	switch text {
	case "/quit", "/q":
		return true
	case "/help", "/h":
		fmt.Println(infoStyle.Render("/clear new session * /history show conversation * /quit exit"))
	case "/clear", "/c":
		if err := store.Clear(sessionID); err != nil {
			errorf("failed to clear history: %v", err)
		}
		*messages = nil
		fmt.Println(infoStyle.Render("Started a new session."))
	case "/history":
		if len(*messages) == 0 {
			fmt.Println(infoStyle.Render("No messages yet."))
			break
		}
		for _, msg := range *messages {
			fmt.Printf("%s: %s\n", msg.Role.DisplayName(), msg.Preview(120))
		}
	default:
		fmt.Println(infoStyle.Render("Unknown command. Type /help."))
	}
	return false
}
