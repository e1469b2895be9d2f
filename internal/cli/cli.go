// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for home-tui.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdHome    Command = iota // Full-screen TUI (default)
	CmdChat                   // Interactive assistant REPL
	CmdHistory                // Chat history management
	CmdStatus                 // Auth and config status
	CmdConfig                 // Show configuration
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool

	// Command-specific
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `shizuha-home - the Shizuha platform terminal client

It provides:
  - The Shizuha landing and home dashboard in your terminal
  - The platform assistant with streaming answers and tool access
  - Shared sign-in state with the rest of the Shizuha tooling

Usage:
  shizuha-home                 Start the TUI (default)
  shizuha-home chat            Interactive assistant REPL
  shizuha-home history [list|clear] Chat history management
  shizuha-home status, s       Show auth and config status
  shizuha-home config          Show effective configuration
  shizuha-home version, -v     Show version
  shizuha-home help, -h        Show this help

History Commands:
  shizuha-home history list           List stored chat sessions
  shizuha-home history clear <id>     Delete one session
  shizuha-home history clear --all    Delete all sessions

Global Flags:
  --json        Machine-readable output where supported
  -q, --quiet   Minimal output
  --verbose     Verbose output

Environment:
  SHIZUHA_STATE_DIR       Override the shared state directory (~/.shizuha)
  SHIZUHA_API_BASE_URL    Override the chatbot backend URL
  SHIZUHA_THEME           Force light or dark appearance
`

// Parse parses os.Args and returns the command plus remaining args.
func Parse() (Command, Args) {
	args := Args{}
	raw := os.Args[1:]

	var positional []string
	for _, arg := range raw {
		switch arg {
		case "--json":
			args.JSON = true
		case "-q", "--quiet":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "-h", "--help":
			return CmdHelp, args
		case "-v", "--version":
			return CmdVersion, args
		default:
			positional = append(positional, arg)
		}
	}
	args.Raw = positional

	if len(positional) == 0 {
		return CmdHome, args
	}

	cmd := positional[0]
	args.Raw = positional[1:]
	if len(args.Raw) > 0 {
		args.Subcommand = args.Raw[0]
	}

	switch cmd {
	case "chat":
		return CmdChat, args
	case "history":
		return CmdHistory, args
	case "status", "s":
		return CmdStatus, args
	case "config":
		return CmdConfig, args
	case "version":
		return CmdVersion, args
	case "help":
		return CmdHelp, args
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, args
	}
}

// PrintUsage writes the usage text to stdout.
func PrintUsage() {
	fmt.Print(usageText)
}

// HandleVersion prints version information.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf(`{"version":%q,"commit":%q,"built":%q,"go":%q}`+"\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	fmt.Printf("shizuha-home %s\n", Version)
	if !args.Quiet {
		fmt.Printf("  commit: %s\n  built:  %s\n  go:     %s %s/%s\n",
			GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	}
}

// errorf prints an error to stderr in a consistent shape.
func errorf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+strings.TrimSuffix(format, "\n")+"\n", a...)
}
