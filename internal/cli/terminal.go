// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and handling for the CLI.
//
// TTY detection keeps prompts and colors out of piped output and CI
// logs, and width detection keeps wrapped output readable.
package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL WIDTH
// =============================================================================

const (
	defaultWidth = 80
	maxWidth     = 120
)

// TerminalWidth returns the stdout width, clamped to a readable range.
func TerminalWidth() int {
	if !IsStdoutTTY() {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	if width > maxWidth {
		return maxWidth
	}
	return width
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var (
	colorOnce    sync.Once
	colorEnabled bool
)

// ColorEnabled reports whether colored output should be used, honoring
// NO_COLOR and non-TTY stdout.
func ColorEnabled() bool {
	colorOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			colorEnabled = false
			return
		}
		if !IsStdoutTTY() {
			colorEnabled = false
			return
		}
		colorEnabled = termenv.ColorProfile() != termenv.Ascii
	})
	return colorEnabled
}
