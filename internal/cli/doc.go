// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements argument parsing and the non-TUI command
// handlers for shizuha-home: the assistant REPL, history management,
// and status output.
package cli
