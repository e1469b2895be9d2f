// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseArgs(t *testing.T, argv ...string) (Command, Args) {
	t.Helper()
	old := os.Args
	t.Cleanup(func() { os.Args = old })
	os.Args = append([]string{"shizuha-home"}, argv...)
	return Parse()
}

func TestParse_DefaultIsHome(t *testing.T) {
	cmd, _ := parseArgs(t)
	assert.Equal(t, CmdHome, cmd)
}

func TestParse_Commands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"chat"}, CmdChat},
		{[]string{"history"}, CmdHistory},
		{[]string{"status"}, CmdStatus},
		{[]string{"s"}, CmdStatus},
		{[]string{"config"}, CmdConfig},
		{[]string{"version"}, CmdVersion},
		{[]string{"-v"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
		{[]string{"-h"}, CmdHelp},
		{[]string{"bogus"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := parseArgs(t, tt.argv...)
		assert.Equal(t, tt.want, cmd, "argv %v", tt.argv)
	}
}

func TestParse_GlobalFlags(t *testing.T) {
	cmd, args := parseArgs(t, "history", "list", "--json", "-q")
	assert.Equal(t, CmdHistory, cmd)
	assert.True(t, args.JSON)
	assert.True(t, args.Quiet)
	assert.Equal(t, "list", args.Subcommand)
}

func TestParse_SubcommandAndRaw(t *testing.T) {
	cmd, args := parseArgs(t, "history", "clear", "sess-1")
	assert.Equal(t, CmdHistory, cmd)
	assert.Equal(t, "clear", args.Subcommand)
	assert.Equal(t, []string{"clear", "sess-1"}, args.Raw)
}

func TestTerminalWidth_NonTTYDefault(t *testing.T) {
	// Test binaries run without a TTY on stdout.
	if IsStdoutTTY() {
		t.Skip("stdout is a TTY")
	}
	assert.Equal(t, defaultWidth, TerminalWidth())
}
