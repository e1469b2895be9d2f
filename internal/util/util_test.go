// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 8, "hello..."},
		{"zero max", "hello", 0, ""},
		{"tiny max without ellipsis", "hello", 2, "he"},
		{"multibyte safe", "こんにちは世界", 5, "こん..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateRunes(tt.input, tt.maxRunes); got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
		})
	}
}

func TestTruncateWidth_CJK(t *testing.T) {
	// Each CJK rune is 2 columns wide; 6 columns fit three runes.
	got := TruncateWidth("日本語テスト", 6)
	if got == "日本語テスト" {
		t.Error("expected truncation for 12-column string at width 6")
	}
}

func TestPadWidth(t *testing.T) {
	if got := PadWidth("ab", 5); got != "ab   " {
		t.Errorf("PadWidth = %q, want %q", got, "ab   ")
	}
	if got := PadWidth("abcdef", 3); got != "abcdef" {
		t.Errorf("PadWidth should not shorten, got %q", got)
	}
}

func TestCollapseLines(t *testing.T) {
	if got := CollapseLines("a\r\nb\nc"); got != "a b c" {
		t.Errorf("CollapseLines = %q, want %q", got, "a b c")
	}
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	if err := AtomicWriteFile(path, []byte(`{"ok":true}`), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("file content = %q", data)
	}

	// Overwrite must fully replace the previous content.
	if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "x" {
		t.Errorf("overwritten content = %q, want %q", data, "x")
	}

	// No temp files may survive.
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if e.Name() != "out.json" {
			t.Errorf("unexpected leftover file %q", e.Name())
		}
	}
}
