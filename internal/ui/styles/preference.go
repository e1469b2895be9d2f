// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/termenv"

	"github.com/shizuha/home-tui/internal/util"
)

// PreferenceFile is the appearance preference file inside the shared
// state directory. Other Shizuha surfaces read the same file, so a
// toggle here is picked up everywhere.
const PreferenceFile = "theme"

// Preference is the stored appearance choice.
type Preference string

const (
	// PreferenceAuto follows the terminal background.
	PreferenceAuto  Preference = "auto"
	PreferenceLight Preference = "light"
	PreferenceDark  Preference = "dark"
)

// ResolveDark maps the preference to a concrete dark/light answer,
// falling back to terminal background detection for auto.
func (p Preference) ResolveDark() bool {
	switch p {
	case PreferenceDark:
		return true
	case PreferenceLight:
		return false
	default:
		return termenv.HasDarkBackground()
	}
}

// Toggle flips between light and dark. Auto resolves first, so the
// first toggle always lands on the opposite of the current look.
func (p Preference) Toggle() Preference {
	if p.ResolveDark() {
		return PreferenceLight
	}
	return PreferenceDark
}

// LoadPreference reads the stored appearance preference. A missing or
// unrecognized file means auto.
func LoadPreference(stateDir string) Preference {
	data, err := os.ReadFile(filepath.Join(stateDir, PreferenceFile))
	if err != nil {
		return PreferenceAuto
	}
	switch Preference(strings.TrimSpace(string(data))) {
	case PreferenceLight:
		return PreferenceLight
	case PreferenceDark:
		return PreferenceDark
	default:
		return PreferenceAuto
	}
}

// SavePreference persists the appearance preference atomically.
func SavePreference(stateDir string, p Preference) error {
	path := filepath.Join(stateDir, PreferenceFile)
	return util.AtomicWriteFile(path, []byte(string(p)+"\n"), 0600)
}
