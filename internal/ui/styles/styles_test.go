// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreference_ResolveDark(t *testing.T) {
	assert.True(t, PreferenceDark.ResolveDark())
	assert.False(t, PreferenceLight.ResolveDark())
}

func TestPreference_Toggle(t *testing.T) {
	assert.Equal(t, PreferenceLight, PreferenceDark.Toggle())
	assert.Equal(t, PreferenceDark, PreferenceLight.Toggle())
}

func TestPreference_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, SavePreference(dir, PreferenceDark))
	assert.Equal(t, PreferenceDark, LoadPreference(dir))

	require.NoError(t, SavePreference(dir, PreferenceLight))
	assert.Equal(t, PreferenceLight, LoadPreference(dir))
}

func TestLoadPreference_MissingOrGarbage(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, PreferenceAuto, LoadPreference(dir))

	require.NoError(t, os.WriteFile(filepath.Join(dir, PreferenceFile), []byte("neon\n"), 0600))
	assert.Equal(t, PreferenceAuto, LoadPreference(dir))
}

func TestWatchPreference_SeesExternalWrite(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := WatchPreference(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, SavePreference(dir, PreferenceLight))

	select {
	case pref := <-ch:
		assert.Equal(t, PreferenceLight, pref)
	case <-time.After(2 * time.Second):
		t.Fatal("no preference change observed")
	}
}

func TestWatchPreference_ClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := WatchPreference(ctx, dir)
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel did not close")
	}
}

func TestNewTheme(t *testing.T) {
	theme := NewTheme(PreferenceDark)
	require.NotNil(t, theme)
	assert.True(t, theme.IsDark)

	theme = NewTheme(PreferenceLight)
	assert.False(t, theme.IsDark)
}

func TestTheme_LayoutMode(t *testing.T) {
	theme := NewTheme(PreferenceDark)

	theme.SetSize(40, 20)
	assert.Equal(t, LayoutNarrow, theme.GetLayoutMode())

	theme.SetSize(80, 24)
	assert.Equal(t, LayoutMedium, theme.GetLayoutMode())

	theme.SetSize(140, 40)
	assert.Equal(t, LayoutWide, theme.GetLayoutMode())
}

func TestSpinnerConfig(t *testing.T) {
	assert.Equal(t, DotsSpinner.Frames[0], DotsSpinner.Frame(0))
	assert.Equal(t, DotsSpinner.Frames[1], DotsSpinner.Frame(len(DotsSpinner.Frames)+1))
	assert.Positive(t, DotsSpinner.Duration())
}

func TestRenderHelpers_IncludeShapeIndicators(t *testing.T) {
	assert.Contains(t, RenderSuccess("saved"), "[OK]")
	assert.Contains(t, RenderError("failed"), "[X]")
	assert.Contains(t, RenderWarning("careful"), "[!]")
	assert.Contains(t, RenderInfo("note"), "[i]")
}
