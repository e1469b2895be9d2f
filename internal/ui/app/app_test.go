// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shizuha/home-tui/internal/auth"
	"github.com/shizuha/home-tui/internal/chatbot"
	"github.com/shizuha/home-tui/internal/config"
	"github.com/shizuha/home-tui/internal/history"
	"github.com/shizuha/home-tui/internal/model"
	"github.com/shizuha/home-tui/internal/session"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

// fakeAuthSource is a scriptable auth.Source.
type fakeAuthSource struct {
	snap    auth.Snapshot
	changes chan auth.Snapshot
}

func newFakeAuthSource(snap auth.Snapshot) *fakeAuthSource {
	return &fakeAuthSource{snap: snap, changes: make(chan auth.Snapshot, 1)}
}

func (f *fakeAuthSource) Snapshot() auth.Snapshot       { return f.snap }
func (f *fakeAuthSource) Changes() <-chan auth.Snapshot { return f.changes }

type noopStreamer struct{}

func (noopStreamer) StreamChat(ctx context.Context, sessionID, message string, fn chatbot.EventFunc) error {
	fn(chatbot.Event{Kind: chatbot.EventDone})
	return nil
}

func newTestApp(t *testing.T, snap auth.Snapshot) (Model, *fakeAuthSource) {
	t.Helper()
	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	cfg.UI.Theme = "dark"

	source := newFakeAuthSource(snap)
	mgr := session.NewManager(noopStreamer{}, history.NewStore(t.TempDir()))

	m := New(cfg, source, mgr)
	sized, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return sized.(Model), source
}

func authedSnapshot() auth.Snapshot {
	return auth.Snapshot{
		IsAuthenticated: true,
		AccessToken:     "tok",
		User:            &model.User{Username: "ayako", FirstName: "Ayako"},
	}
}

func TestView_UnauthenticatedShowsLanding(t *testing.T) {
	m, _ := newTestApp(t, auth.Snapshot{})
	assert.False(t, m.Authenticated())
	assert.Contains(t, m.View(), "Sign in")
}

func TestView_AuthenticatedShowsHome(t *testing.T) {
	m, _ := newTestApp(t, authedSnapshot())
	require.True(t, m.Authenticated())
	assert.Contains(t, m.View(), "Welcome back, Ayako")
}

func TestAuthChange_FlipsToHome(t *testing.T) {
	m, _ := newTestApp(t, auth.Snapshot{})

	next, _ := m.Update(AuthChangedMsg{Snapshot: authedSnapshot()})
	m = next.(Model)

	assert.True(t, m.Authenticated())
	assert.Contains(t, m.View(), "Welcome back")
}

func TestAuthChange_LogoutFallsBackToLanding(t *testing.T) {
	m, _ := newTestApp(t, authedSnapshot())

	next, _ := m.Update(AuthChangedMsg{Snapshot: auth.Snapshot{}})
	m = next.(Model)

	assert.False(t, m.Authenticated())
	assert.Contains(t, m.View(), "Sign in")
}

func TestAuthChange_NilUserRendersWithoutPanic(t *testing.T) {
	m, _ := newTestApp(t, auth.Snapshot{})

	next, _ := m.Update(AuthChangedMsg{Snapshot: auth.Snapshot{IsAuthenticated: true}})
	m = next.(Model)

	assert.True(t, m.Authenticated())
	assert.NotEmpty(t, m.View())
}

func TestCtrlC_Quits(t *testing.T) {
	m, _ := newTestApp(t, auth.Snapshot{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestThemeChanged_ExternalPreferenceApplies(t *testing.T) {
	cfg := config.Default()
	cfg.StateDir = t.TempDir()
	source := newFakeAuthSource(authedSnapshot())
	mgr := session.NewManager(noopStreamer{}, history.NewStore(t.TempDir()))
	m := New(cfg, source, mgr)

	next, _ := m.Update(ThemeChangedMsg{Preference: styles.PreferenceLight})
	m = next.(Model)
	assert.False(t, m.theme.IsDark)

	next, _ = m.Update(ThemeChangedMsg{Preference: styles.PreferenceDark})
	m = next.(Model)
	assert.True(t, m.theme.IsDark)
}

func TestThemeChanged_ConfigOverrideWins(t *testing.T) {
	// The helper pins the theme to dark through config.
	m, _ := newTestApp(t, authedSnapshot())

	next, _ := m.Update(ThemeChangedMsg{Preference: styles.PreferenceLight})
	m = next.(Model)

	assert.True(t, m.theme.IsDark)
}

func TestCtrlT_TogglesAndPersistsTheme(t *testing.T) {
	m, _ := newTestApp(t, authedSnapshot())
	wasDark := m.theme.IsDark

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = next.(Model)

	assert.NotEqual(t, wasDark, m.theme.IsDark)
	// The preference is shared state for other Shizuha surfaces.
	assert.NotEmpty(t, m.cfg.StateDir)
}
