// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app wires the top-level TUI: it mirrors authentication state
// and shows either the public landing view or the signed-in dashboard,
// flipping live when the identity service logs the user in or out in
// another process.
package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shizuha/home-tui/chatwidget"
	"github.com/shizuha/home-tui/internal/auth"
	"github.com/shizuha/home-tui/internal/config"
	"github.com/shizuha/home-tui/internal/model"
	"github.com/shizuha/home-tui/internal/session"
	"github.com/shizuha/home-tui/internal/ui/home"
	"github.com/shizuha/home-tui/internal/ui/landing"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// AuthChangedMsg carries a new authentication snapshot.
type AuthChangedMsg struct {
	Snapshot auth.Snapshot
}

// ThemeChangedMsg reports that another process changed the shared
// appearance preference.
type ThemeChangedMsg struct {
	Preference styles.Preference
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model.
type Model struct {
	cfg    *config.Config
	source auth.Source

	pref  styles.Preference
	theme *styles.Theme

	// themeForced is set when config/env pins the theme; external
	// preference changes are ignored then.
	themeForced bool

	manager *session.Manager

	authSnap auth.Snapshot

	landing landing.Model
	home    home.Model

	width  int
	height int
}

// New creates the root model. The auth source decides which view shows
// first; subsequent flips arrive through AuthChangedMsg.
func New(cfg *config.Config, source auth.Source, manager *session.Manager) Model {
	pref := styles.LoadPreference(cfg.StateDir)
	themeForced := false
	// An explicit config/env theme wins over the shared preference key.
	switch strings.ToLower(cfg.UI.Theme) {
	case "light":
		pref = styles.PreferenceLight
		themeForced = true
	case "dark":
		pref = styles.PreferenceDark
		themeForced = true
	}
	theme := styles.NewTheme(pref)

	m := Model{
		cfg:         cfg,
		source:      source,
		pref:        pref,
		theme:       theme,
		themeForced: themeForced,
		manager:     manager,
		authSnap:    source.Snapshot(),
	}
	m.buildViews()
	return m
}

// buildViews constructs both views against the current theme and auth
// snapshot.
func (m *Model) buildViews() {
	m.landing = landing.New(m.theme, m.cfg.Identity.LoginURL, m.cfg.Identity.RegisterURL)

	widget := chatwidget.New(chatwidget.Config{
		WelcomeMessage: m.cfg.Chat.WelcomeMessage,
		Placeholder:    m.cfg.Chat.Placeholder,
		Position:       chatwidget.Position(m.cfg.Chat.Position),
		ShowToolCalls:  m.cfg.Chat.ShowToolCalls,
		Authenticated:  func() bool { return m.source.Snapshot().IsAuthenticated },
	}, m.manager, m.theme)

	m.home = home.New(m.theme, m.currentUser(), m.cfg.Identity.LogoutURL, widget)

	if m.width > 0 {
		m.landing.SetSize(m.width, m.height)
		m.home.SetSize(m.width, m.height)
	}
}

// Init starts the auth listener and the active view.
func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForAuth(m.source), m.home.Init())
}

// Authenticated reports whether the dashboard is showing.
func (m Model) Authenticated() bool {
	return m.authSnap.IsAuthenticated
}

// currentUser returns the signed-in user, or a zero value when the
// snapshot carries none.
func (m Model) currentUser() model.User {
	if m.authSnap.User == nil {
		return model.User{}
	}
	return *m.authSnap.User
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.landing.SetSize(msg.Width, msg.Height)
		m.home.SetSize(msg.Width, msg.Height)
		return m, nil

	case AuthChangedMsg:
		wasAuthed := m.authSnap.IsAuthenticated
		m.authSnap = msg.Snapshot
		if m.authSnap.IsAuthenticated {
			m.home.SetUser(m.currentUser())
		}
		if wasAuthed && !m.authSnap.IsAuthenticated {
			// Logout elsewhere: drop the conversation view back to a
			// fresh state next time the user signs in.
			m.buildViews()
		}
		return m, listenForAuth(m.source)

	case ThemeChangedMsg:
		if m.themeForced || msg.Preference == m.pref {
			return m, nil
		}
		m.pref = msg.Preference
		m.theme = styles.NewTheme(m.pref)
		m.buildViews()
		return m, m.home.Init()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlT:
			cmd := m.toggleTheme()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if m.authSnap.IsAuthenticated {
		m.home, cmd = m.home.Update(msg)
	} else {
		m.landing, cmd = m.landing.Update(msg)
	}
	return m, cmd
}

// toggleTheme flips light/dark, persists the choice for the rest of the
// platform, and rebuilds the views with the new palette.
func (m *Model) toggleTheme() tea.Cmd {
	m.pref = m.pref.Toggle()
	// Persistence failure is not fatal; the session keeps the new look.
	_ = styles.SavePreference(m.cfg.StateDir, m.pref)

	m.theme = styles.NewTheme(m.pref)
	m.buildViews()
	return m.home.Init()
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the active view.
func (m Model) View() string {
	if m.authSnap.IsAuthenticated {
		return m.home.View()
	}
	return m.landing.View()
}

// =============================================================================
// COMMANDS
// =============================================================================

// listenForAuth blocks on the auth source's change channel and converts
// each snapshot into an AuthChangedMsg. Re-issued after every receipt.
func listenForAuth(source auth.Source) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-source.Changes()
		if !ok {
			return nil
		}
		return AuthChangedMsg{Snapshot: snap}
	}
}
