// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package home

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/shizuha/home-tui/chatwidget"
	"github.com/shizuha/home-tui/internal/chatbot"
	"github.com/shizuha/home-tui/internal/history"
	"github.com/shizuha/home-tui/internal/model"
	"github.com/shizuha/home-tui/internal/session"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

type noopStreamer struct{}

func (noopStreamer) StreamChat(ctx context.Context, sessionID, message string, fn chatbot.EventFunc) error {
	fn(chatbot.Event{Kind: chatbot.EventDone})
	return nil
}

func newTestHome(t *testing.T) Model {
	t.Helper()
	theme := styles.NewTheme(styles.PreferenceDark)
	mgr := session.NewManager(noopStreamer{}, history.NewStore(t.TempDir()))
	widget := chatwidget.New(chatwidget.Config{}, mgr, theme)

	user := model.User{Username: "ayako", FirstName: "Ayako", Email: "ayako@example.com"}
	m := New(theme, user, "https://shizuha.app/id/logout", widget)
	m.SetSize(120, 40)
	return m
}

func TestView_ShowsUserIdentity(t *testing.T) {
	m := newTestHome(t)
	out := m.View()

	assert.Contains(t, out, "Ayako")
	assert.Contains(t, out, "A") // avatar initial
	assert.Contains(t, out, "Welcome back")
}

func TestView_ShowsAppGridWithoutComingSoon(t *testing.T) {
	m := newTestHome(t)
	out := m.View()

	assert.Contains(t, out, "Pulse")
	assert.Contains(t, out, "Ledger")
	assert.NotContains(t, out, "Relay")
}

func TestView_ShowsLogoutURL(t *testing.T) {
	m := newTestHome(t)
	assert.Contains(t, m.View(), "shizuha.app/id/logout")
}

func TestToggleChat_OpensWidget(t *testing.T) {
	m := newTestHome(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	assert.True(t, m.widget.IsOpen())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlJ})
	assert.False(t, m.widget.IsOpen())
}

func TestSetUser_UpdatesHeader(t *testing.T) {
	m := newTestHome(t)
	m.SetUser(model.User{Username: "kenji"})
	assert.Contains(t, m.View(), "kenji")
}
