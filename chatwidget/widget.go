// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatwidget provides the embeddable Shizuha assistant widget.
//
// The widget is a self-contained Bubble Tea component: a collapsed
// launcher that expands into a chat panel wired to a session manager.
// Host views embed it, forward messages through Update, and overlay
// View output in a corner of their own layout.
package chatwidget

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/shizuha/home-tui/internal/session"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Position is the corner the host should anchor the widget to.
type Position string

const (
	PositionBottomRight Position = "bottom-right"
	PositionBottomLeft  Position = "bottom-left"
)

// Config controls the widget's appearance and behavior.
type Config struct {
	// Title is shown in the panel header.
	Title string

	// WelcomeMessage is rendered as the first assistant bubble of an
	// empty conversation. It is presentation only and never persisted.
	WelcomeMessage string

	// Placeholder is the input hint text.
	Placeholder string

	// Position anchors the widget in the host layout.
	Position Position

	// ShowToolCalls renders tool activity chips on assistant messages.
	ShowToolCalls bool

	// Authenticated gates sending. When it reports false the widget
	// shows a sign-in prompt instead of accepting input.
	Authenticated func() bool
}

func (c *Config) fillDefaults() {
	if c.Title == "" {
		c.Title = "Shizuha Assistant"
	}
	if c.Placeholder == "" {
		c.Placeholder = "Ask me anything..."
	}
	if c.Position != PositionBottomLeft {
		c.Position = PositionBottomRight
	}
}

// =============================================================================
// KEY BINDINGS
// =============================================================================

// KeyMap defines the widget's keyboard shortcuts.
type KeyMap struct {
	Send  key.Binding
	Close key.Binding
	Clear key.Binding
}

// DefaultKeyMap returns the default widget shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "new chat"),
		),
	}
}

// =============================================================================
// MESSAGES
// =============================================================================

// SessionChangedMsg reports that conversation state changed and the
// widget should re-read its snapshot.
type SessionChangedMsg struct{}

// =============================================================================
// WIDGET MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat widget.
type Model struct {
	cfg    Config
	theme  *styles.Theme
	keyMap KeyMap

	manager *session.Manager

	open   bool
	width  int
	height int

	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model

	snap   session.Snapshot
	notice string

	// Markdown renderer, rebuilt when the wrap width changes.
	renderer    *glamour.TermRenderer
	renderWidth int
}

// New creates a widget bound to a session manager.
func New(cfg Config, manager *session.Manager, theme *styles.Theme) Model {
	cfg.fillDefaults()

	input := textinput.New()
	input.Placeholder = cfg.Placeholder
	input.CharLimit = 4000
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.DotsSpinner.Frames,
		FPS:    styles.DotsSpinner.Duration(),
	}
	sp.Style = theme.Spinner

	vp := viewport.New(0, 0)

	return Model{
		cfg:      cfg,
		theme:    theme,
		keyMap:   DefaultKeyMap(),
		manager:  manager,
		viewport: vp,
		input:    input,
		spin:     sp,
		snap:     manager.Snapshot(),
	}
}

// Init starts listening for session changes.
func (m Model) Init() tea.Cmd {
	return listenForChanges(m.manager)
}

// =============================================================================
// STATE ACCESSORS
// =============================================================================

// IsOpen reports whether the panel is expanded.
func (m Model) IsOpen() bool {
	return m.open
}

// Position returns the configured anchor corner.
func (m Model) Position() Position {
	return m.cfg.Position
}

// Open expands the panel and focuses the input.
func (m *Model) Open() tea.Cmd {
	m.open = true
	m.refresh()
	m.input.Focus()
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// Close collapses the panel. An in-flight turn is aborted; the
// conversation itself is kept.
func (m *Model) Close() {
	m.manager.Abort()
	m.open = false
	m.input.Blur()
}

// Toggle flips between launcher and panel.
func (m *Model) Toggle() tea.Cmd {
	if m.open {
		m.Close()
		return nil
	}
	return m.Open()
}

// SetSize tells the widget how much room the host is giving it.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	contentWidth := width - panelChromeWidth
	if contentWidth < minContentWidth {
		contentWidth = minContentWidth
	}
	m.viewport.Width = contentWidth
	m.viewport.Height = height - panelChromeHeight
	m.input.Width = contentWidth - len(m.input.Prompt)
	m.refresh()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case SessionChangedMsg:
		m.refresh()
		cmds = append(cmds, listenForChanges(m.manager))
		if m.snap.Loading {
			cmds = append(cmds, m.spin.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if m.snap.Loading {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if !m.open {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keyMap.Send):
			cmd := m.send()
			return m, cmd
		case key.Matches(msg, m.keyMap.Close):
			if m.snap.Loading {
				m.manager.Abort()
				return m, nil
			}
			m.Close()
			return m, nil
		case key.Matches(msg, m.keyMap.Clear):
			m.notice = ""
			if err := m.manager.ClearSession(); err != nil {
				m.notice = "Could not clear chat history."
			}
			m.refresh()
			return m, nil
		}
	}

	if m.open {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// send validates input and hands it to the session manager.
func (m *Model) send() tea.Cmd {
	if m.cfg.Authenticated != nil && !m.cfg.Authenticated() {
		m.notice = "Please sign in to chat."
		return nil
	}

	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}

	switch err := m.manager.SendMessage(text); err {
	case nil:
		m.input.Reset()
		m.notice = ""
		m.refresh()
		return m.spin.Tick
	case session.ErrTurnInFlight:
		m.notice = "Hold on, the assistant is still answering."
		return nil
	default:
		m.notice = "Could not send message."
		return nil
	}
}

// refresh re-reads the conversation snapshot and re-renders the
// transcript into the viewport, keeping it pinned to the bottom.
func (m *Model) refresh() {
	m.snap = m.manager.Snapshot()
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// =============================================================================
// COMMANDS
// =============================================================================

// listenForChanges blocks on the manager's change channel and converts
// each signal into a SessionChangedMsg. Re-issued after every receipt.
func listenForChanges(manager *session.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.Changes()
		return SessionChangedMsg{}
	}
}

// =============================================================================
// VIEW
// =============================================================================

const (
	panelChromeWidth  = 4 // borders and padding
	panelChromeHeight = 6 // header, input area, status line
	minContentWidth   = 24
)

// View renders the launcher or the expanded panel.
func (m Model) View() string {
	if !m.open {
		return m.theme.WidgetLauncher.Render("? Chat")
	}

	header := m.theme.WidgetHeader.
		Width(m.viewport.Width).
		Render(m.cfg.Title)

	inputLine := m.theme.InputContainer.
		Width(m.viewport.Width).
		Render(m.input.View())

	status := m.statusLine()

	body := lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		inputLine,
		status,
	)

	return m.theme.WidgetPanel.Render(body)
}

// statusLine renders the loading indicator, notices, or key help.
func (m Model) statusLine() string {
	switch {
	case m.notice != "":
		return m.theme.ErrorTitle.Render(m.notice)
	case m.snap.LastError != "":
		return m.theme.ErrorTitle.Render(m.snap.LastError)
	case m.snap.Loading:
		return m.spin.View() + m.theme.ThinkingText.Render(" thinking")
	default:
		return m.theme.ShortcutDesc.Render("enter send * esc close * ctrl+l new chat")
	}
}
