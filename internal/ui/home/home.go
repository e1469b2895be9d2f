// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package home renders the authenticated dashboard: user header, app
// grid, and the embedded assistant widget.
package home

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shizuha/home-tui/chatwidget"
	"github.com/shizuha/home-tui/internal/model"
	"github.com/shizuha/home-tui/internal/ui/styles"
)

// =============================================================================
// KEY BINDINGS
// =============================================================================

// KeyMap defines the dashboard shortcuts.
type KeyMap struct {
	ToggleChat key.Binding
}

// DefaultKeyMap returns the default dashboard shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ToggleChat: key.NewBinding(
			key.WithKeys("ctrl+j"),
			key.WithHelp("ctrl+j", "chat"),
		),
	}
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the home dashboard.
type Model struct {
	theme  *styles.Theme
	keyMap KeyMap

	width  int
	height int

	user      model.User
	logoutURL string
	products  []model.Product

	widget chatwidget.Model
}

// New creates the home view for a signed-in user.
func New(theme *styles.Theme, user model.User, logoutURL string, widget chatwidget.Model) Model {
	return Model{
		theme:     theme,
		keyMap:    DefaultKeyMap(),
		user:      user,
		logoutURL: logoutURL,
		products:  model.Catalog(),
		widget:    widget,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.widget.Init()
}

// SetUser updates the displayed identity after an auth change.
func (m *Model) SetUser(user model.User) {
	m.user = user
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	panelWidth := width / 2
	if panelWidth < 40 {
		panelWidth = width - 2
	}
	panelHeight := height - 4
	if panelHeight < 10 {
		panelHeight = height
	}
	m.widget.SetSize(panelWidth, panelHeight)
}

// Update handles Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keyMap.ToggleChat) {
			cmd := m.widget.Toggle()
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.widget, cmd = m.widget.Update(msg)
	return m, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the dashboard with the widget overlaid in its corner.
func (m Model) View() string {
	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderWelcome(),
		m.renderAppGrid(),
		m.renderStatusBar(),
	)

	if !m.widget.IsOpen() {
		return base
	}

	// The expanded widget replaces the dashboard body; terminals have no
	// real z-axis, so the panel takes the stage.
	align := lipgloss.Right
	if m.widget.Position() == chatwidget.PositionBottomLeft {
		align = lipgloss.Left
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		lipgloss.PlaceHorizontal(m.width, align, m.widget.View()),
	)
}

func (m Model) renderHeader() string {
	brand := m.theme.NavbarBrand.Render("Shizuha Home")
	avatar := m.theme.UserAvatar.Render(m.user.Initial())
	name := m.theme.UserName.Render(m.user.DisplayName())

	right := avatar + " " + name
	gap := m.width - lipgloss.Width(brand) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	row := brand + strings.Repeat(" ", gap) + right
	return m.theme.HomeHeader.Width(m.width).Render(row)
}

func (m Model) renderWelcome() string {
	return m.theme.WelcomeBanner.Render("Welcome back, " + m.user.DisplayName() + ".")
}

func (m Model) renderAppGrid() string {
	var cards []string
	for _, p := range m.products {
		if p.Status == model.ProductComingSoon {
			continue
		}
		cards = append(cards, m.renderAppCard(p))
	}

	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	var rows []string
	for i := 0; i < len(cards); i += 2 {
		if i+1 < len(cards) {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i], " ", cards[i+1]))
		} else {
			rows = append(rows, cards[i])
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderAppCard(p model.Product) string {
	title := m.theme.AppCardTitle.Render(p.Name)
	tagline := m.theme.ProductTagline.Render(p.Tagline)
	url := m.theme.LinkStyle.Render(p.URL)

	card := lipgloss.JoinVertical(lipgloss.Left, title, tagline, url)
	return m.theme.AppCard.Width(m.cardWidth()).Render(card)
}

func (m Model) renderStatusBar() string {
	help := m.theme.ShortcutKey.Render("ctrl+j") + m.theme.ShortcutDesc.Render(" chat  ") +
		m.theme.ShortcutKey.Render("ctrl+t") + m.theme.ShortcutDesc.Render(" theme  ") +
		m.theme.ShortcutKey.Render("ctrl+c") + m.theme.ShortcutDesc.Render(" quit")
	logout := m.theme.LogoutHint.Render("Sign out at " + m.logoutURL)
	return m.theme.StatusBar.Width(m.width).Render(help + "   " + logout)
}

func (m Model) cardWidth() int {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return w
	}
	return (w - 1) / 2
}
