// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package landing renders the public marketing view shown to visitors
// who are not signed in: hero, product grid, feature list, and footer.
//
// Navigation targets are opaque URLs owned by the identity service and
// the individual products; this view displays them and never fetches.
package landing

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shizuha/home-tui/internal/model"
	"github.com/shizuha/home-tui/internal/ui/styles"
	"github.com/shizuha/home-tui/internal/util"
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the landing view.
type Model struct {
	theme *styles.Theme

	width  int
	height int

	viewport viewport.Model

	// Identity service entry points, shown as links.
	loginURL  string
	signupURL string

	products []model.Product
}

// New creates the landing view.
func New(theme *styles.Theme, loginURL, signupURL string) Model {
	return Model{
		theme:     theme,
		viewport:  viewport.New(0, 0),
		loginURL:  loginURL,
		signupURL: signupURL,
		products:  model.Catalog(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the layout dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)
	m.viewport.Width = width
	m.viewport.Height = height - 2 // navbar row and footer hint
	m.viewport.SetContent(m.renderContent())
}

// Update handles scrolling.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the landing page.
func (m Model) View() string {
	navbar := m.renderNavbar()
	hint := m.theme.ShortcutDesc.Render("up/down scroll * ctrl+c quit")
	return lipgloss.JoinVertical(lipgloss.Left, navbar, m.viewport.View(), hint)
}

func (m Model) renderNavbar() string {
	brand := m.theme.NavbarBrand.Render("Shizuha")
	links := m.theme.NavbarLink.Render("Products  Docs  Pricing")
	signIn := m.theme.NavbarAction.Render("Sign in")

	gap := m.width - lipgloss.Width(brand) - lipgloss.Width(links) - lipgloss.Width(signIn) - 6
	if gap < 1 {
		gap = 1
	}
	row := brand + "  " + links + strings.Repeat(" ", gap) + signIn
	return m.theme.Navbar.Width(m.width).Render(row)
}

func (m Model) renderContent() string {
	sections := []string{
		m.renderHero(),
		m.renderProducts(),
		m.renderFeatures(),
		m.renderFooter(),
	}
	return strings.Join(sections, "\n\n")
}

func (m Model) renderHero() string {
	title := m.theme.HeroTitle.Render("One platform for teams that ship")
	subtitle := m.theme.HeroSubtitle.Render("Dashboards, billing, docs, and an assistant that knows your stack.")
	cta := m.theme.HeroCTA.Render("Get started -> " + m.signupURL)

	hero := lipgloss.JoinVertical(lipgloss.Center, title, "", subtitle, "", cta)
	return m.theme.HeroBox.Width(m.contentWidth()).Render(hero)
}

func (m Model) renderProducts() string {
	var cards []string
	for _, p := range m.products {
		cards = append(cards, m.renderProductCard(p))
	}

	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}

	// Two columns on wider terminals.
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

func (m Model) renderProductCard(p model.Product) string {
	style := m.theme.ProductCard
	name := m.theme.ProductName.Render(p.Name)
	if p.RequiresAuth {
		style = m.theme.ProductCardLocked
		name += m.theme.ProductTagline.Render("  [sign in]")
	}

	badge := m.renderBadge(p.Status)
	tagline := m.theme.ProductTagline.Render(p.Tagline)
	desc := util.TruncateRunes(p.Description, 64)

	card := lipgloss.JoinVertical(lipgloss.Left, name+"  "+badge, tagline, desc)
	return style.Width(m.cardWidth()).Render(card)
}

func (m Model) renderBadge(status model.ProductStatus) string {
	switch status {
	case model.ProductLive:
		return m.theme.BadgeLive.Render("LIVE")
	case model.ProductBeta:
		return m.theme.BadgeBeta.Render("BETA")
	case model.ProductComingSoon:
		return m.theme.BadgeSoon.Render("SOON")
	default:
		return m.theme.BadgeSoon.Render(strings.ToUpper(string(status)))
	}
}

func (m Model) renderFeatures() string {
	title := m.theme.FeatureTitle.Render("Why Shizuha")
	items := []string{
		"Single sign-on across every product",
		"An assistant with real tool access, in every view",
		"Usage-based billing with no surprises",
	}
	var lines []string
	lines = append(lines, title)
	for _, item := range items {
		lines = append(lines, m.theme.FeatureItem.Render("- "+item))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	login := m.theme.FooterLink.Render(m.loginURL)
	return m.theme.Footer.Width(m.contentWidth()).
		Render("(c) Shizuha * Terms * Privacy * Sign in at " + login)
}

func (m Model) contentWidth() int {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) cardWidth() int {
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return m.contentWidth()
	}
	return (m.contentWidth() - 1) / 2
}
