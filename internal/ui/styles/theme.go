// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// NAVBAR / HEADER STYLES
	// ==========================================================================

	Navbar       lipgloss.Style
	NavbarBrand  lipgloss.Style
	NavbarLink   lipgloss.Style
	NavbarAction lipgloss.Style

	// ==========================================================================
	// LANDING PAGE STYLES
	// ==========================================================================

	HeroBox      lipgloss.Style
	HeroTitle    lipgloss.Style
	HeroSubtitle lipgloss.Style
	HeroCTA      lipgloss.Style

	ProductCard       lipgloss.Style
	ProductCardLocked lipgloss.Style
	ProductName       lipgloss.Style
	ProductTagline    lipgloss.Style
	BadgeLive         lipgloss.Style
	BadgeBeta         lipgloss.Style
	BadgeSoon         lipgloss.Style

	FeatureItem  lipgloss.Style
	FeatureTitle lipgloss.Style

	Footer     lipgloss.Style
	FooterLink lipgloss.Style

	// ==========================================================================
	// HOME DASHBOARD STYLES
	// ==========================================================================

	HomeHeader    lipgloss.Style
	WelcomeBanner lipgloss.Style
	UserName      lipgloss.Style
	UserAvatar    lipgloss.Style
	AppCard       lipgloss.Style
	AppCardTitle  lipgloss.Style
	LogoutHint    lipgloss.Style

	// ==========================================================================
	// CHAT WIDGET STYLES
	// ==========================================================================

	WidgetLauncher lipgloss.Style
	WidgetPanel    lipgloss.Style
	WidgetHeader   lipgloss.Style
	WidgetTitle    lipgloss.Style

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	WelcomeBubble   lipgloss.Style
	ToolChip        lipgloss.Style
	MessageMeta     lipgloss.Style

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style

	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// STATUS INDICATOR STYLES
	// ==========================================================================

	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	InfoStyle    lipgloss.Style
	LinkStyle    lipgloss.Style
}

// NewTheme creates a theme for the given appearance preference. An
// explicit light or dark preference overrides background detection.
func NewTheme(pref Preference) *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor

	isDark := pref.ResolveDark()
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Navbar
	t.Navbar = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.NavbarBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.NavbarLink = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.NavbarAction = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Bold(true).
		Padding(0, 2)

	// Hero
	t.HeroBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Indigo).
		Padding(2, 4).
		Align(lipgloss.Center)

	t.HeroTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeroSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.HeroCTA = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Violet).
		Bold(true).
		Padding(0, 3)

	// Product cards
	t.ProductCard = lipgloss.NewStyle().
		Background(SurfaceBright).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(1, 2)

	t.ProductCardLocked = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Foreground(TextMuted).
		Padding(1, 2)

	t.ProductName = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ProductTagline = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.BadgeLive = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.BadgeBeta = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.BadgeSoon = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Features
	t.FeatureItem = lipgloss.NewStyle().
		Foreground(TextSecondary).
		PaddingLeft(2)

	t.FeatureTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Teal)

	// Footer
	t.Footer = lipgloss.NewStyle().
		Foreground(TextMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.FooterLink = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)

	// Home dashboard
	t.HomeHeader = lipgloss.NewStyle().
		Background(SurfaceDim).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.WelcomeBanner = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo).
		Padding(1, 0)

	t.UserName = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.UserAvatar = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Violet).
		Bold(true).
		Padding(0, 1)

	t.AppCard = lipgloss.NewStyle().
		Background(SurfaceBright).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(1, 2)

	t.AppCardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.LogoutHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Chat widget
	t.WidgetLauncher = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Indigo).
		Bold(true).
		Padding(0, 2)

	t.WidgetPanel = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 1)

	t.WidgetHeader = lipgloss.NewStyle().
		Background(IndigoDeep).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 2)

	t.WidgetTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.WelcomeBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Italic(true).
		Padding(0, 2).
		MarginRight(4)

	t.ToolChip = lipgloss.NewStyle().
		Foreground(ToolChipFg).
		Background(ToolChipBg).
		Padding(0, 1)

	t.MessageMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Indigo).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Violet)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	// Error boxes
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Background(RoseDeep).
		Padding(1, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Status indicators
	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(SuccessHighContrast).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorHighContrast).
		Bold(true)

	t.WarningStyle = lipgloss.NewStyle().
		Foreground(WarningHighContrast).
		Bold(true)

	t.InfoStyle = lipgloss.NewStyle().
		Foreground(InfoHighContrast).
		Bold(true)

	t.LinkStyle = lipgloss.NewStyle().
		Foreground(LinkColor).
		Underline(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
