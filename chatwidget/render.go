// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatwidget

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/shizuha/home-tui/internal/model"
)

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderTranscript renders the conversation into a single string for the
// viewport. The welcome bubble is synthesized for empty conversations and
// never enters the message list.
func (m *Model) renderTranscript() string {
	var sections []string

	if len(m.snap.Messages) == 0 && m.cfg.WelcomeMessage != "" {
		sections = append(sections, m.theme.WelcomeBubble.Render(m.cfg.WelcomeMessage))
	}

	for i := range m.snap.Messages {
		sections = append(sections, m.renderMessage(&m.snap.Messages[i]))
	}

	if len(sections) == 0 {
		return m.theme.MessageMeta.Render("No messages yet.")
	}
	return strings.Join(sections, "\n\n")
}

// renderMessage renders one message bubble with its annotations.
func (m *Model) renderMessage(msg *model.ChatMessage) string {
	if msg.Role == model.RoleUser {
		return m.theme.UserBubble.Render(msg.Content)
	}

	var parts []string

	content := msg.Content
	switch {
	case msg.IsStreaming && content == "":
		content = m.theme.ThinkingText.Render("...")
	case !msg.IsStreaming && !msg.IsFailed():
		content = m.renderMarkdown(content)
	}
	parts = append(parts, m.theme.AssistantBubble.Render(content))

	if msg.IsStreaming && len(msg.ActiveTools) > 0 {
		parts = append(parts, m.renderActiveTools(msg.ActiveTools))
	}

	if msg.IsFailed() {
		parts = append(parts, m.theme.ErrorTitle.Render(msg.ErrorMessage))
	}

	if m.cfg.ShowToolCalls && !msg.IsStreaming {
		if chips := m.renderCallChips(msg); chips != "" {
			parts = append(parts, chips)
		}
	}

	if meta := m.renderMeta(msg); meta != "" {
		parts = append(parts, meta)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderActiveTools shows the tools currently running for a streaming
// message.
func (m *Model) renderActiveTools(tools []string) string {
	var chips []string
	for _, tool := range tools {
		chips = append(chips, m.theme.ToolChip.Render("* "+tool))
	}
	return strings.Join(chips, " ")
}

// renderCallChips shows the recorded tool and MCP calls of a finished
// turn.
func (m *Model) renderCallChips(msg *model.ChatMessage) string {
	var chips []string
	for _, call := range msg.ToolCalls {
		label := call.Tool
		if call.DurationMs > 0 {
			label = fmt.Sprintf("%s %dms", call.Tool, call.DurationMs)
		}
		chips = append(chips, m.theme.ToolChip.Render(label))
	}
	for _, call := range msg.MCPCalls {
		chips = append(chips, m.theme.ToolChip.Render(call.Server+"/"+call.Tool))
	}
	return strings.Join(chips, " ")
}

// renderMeta shows model and duration info under finalized messages.
func (m *Model) renderMeta(msg *model.ChatMessage) string {
	if msg.IsStreaming || msg.IsFailed() {
		return ""
	}

	var parts []string
	if msg.ModelUsed != "" {
		parts = append(parts, msg.ModelUsed)
	}
	if msg.DurationSeconds > 0 {
		parts = append(parts, fmt.Sprintf("%.1fs", msg.DurationSeconds))
	}
	if len(parts) == 0 {
		return ""
	}
	return m.theme.MessageMeta.Render(strings.Join(parts, " * "))
}

// =============================================================================
// MARKDOWN
// =============================================================================

// renderMarkdown renders finalized assistant content as markdown,
// falling back to the raw text when rendering fails.
func (m *Model) renderMarkdown(content string) string {
	width := m.viewport.Width
	if width < minContentWidth {
		width = minContentWidth
	}

	if m.renderer == nil || m.renderWidth != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		m.renderer = renderer
		m.renderWidth = width
	}

	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
