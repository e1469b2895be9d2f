// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the chat widget,
// session manager, and history store.
package model

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Shizuha Assistant"
	default:
		return string(r)
	}
}

// =============================================================================
// TOOL CALL TYPES
// =============================================================================

// ToolCall records one tool invocation made by the assistant during a turn.
type ToolCall struct {
	Tool       string `json:"tool"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// MCPCall records one call routed through an MCP server during a turn.
type MCPCall struct {
	Server string `json:"server"`
	Tool   string `json:"tool"`
}

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage is a single message within a session.
//
// Assistant messages begin in a streaming state: Content grows append-only
// while the turn is in flight and becomes immutable once the message reaches
// a terminal state (finalized or failed). IDs are unique within a session
// and the session's message list is append-only chronological.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Assistant-only annotations, attached on finalization.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	MCPCalls  []MCPCall  `json:"mcp_calls,omitempty"`

	// Set when the assistant turn failed; partial Content is preserved.
	ErrorMessage string `json:"error_message,omitempty"`

	// Finalization metadata.
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	ModelUsed       string  `json:"model_used,omitempty"`

	// Streaming state, not persisted.
	IsStreaming bool `json:"-"`

	// Tools currently in flight, in start order. Only meaningful while
	// streaming; not persisted.
	ActiveTools []string `json:"-"`
}

// NewUserMessage creates a user message with a generated ID.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{
		ID:        generateMessageID(),
		Role:      RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewAssistantPlaceholder creates an empty assistant message in streaming
// state. The session manager mutates it in place as stream events arrive.
func NewAssistantPlaceholder() ChatMessage {
	return ChatMessage{
		ID:          generateMessageID(),
		Role:        RoleAssistant,
		CreatedAt:   time.Now(),
		IsStreaming: true,
	}
}

// IsFailed reports whether the message carries a turn failure.
func (m *ChatMessage) IsFailed() bool {
	return m.ErrorMessage != ""
}

// IsEmpty reports whether the message has no content yet.
func (m *ChatMessage) IsEmpty() bool {
	return m.Content == ""
}

// Preview returns a single-line truncated preview of the content.
func (m *ChatMessage) Preview(maxRunes int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxRunes {
		return m.Content
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// generateMessageID creates a unique message ID.
func generateMessageID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "msg_" + hex.EncodeToString(bytes)
}
