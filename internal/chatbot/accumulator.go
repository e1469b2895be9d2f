// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatbot

import (
	"strings"

	"github.com/shizuha/home-tui/internal/model"
)

// =============================================================================
// TURN STATE
// =============================================================================

// TurnState is the lifecycle of one in-flight assistant turn.
//
// The machine is STREAMING -> {FINALIZED, FAILED}; both end states are
// terminal and every mutation after them is a no-op.
type TurnState int

const (
	TurnStreaming TurnState = iota
	TurnFinalized
	TurnFailed
)

// =============================================================================
// ACCUMULATOR
// =============================================================================

// Accumulator folds stream events into display-ready turn state: the
// append-only content, the set of tools currently in flight, and the call
// records attached on finalization.
//
// Not safe for concurrent use; the session manager feeds it from a single
// goroutine in event-arrival order.
type Accumulator struct {
	state   TurnState
	content strings.Builder

	// active tools in start order; duplicates collapse to one entry.
	active []string

	toolCalls []model.ToolCall
	mcpCalls  []model.MCPCall

	errMessage      string
	durationSeconds float64
	modelUsed       string
}

// NewAccumulator creates an accumulator in the streaming state.
func NewAccumulator() *Accumulator {
	return &Accumulator{state: TurnStreaming}
}

// State returns the current turn state.
func (a *Accumulator) State() TurnState {
	return a.state
}

// Content returns the text accumulated so far.
func (a *Accumulator) Content() string {
	return a.content.String()
}

// ActiveTools returns the names of tools currently in flight, in start
// order.
func (a *Accumulator) ActiveTools() []string {
	out := make([]string, len(a.active))
	copy(out, a.active)
	return out
}

// ErrorMessage returns the failure message, or "" while not failed.
func (a *Accumulator) ErrorMessage() string {
	return a.errMessage
}

// =============================================================================
// EVENT HANDLERS
// =============================================================================

// OnTextDelta appends a fragment. Fragments must be applied in arrival
// order; the accumulator never reorders or coalesces them.
func (a *Accumulator) OnTextDelta(fragment string) {
	if a.state != TurnStreaming {
		return
	}
	a.content.WriteString(fragment)
}

// OnToolStart marks a tool as in flight.
func (a *Accumulator) OnToolStart(name string) {
	if a.state != TurnStreaming || name == "" {
		return
	}
	for _, t := range a.active {
		if t == name {
			return
		}
	}
	a.active = append(a.active, name)
}

// OnToolEnd removes a tool from the in-flight set and records the call.
// An end without a matching start still records the call; the backend is
// authoritative about what ran.
func (a *Accumulator) OnToolEnd(name string, durationMs int64) {
	if a.state != TurnStreaming || name == "" {
		return
	}
	for i, t := range a.active {
		if t == name {
			a.active = append(a.active[:i], a.active[i+1:]...)
			break
		}
	}
	a.toolCalls = append(a.toolCalls, model.ToolCall{Tool: name, DurationMs: durationMs})
}

// OnMCPCall records a call routed through an MCP server.
func (a *Accumulator) OnMCPCall(server, tool string) {
	if a.state != TurnStreaming {
		return
	}
	a.mcpCalls = append(a.mcpCalls, model.MCPCall{Server: server, Tool: tool})
}

// OnFinalize transitions to the terminal finalized state. Content becomes
// immutable; metadata and call lists are attached. Server-supplied call
// lists in meta win over the event-derived ones.
func (a *Accumulator) OnFinalize(meta FinalizeMeta) {
	if a.state != TurnStreaming {
		return
	}
	a.state = TurnFinalized
	a.active = nil
	a.durationSeconds = meta.DurationSeconds
	a.modelUsed = meta.ModelUsed
	if len(meta.ToolCalls) > 0 {
		a.toolCalls = meta.ToolCalls
	}
	if len(meta.MCPCalls) > 0 {
		a.mcpCalls = meta.MCPCalls
	}
}

// OnError transitions to the terminal failed state. Partial content is
// preserved.
func (a *Accumulator) OnError(message string) {
	if a.state != TurnStreaming {
		return
	}
	a.state = TurnFailed
	a.active = nil
	if message == "" {
		message = "The assistant ran into a problem. Please try again."
	}
	a.errMessage = message
}

// Apply dispatches a stream event to the matching handler.
func (a *Accumulator) Apply(event Event) {
	switch event.Kind {
	case EventTextDelta:
		a.OnTextDelta(event.Text)
	case EventToolStart:
		a.OnToolStart(event.Tool)
	case EventToolEnd:
		a.OnToolEnd(event.Tool, event.DurationMs)
	case EventMCPCall:
		a.OnMCPCall(event.Server, event.Tool)
	case EventDone:
		a.OnFinalize(event.Meta)
	case EventError:
		a.OnError(event.Message)
	}
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// WriteTo copies the accumulated turn state onto an assistant message.
// The message keeps its identity fields; content, call records, error, and
// metadata reflect this accumulator. IsStreaming tracks the turn state.
func (a *Accumulator) WriteTo(msg *model.ChatMessage) {
	msg.Content = a.content.String()
	msg.IsStreaming = a.state == TurnStreaming
	msg.ErrorMessage = a.errMessage

	msg.ActiveTools = nil
	if a.state == TurnStreaming && len(a.active) > 0 {
		msg.ActiveTools = append([]string(nil), a.active...)
	}

	if len(a.toolCalls) > 0 {
		msg.ToolCalls = append([]model.ToolCall(nil), a.toolCalls...)
	}
	if len(a.mcpCalls) > 0 {
		msg.MCPCalls = append([]model.MCPCall(nil), a.mcpCalls...)
	}
	if a.state == TurnFinalized {
		msg.DurationSeconds = a.durationSeconds
		msg.ModelUsed = a.modelUsed
	}
}
