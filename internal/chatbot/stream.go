// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatbot

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/shizuha/home-tui/internal/model"
)

// STREAMING: Robust SSE parsing with per-event dispatch

// MaxChunkSize is the maximum allowed size for a single SSE event (64KB).
const MaxChunkSize = 64 * 1024

// =============================================================================
// EVENT TYPES
// =============================================================================

// EventKind identifies a stream event.
type EventKind string

const (
	EventTextDelta EventKind = "text-delta"
	EventToolStart EventKind = "tool-start"
	EventToolEnd   EventKind = "tool-end"
	EventMCPCall   EventKind = "mcp-call"
	EventDone      EventKind = "done"
	EventError     EventKind = "error"
)

// Event is one incremental stream event. Fields are populated according to
// Kind; unknown kinds are skipped by the reader.
type Event struct {
	Kind EventKind

	// EventTextDelta
	Text string

	// EventToolStart / EventToolEnd
	Tool       string
	DurationMs int64

	// EventMCPCall
	Server string

	// EventDone
	Meta FinalizeMeta

	// EventError
	Message string
}

// FinalizeMeta is the metadata carried by the terminal done event.
type FinalizeMeta struct {
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	ModelUsed       string  `json:"model_used,omitempty"`

	// Optional server-authoritative call lists. When present they
	// override whatever the accumulator derived from tool events.
	ToolCalls []model.ToolCall `json:"tool_calls,omitempty"`
	MCPCalls  []model.MCPCall  `json:"mcp_calls,omitempty"`
}

// EventFunc receives stream events in arrival order.
type EventFunc func(Event)

// eventPayload is the JSON data of every SSE event; which fields matter
// depends on the event name.
type eventPayload struct {
	Text       string `json:"text"`
	Tool       string `json:"tool"`
	Server     string `json:"server"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message"`
	FinalizeMeta
}

// =============================================================================
// SSE READER
// =============================================================================

// SSEReader parses Server-Sent Events from a stream.
type SSEReader struct {
	reader *bufio.Reader
}

// NewSSEReader creates a new SSE reader from an io.Reader.
func NewSSEReader(r io.Reader) *SSEReader {
	return &SSEReader{reader: bufio.NewReader(r)}
}

// ReadEvent reads the next SSE event, returning its event name and joined
// data payload. Returns io.EOF when the stream ends.
func (s *SSEReader) ReadEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte
	var size int

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return eventType, bytes.Join(dataLines, []byte("\n")), nil
				}
				return "", nil, io.EOF
			}
			return "", nil, err
		}

		size += len(line)
		if size > MaxChunkSize {
			return "", nil, io.ErrUnexpectedEOF
		}

		line = bytes.TrimRight(line, "\r\n")

		// Empty line signals end of event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			eventType = ""
			continue
		}

		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			eventType = string(bytes.TrimSpace(line[6:]))
		case bytes.HasPrefix(line, []byte("data:")):
			dataLines = append(dataLines, bytes.TrimSpace(line[5:]))
		}
		// Ignore other fields (id:, retry:, comments starting with :).
	}
}

// =============================================================================
// STREAM PROCESSING
// =============================================================================

// processStream reads the SSE body and dispatches decoded events to fn.
// Returns after a terminal event (done or error), on EOF, or when ctx is
// cancelled. A malformed event is skipped rather than aborting the turn.
func processStream(ctx context.Context, body io.Reader, fn EventFunc) error {
	reader := NewSSEReader(body)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		name, data, err := reader.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		event, ok := decodeEvent(name, data)
		if !ok {
			continue
		}

		fn(event)

		if event.Kind == EventDone || event.Kind == EventError {
			return nil
		}
	}
}

// decodeEvent maps a named SSE event to an Event. Unknown names and
// malformed payloads report ok=false.
func decodeEvent(name string, data []byte) (Event, bool) {
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Event{}, false
	}

	switch EventKind(name) {
	case EventTextDelta:
		return Event{Kind: EventTextDelta, Text: payload.Text}, true
	case EventToolStart:
		return Event{Kind: EventToolStart, Tool: payload.Tool}, true
	case EventToolEnd:
		return Event{Kind: EventToolEnd, Tool: payload.Tool, DurationMs: payload.DurationMs}, true
	case EventMCPCall:
		return Event{Kind: EventMCPCall, Server: payload.Server, Tool: payload.Tool}, true
	case EventDone:
		return Event{Kind: EventDone, Meta: payload.FinalizeMeta}, true
	case EventError:
		return Event{Kind: EventError, Message: payload.Message}, true
	default:
		return Event{}, false
	}
}
