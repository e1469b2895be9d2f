// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the state of one chat conversation: the message
// list, the in-flight turn, and the persistence of completed turns.
//
// The manager is the single writer of conversation state. The UI reads
// snapshots and subscribes to change notifications; the chatbot stream
// feeds events in, and exactly one history save happens per finished
// turn no matter how the turn ends.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/shizuha/home-tui/internal/chatbot"
	"github.com/shizuha/home-tui/internal/history"
	"github.com/shizuha/home-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTurnInFlight is returned when a send overlaps an active turn.
	// Sends are single-flight: one assistant turn at a time.
	ErrTurnInFlight = errors.New("session: a message is already in flight")

	// ErrEmptyMessage is returned for whitespace-only input.
	ErrEmptyMessage = errors.New("session: message is empty")
)

// abortedTurnMessage is attached to a turn the user cancelled mid-stream.
const abortedTurnMessage = "interrupted"

// droppedConnectionMessage is attached when the stream ends without a
// terminal event.
const droppedConnectionMessage = "The connection was interrupted. Please try again."

// =============================================================================
// STREAMER
// =============================================================================

// Streamer is the chat backend as the manager sees it. *chatbot.Client
// satisfies it; tests substitute scripted fakes.
type Streamer interface {
	StreamChat(ctx context.Context, sessionID, message string, fn chatbot.EventFunc) error
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is a point-in-time copy of conversation state for rendering.
type Snapshot struct {
	SessionID string
	Messages  []model.ChatMessage
	Loading   bool
	LastError string
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager drives one conversation. Safe for concurrent use.
type Manager struct {
	mu sync.Mutex

	sessionID string
	messages  []model.ChatMessage
	loading   bool
	lastError string

	// turnSeq identifies the active turn; a turn whose sequence no
	// longer matches (the session was cleared under it) must not touch
	// state or persist.
	turnSeq int

	cancelTurn context.CancelFunc

	streamer Streamer
	store    *history.Store

	// changes carries coalesced change notifications to the UI.
	changes chan struct{}
}

// NewManager creates a manager with a fresh session ID and no messages.
func NewManager(streamer Streamer, store *history.Store) *Manager {
	return &Manager{
		sessionID: uuid.NewString(),
		streamer:  streamer,
		store:     store,
		changes:   make(chan struct{}, 1),
	}
}

// Resume loads a persisted session into the manager, replacing the
// current conversation. An in-flight turn is aborted first.
func (m *Manager) Resume(sessionID string) {
	m.abortLocked()

	m.mu.Lock()
	m.sessionID = sessionID
	m.messages = m.store.Load(sessionID)
	m.lastError = ""
	m.turnSeq++
	m.mu.Unlock()

	m.notify()
}

// SessionID returns the current session identifier.
func (m *Manager) SessionID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessionID
}

// Loading reports whether an assistant turn is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Snapshot returns a copy of the conversation state. The returned
// message slice is the caller's to keep.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	msgs := make([]model.ChatMessage, len(m.messages))
	copy(msgs, m.messages)

	return Snapshot{
		SessionID: m.sessionID,
		Messages:  msgs,
		Loading:   m.loading,
		LastError: m.lastError,
	}
}

// Changes returns a channel that receives a signal after state changes.
// Notifications are coalesced; receivers re-read via Snapshot.
func (m *Manager) Changes() <-chan struct{} {
	return m.changes
}

// notify publishes a coalesced change signal without blocking.
func (m *Manager) notify() {
	select {
	case m.changes <- struct{}{}:
	default:
	}
}

// =============================================================================
// SENDING
// =============================================================================

// SendMessage starts an assistant turn for the given user input.
//
// The user message is appended immediately along with a streaming
// assistant placeholder, then the turn runs in the background: stream
// events mutate the placeholder in place, and when the turn reaches a
// terminal state the conversation is persisted exactly once. Returns
// ErrTurnInFlight while a previous turn is still streaming.
func (m *Manager) SendMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return ErrTurnInFlight
	}

	m.loading = true
	m.lastError = ""
	m.turnSeq++
	seq := m.turnSeq
	sessionID := m.sessionID

	m.messages = append(m.messages, model.NewUserMessage(text))
	m.messages = append(m.messages, model.NewAssistantPlaceholder())
	placeholderID := m.messages[len(m.messages)-1].ID

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelTurn = cancel
	m.mu.Unlock()

	m.notify()

	go m.runTurn(ctx, cancel, seq, sessionID, placeholderID, text)
	return nil
}

// runTurn executes one assistant turn to its terminal state.
func (m *Manager) runTurn(ctx context.Context, cancel context.CancelFunc, seq int, sessionID, placeholderID, text string) {
	defer cancel()

	acc := chatbot.NewAccumulator()

	err := m.streamer.StreamChat(ctx, sessionID, text, func(ev chatbot.Event) {
		acc.Apply(ev)
		m.updatePlaceholder(seq, placeholderID, acc)
	})

	// Force a terminal state when the stream ended without one.
	if acc.State() == chatbot.TurnStreaming {
		switch {
		case ctx.Err() != nil:
			acc.OnError(abortedTurnMessage)
		case err != nil:
			acc.OnError(userFacingError(err))
		default:
			acc.OnError(droppedConnectionMessage)
		}
	}

	m.finishTurn(seq, placeholderID, acc, err)
}

// updatePlaceholder copies accumulator state onto the placeholder
// message. A stale turn sequence means the session was cleared or
// resumed underneath the turn; the update is dropped.
func (m *Manager) updatePlaceholder(seq int, placeholderID string, acc *chatbot.Accumulator) {
	m.mu.Lock()
	if seq != m.turnSeq {
		m.mu.Unlock()
		return
	}
	for i := range m.messages {
		if m.messages[i].ID == placeholderID {
			acc.WriteTo(&m.messages[i])
			break
		}
	}
	m.mu.Unlock()

	m.notify()
}

// finishTurn applies the terminal accumulator state and persists the
// conversation. This is the only save for the turn.
func (m *Manager) finishTurn(seq int, placeholderID string, acc *chatbot.Accumulator, streamErr error) {
	m.mu.Lock()
	if seq != m.turnSeq {
		m.mu.Unlock()
		return
	}

	for i := range m.messages {
		if m.messages[i].ID == placeholderID {
			acc.WriteTo(&m.messages[i])
			break
		}
	}
	m.loading = false
	m.cancelTurn = nil
	switch {
	case streamErr != nil && !errors.Is(streamErr, context.Canceled):
		m.lastError = userFacingError(streamErr)
	case acc.State() == chatbot.TurnFailed && acc.ErrorMessage() != abortedTurnMessage:
		// Server-signaled errors arrive as stream events, not transport
		// errors; they surface through the error slot all the same.
		m.lastError = acc.ErrorMessage()
	}

	sessionID := m.sessionID
	msgs := make([]model.ChatMessage, len(m.messages))
	copy(msgs, m.messages)
	m.mu.Unlock()

	if err := m.store.Save(sessionID, msgs); err != nil {
		m.mu.Lock()
		if seq == m.turnSeq {
			m.lastError = "Could not save chat history."
		}
		m.mu.Unlock()
	}

	m.notify()
}

// =============================================================================
// ABORT / CLEAR
// =============================================================================

// Abort cancels the in-flight turn, if any. The partial assistant
// content is kept and the turn is recorded as interrupted.
func (m *Manager) Abort() {
	m.abortLocked()
}

func (m *Manager) abortLocked() {
	m.mu.Lock()
	cancel := m.cancelTurn
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// ClearSession discards the conversation and its persisted history and
// starts a fresh session with a new identifier. An in-flight turn is
// detached: it can no longer mutate or persist anything.
func (m *Manager) ClearSession() error {
	m.mu.Lock()
	cancel := m.cancelTurn
	oldSessionID := m.sessionID

	m.sessionID = uuid.NewString()
	m.messages = nil
	m.loading = false
	m.lastError = ""
	m.cancelTurn = nil
	m.turnSeq++
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	err := m.store.Clear(oldSessionID)
	m.notify()
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

// userFacingError maps a transport error to a message fit for the chat.
func userFacingError(err error) string {
	var apiErr *chatbot.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == 401 || apiErr.Status == 403:
			return "Your session has expired. Please sign in again."
		case apiErr.Status == 429:
			return "Too many requests. Please wait a moment and try again."
		case apiErr.Message != "":
			return apiErr.Message
		}
	}
	if errors.Is(err, chatbot.ErrNotConfigured) {
		return "Chat is not configured."
	}
	return "The assistant ran into a problem. Please try again."
}
