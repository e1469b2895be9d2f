// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history persists chat sessions for the widget.
//
// All sessions live in one JSON document inside the shared state directory,
// mirroring how every Shizuha surface stores widget history under a single
// key. Each operation reads the whole document and rewrites it atomically,
// so concurrent Shizuha processes get last-write-wins at the granularity of
// the entire store. Chat history is not safety critical; the occasional
// lost update between processes is accepted and documented rather than
// solved.
package history

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shizuha/home-tui/internal/model"
	"github.com/shizuha/home-tui/internal/util"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// HistoryFile is the document name inside the state directory.
	HistoryFile = "chat_history.json"

	// MaxMessagesPerSession bounds a session; oldest messages are
	// truncated first.
	MaxMessagesPerSession = 100

	// MaxSessions bounds the store; least-recently-updated sessions are
	// evicted first.
	MaxSessions = 10
)

// =============================================================================
// STORED ENTRY
// =============================================================================

// Entry is one persisted session.
type Entry struct {
	SessionID string              `json:"session_id"`
	Messages  []model.ChatMessage `json:"messages"`
	// Timestamp is the last save time in Unix milliseconds.
	Timestamp int64 `json:"timestamp"`
}

// Meta is the listing view of an entry, used by the history CLI command.
type Meta struct {
	SessionID    string
	UpdatedAt    time.Time
	MessageCount int
	Preview      string
}

// =============================================================================
// STORE
// =============================================================================

// Store reads and writes the shared history document. It is the only
// writer of that document within this process; the session manager drives
// it with exactly one Save per completed or failed turn.
type Store struct {
	path string

	// now is stubbed in tests.
	now func() time.Time
}

// NewStore creates a store over the given state directory.
func NewStore(stateDir string) *Store {
	return &Store{
		path: filepath.Join(stateDir, HistoryFile),
		now:  time.Now,
	}
}

// Path returns the location of the history document.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Load returns the messages stored for a session, most recent save wins.
// Missing or corrupt data yields an empty slice, never an error: a busted
// history document must not take the widget down.
func (s *Store) Load(sessionID string) []model.ChatMessage {
	for _, entry := range s.readAll() {
		if entry.SessionID == sessionID {
			return entry.Messages
		}
	}
	return nil
}

// Save upserts the session's entry, truncating to the most recent
// MaxMessagesPerSession messages, then evicts all but the MaxSessions most
// recently updated sessions. The write is synchronous and atomic.
func (s *Store) Save(sessionID string, messages []model.ChatMessage) error {
	if sessionID == "" {
		return errors.New("history: empty session id")
	}

	if len(messages) > MaxMessagesPerSession {
		messages = messages[len(messages)-MaxMessagesPerSession:]
	}

	entries := s.readAll()
	entry := Entry{
		SessionID: sessionID,
		Messages:  messages,
		Timestamp: s.now().UnixMilli(),
	}

	replaced := false
	for i := range entries {
		if entries[i].SessionID == sessionID {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	// Most recently updated first, then evict the tail.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	if len(entries) > MaxSessions {
		entries = entries[:MaxSessions]
	}

	return s.writeAll(entries)
}

// Clear removes the entry for a session. Clearing an absent session is a
// no-op.
func (s *Store) Clear(sessionID string) error {
	entries := s.readAll()
	filtered := entries[:0]
	for _, entry := range entries {
		if entry.SessionID != sessionID {
			filtered = append(filtered, entry)
		}
	}
	if len(filtered) == len(entries) {
		return nil
	}
	return s.writeAll(filtered)
}

// List returns metadata for every stored session, most recent first.
func (s *Store) List() []Meta {
	entries := s.readAll()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})

	metas := make([]Meta, 0, len(entries))
	for _, entry := range entries {
		preview := ""
		for _, msg := range entry.Messages {
			if msg.Role == model.RoleUser && msg.Content != "" {
				preview = util.TruncateRunes(util.CollapseLines(msg.Content), 60)
				break
			}
		}
		metas = append(metas, Meta{
			SessionID:    entry.SessionID,
			UpdatedAt:    time.UnixMilli(entry.Timestamp),
			MessageCount: len(entry.Messages),
			Preview:      preview,
		})
	}
	return metas
}

// ClearAll removes the whole history document.
func (s *Store) ClearAll() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// =============================================================================
// DOCUMENT I/O
// =============================================================================

// readAll reads the full document snapshot. Corruption is logged and
// treated as an empty store.
func (s *Store) readAll() []Entry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("history: failed to read %s: %v", s.path, err)
		}
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("history: corrupt document %s, starting empty: %v", s.path, err)
		return nil
	}
	return entries
}

// writeAll replaces the document atomically.
func (s *Store) writeAll(entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(s.path, data, 0600)
}
