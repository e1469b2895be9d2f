// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth mirrors the authentication state owned by the shizuha-id
// service.
//
// The identity service writes two files into the shared state directory: an
// access-token file and a user-record JSON file. This package is a read-only
// reflection of those files. It never writes them, never refreshes tokens,
// and treats every parse failure as "unauthenticated" rather than an error.
// Cross-process changes (another Shizuha process logging in or out) are
// observed through a filesystem watch on exactly those two paths.
package auth

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shizuha/home-tui/internal/model"
)

// File names inside the state directory, shared across all Shizuha apps.
const (
	AccessTokenFile = "access_token"
	UserRecordFile  = "user.json"
)

// debounce interval for filesystem events. Editors and the identity CLI
// produce bursts of WRITE events per save.
const watchDebounce = 50 * time.Millisecond

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot is one observation of the mirrored auth state. It is a value:
// once returned it never changes, even if the underlying files do.
type Snapshot struct {
	IsAuthenticated bool
	AccessToken     string
	User            *model.User
}

// Source is the observable auth interface consumed by the UI and the chat
// widget. The production implementation is *Mirror; tests inject fakes.
type Source interface {
	// Snapshot returns the current auth state.
	Snapshot() Snapshot
	// Changes delivers a new snapshot after each observed change. The
	// channel is closed when the source shuts down.
	Changes() <-chan Snapshot
}

// =============================================================================
// MIRROR
// =============================================================================

// Mirror reflects the token and user-record files from the state directory.
type Mirror struct {
	dir string

	mu      sync.RWMutex
	current Snapshot

	changes chan Snapshot
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
}

// NewMirror creates a mirror over the given state directory and reads the
// initial snapshot. Missing or unreadable files yield an unauthenticated
// snapshot, not an error.
func NewMirror(stateDir string) *Mirror {
	m := &Mirror{
		dir:     stateDir,
		changes: make(chan Snapshot, 8),
	}
	m.current = m.read()
	return m
}

// Snapshot returns the most recently derived auth state.
func (m *Mirror) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Changes implements Source.
func (m *Mirror) Changes() <-chan Snapshot {
	return m.changes
}

// AccessToken returns the current bearer token, or "" when unauthenticated.
// Handed to the chat widget as its token callback.
func (m *Mirror) AccessToken() string {
	return m.Snapshot().AccessToken
}

// =============================================================================
// READING
// =============================================================================

// read derives a snapshot from the files on disk.
//
// Rule: both files present and the user record parses => authenticated.
// Anything else (missing file, empty token, corrupt JSON) => unauthenticated.
func (m *Mirror) read() Snapshot {
	token, err := os.ReadFile(filepath.Join(m.dir, AccessTokenFile))
	if err != nil {
		return Snapshot{}
	}
	tok := strings.TrimSpace(string(token))
	if tok == "" {
		return Snapshot{}
	}

	raw, err := os.ReadFile(filepath.Join(m.dir, UserRecordFile))
	if err != nil {
		return Snapshot{}
	}

	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		// Corrupt user record is "unauthenticated", never an error.
		return Snapshot{}
	}
	if user.Username == "" {
		return Snapshot{}
	}

	return Snapshot{
		IsAuthenticated: true,
		AccessToken:     tok,
		User:            &user,
	}
}

// Refresh re-reads the files and publishes a snapshot if the derived state
// changed. Safe to call from any goroutine.
func (m *Mirror) Refresh() Snapshot {
	snap := m.read()

	m.mu.Lock()
	changed := !snapshotEqual(m.current, snap)
	m.current = snap
	m.mu.Unlock()

	if changed {
		select {
		case m.changes <- snap:
		default:
			// Slow consumer; the next change will carry fresher state.
		}
	}
	return snap
}

func snapshotEqual(a, b Snapshot) bool {
	if a.IsAuthenticated != b.IsAuthenticated || a.AccessToken != b.AccessToken {
		return false
	}
	if (a.User == nil) != (b.User == nil) {
		return false
	}
	if a.User != nil && *a.User != *b.User {
		return false
	}
	return true
}

// =============================================================================
// WATCHING
// =============================================================================

// Watch starts observing the state directory for changes to the two auth
// files. Events for other files in the directory are ignored. Call Close to
// stop watching.
func (m *Mirror) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the directory, not the files: the identity service replaces
	// the files by rename, which drops per-file watches.
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		watcher.Close()
		return err
	}
	if err := watcher.Add(m.dir); err != nil {
		watcher.Close()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	m.watcher = watcher
	m.cancel = cancel

	go m.processEvents(ctx)
	return nil
}

// processEvents debounces relevant filesystem events into Refresh calls.
func (m *Mirror) processEvents(ctx context.Context) {
	defer close(m.changes)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if name != AccessTokenFile && name != UserRecordFile {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(watchDebounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			m.Refresh()

		case _, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the mirror keeps its last
			// snapshot and recovers on the next event.
		}
	}
}

// Close stops the watcher and releases its resources.
func (m *Mirror) Close() error {
	if m.cancel != nil {
		m.cancel()
	}
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
