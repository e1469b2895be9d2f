// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAuthFiles(t *testing.T, dir, token, userJSON string) {
	t.Helper()
	if token != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, AccessTokenFile), []byte(token), 0600))
	}
	if userJSON != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, UserRecordFile), []byte(userJSON), 0600))
	}
}

func TestMirror_Authenticated(t *testing.T) {
	dir := t.TempDir()
	writeAuthFiles(t, dir, "tok-123\n", `{"username":"mei","first_name":"Mei","email":"mei@shizuha.app"}`)

	m := NewMirror(dir)
	snap := m.Snapshot()

	assert.True(t, snap.IsAuthenticated)
	assert.Equal(t, "tok-123", snap.AccessToken)
	require.NotNil(t, snap.User)
	assert.Equal(t, "mei", snap.User.Username)
	assert.Equal(t, "Mei", snap.User.FirstName)
}

func TestMirror_MissingToken(t *testing.T) {
	dir := t.TempDir()
	writeAuthFiles(t, dir, "", `{"username":"mei"}`)

	snap := NewMirror(dir).Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}

func TestMirror_MissingUserRecord(t *testing.T) {
	dir := t.TempDir()
	writeAuthFiles(t, dir, "tok-123", "")

	snap := NewMirror(dir).Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}

func TestMirror_CorruptUserRecord(t *testing.T) {
	dir := t.TempDir()
	writeAuthFiles(t, dir, "tok-123", `{"username": "mei"`)

	// Parse failure degrades to unauthenticated; it never errors.
	snap := NewMirror(dir).Snapshot()
	assert.False(t, snap.IsAuthenticated)
	assert.Nil(t, snap.User)
}

func TestMirror_EmptyTokenFile(t *testing.T) {
	dir := t.TempDir()
	writeAuthFiles(t, dir, "  \n", `{"username":"mei"}`)

	snap := NewMirror(dir).Snapshot()
	assert.False(t, snap.IsAuthenticated)
}

func TestMirror_MissingDirectory(t *testing.T) {
	snap := NewMirror(filepath.Join(t.TempDir(), "nope")).Snapshot()
	assert.False(t, snap.IsAuthenticated)
}

func TestMirror_RefreshPublishesChange(t *testing.T) {
	dir := t.TempDir()
	m := NewMirror(dir)
	require.False(t, m.Snapshot().IsAuthenticated)

	writeAuthFiles(t, dir, "tok-456", `{"username":"rin"}`)
	snap := m.Refresh()

	assert.True(t, snap.IsAuthenticated)
	select {
	case got := <-m.Changes():
		assert.True(t, got.IsAuthenticated)
		assert.Equal(t, "rin", got.User.Username)
	default:
		t.Fatal("expected a change notification")
	}
}

func TestMirror_RefreshNoChangeNoNotify(t *testing.T) {
	dir := t.TempDir()
	writeAuthFiles(t, dir, "tok-123", `{"username":"mei"}`)

	m := NewMirror(dir)
	m.Refresh()

	select {
	case <-m.Changes():
		t.Fatal("unchanged state must not notify")
	default:
	}
}

func TestMirror_WatchObservesLoginAndLogout(t *testing.T) {
	dir := t.TempDir()
	m := NewMirror(dir)
	require.NoError(t, m.Watch(context.Background()))
	defer m.Close()

	// Login: identity service writes both files.
	writeAuthFiles(t, dir, "tok-789", `{"username":"aoi"}`)

	snap := waitForChange(t, m)
	assert.True(t, snap.IsAuthenticated)

	// Logout: identity service removes the token.
	require.NoError(t, os.Remove(filepath.Join(dir, AccessTokenFile)))

	snap = waitForChange(t, m)
	assert.False(t, snap.IsAuthenticated)
}

func TestMirror_WatchIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewMirror(dir)
	require.NoError(t, m.Watch(context.Background()))
	defer m.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "theme"), []byte("dark"), 0644))

	select {
	case <-m.Changes():
		t.Fatal("unrelated file must not trigger a snapshot")
	case <-time.After(200 * time.Millisecond):
	}
}

func waitForChange(t *testing.T, m *Mirror) Snapshot {
	t.Helper()
	select {
	case snap := <-m.Changes():
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for auth change")
		return Snapshot{}
	}
}
