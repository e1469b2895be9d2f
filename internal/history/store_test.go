// Copyright (c) 2025 Shizuha Platform
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shizuha/home-tui/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir())
}

func userMsg(content string) model.ChatMessage {
	return model.NewUserMessage(content)
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	msgs := []model.ChatMessage{userMsg("hello"), userMsg("again")}
	require.NoError(t, store.Save("sess-1", msgs))

	loaded := store.Load("sess-1")
	require.Len(t, loaded, 2)
	assert.Equal(t, "hello", loaded[0].Content)
	assert.Equal(t, "again", loaded[1].Content)
	assert.Equal(t, msgs[0].ID, loaded[0].ID)
}

func TestStore_LoadMissingSession(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.Load("nope"))
}

func TestStore_LoadCorruptDocument(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0600))

	// Corruption fails soft: empty history, no panic, no error.
	assert.Empty(t, store.Load("sess-1"))

	// And the store recovers on the next save.
	require.NoError(t, store.Save("sess-1", []model.ChatMessage{userMsg("hi")}))
	assert.Len(t, store.Load("sess-1"), 1)
}

func TestStore_SaveTruncatesToMostRecent100(t *testing.T) {
	store := newTestStore(t)

	msgs := make([]model.ChatMessage, 0, 150)
	for i := 0; i < 150; i++ {
		msgs = append(msgs, userMsg(fmt.Sprintf("m%d", i)))
	}
	require.NoError(t, store.Save("sess-1", msgs))

	loaded := store.Load("sess-1")
	require.Len(t, loaded, MaxMessagesPerSession)
	// Oldest truncated first: the survivors are m50..m149 in order.
	assert.Equal(t, "m50", loaded[0].Content)
	assert.Equal(t, "m149", loaded[len(loaded)-1].Content)
}

func TestStore_LastSaveWins(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("sess-1", []model.ChatMessage{userMsg("a")}))
	require.NoError(t, store.Save("sess-1", []model.ChatMessage{userMsg("b"), userMsg("c")}))

	loaded := store.Load("sess-1")
	require.Len(t, loaded, 2)
	assert.Equal(t, "b", loaded[0].Content)
}

func TestStore_EvictsOldestSessionsBeyond10(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()
	for i := 0; i < 15; i++ {
		i := i
		store.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		require.NoError(t, store.Save(fmt.Sprintf("sess-%d", i), []model.ChatMessage{userMsg("x")}))
	}

	// The five oldest sessions are gone.
	for i := 0; i < 5; i++ {
		assert.Empty(t, store.Load(fmt.Sprintf("sess-%d", i)), "sess-%d should be evicted", i)
	}
	// The ten newest survive.
	for i := 5; i < 15; i++ {
		assert.Len(t, store.Load(fmt.Sprintf("sess-%d", i)), 1, "sess-%d should survive", i)
	}
}

func TestStore_SaveRefreshesEvictionOrder(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()
	tick := 0
	advance := func() {
		tick++
		n := tick
		store.now = func() time.Time { return base.Add(time.Duration(n) * time.Second) }
	}

	for i := 0; i < 10; i++ {
		advance()
		require.NoError(t, store.Save(fmt.Sprintf("sess-%d", i), []model.ChatMessage{userMsg("x")}))
	}

	// Touch the oldest session, then add a new one; the touched session
	// must survive and sess-1 becomes the eviction victim.
	advance()
	require.NoError(t, store.Save("sess-0", []model.ChatMessage{userMsg("touched")}))
	advance()
	require.NoError(t, store.Save("sess-new", []model.ChatMessage{userMsg("x")}))

	assert.NotEmpty(t, store.Load("sess-0"))
	assert.NotEmpty(t, store.Load("sess-new"))
	assert.Empty(t, store.Load("sess-1"))
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("sess-1", []model.ChatMessage{userMsg("a")}))
	require.NoError(t, store.Save("sess-2", []model.ChatMessage{userMsg("b")}))

	require.NoError(t, store.Clear("sess-1"))

	assert.Empty(t, store.Load("sess-1"))
	assert.Len(t, store.Load("sess-2"), 1)
}

func TestStore_ClearIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Clear("never-existed"))
	require.NoError(t, store.Clear("never-existed"))
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	base := time.Now()

	store.now = func() time.Time { return base }
	require.NoError(t, store.Save("sess-old", []model.ChatMessage{userMsg("first question")}))
	store.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, store.Save("sess-new", []model.ChatMessage{userMsg("second question"), userMsg("more")}))

	metas := store.List()
	require.Len(t, metas, 2)
	assert.Equal(t, "sess-new", metas[0].SessionID)
	assert.Equal(t, 2, metas[0].MessageCount)
	assert.Equal(t, "second question", metas[0].Preview)
	assert.Equal(t, "sess-old", metas[1].SessionID)
}

func TestStore_ClearAll(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save("sess-1", []model.ChatMessage{userMsg("a")}))
	require.NoError(t, store.ClearAll())
	assert.Empty(t, store.List())

	// Removing an absent document is fine.
	require.NoError(t, store.ClearAll())
}
