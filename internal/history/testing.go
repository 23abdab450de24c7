package history

import (
	"context"
	"testing"
	"time"

	"github.com/artpar/restui/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreTests runs the standard store test suite against any Store implementation.
// Use this to verify that a Store implementation correctly implements the interface.
func RunStoreTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("Add", func(t *testing.T) {
		runAddTests(t, newStore)
	})
	t.Run("Recent", func(t *testing.T) {
		runRecentTests(t, newStore)
	})
	t.Run("Prune", func(t *testing.T) {
		runPruneTests(t, newStore)
	})
	t.Run("Clear", func(t *testing.T) {
		runClearTests(t, newStore)
	})
	t.Run("Close", func(t *testing.T) {
		runCloseTests(t, newStore)
	})
}

func sampleEntry(url string, at time.Time) Entry {
	req := core.NewDefaultRequest("Sample")
	req.SetURL(url)
	e := NewEntry(req)
	e.Timestamp = at
	e.StatusCode = 200
	e.StatusText = "OK"
	e.DurationMs = 42
	return e
}

func runAddTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("adds entry and returns ID", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		id, err := store.Add(context.Background(), sampleEntry("https://api.example.com/users", time.Now()))
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("round trips the request snapshot", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		req := core.NewRequestDefinition("Create", core.MethodPost, "https://api.example.com/users")
		req.SetHeaders([]core.KeyValue{{Key: "X-Trace", Value: "1", Enabled: true}, {Key: "X-Off", Value: "0"}})
		req.AddQueryParam("dry_run", "true")
		req.SetBody(`{"name":"John"}`)
		req.SetAuth(core.AuthConfig{Type: core.AuthBasic, BasicUsername: "u", BasicPassword: "p"})
		entry := NewEntry(req)
		entry.CollectionID = "coll-1"
		entry.StatusCode = 201
		entry.StatusText = "Created"
		entry.DurationMs = 234

		id, err := store.Add(context.Background(), entry)
		require.NoError(t, err)

		got, err := store.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, "POST", got.Method)
		assert.Equal(t, entry.URL, got.URL)
		assert.Equal(t, entry.Headers, got.Headers)
		assert.Equal(t, entry.QueryParams, got.QueryParams)
		assert.Equal(t, entry.Body, got.Body)
		assert.Equal(t, entry.Auth, got.Auth)
		assert.Equal(t, "coll-1", got.CollectionID)
		assert.Equal(t, 201, got.StatusCode)
		assert.Equal(t, int64(234), got.DurationMs)
		assert.WithinDuration(t, entry.Timestamp, got.Timestamp, time.Second)
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		ids := make(map[string]bool)
		for i := 0; i < 10; i++ {
			id, err := store.Add(context.Background(), sampleEntry("https://api.example.com", time.Now()))
			require.NoError(t, err)
			assert.False(t, ids[id], "duplicate ID generated")
			ids[id] = true
		}
	})

	t.Run("get unknown ID", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		_, err := store.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = store.Get(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func runRecentTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("newest first with limit", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		base := time.Now().Add(-time.Hour)
		for i, path := range []string{"/a", "/b", "/c"} {
			_, err := store.Add(context.Background(), sampleEntry("https://x"+path, base.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
		}

		entries, err := store.Recent(context.Background(), 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "https://x/c", entries[0].URL)
		assert.Equal(t, "https://x/b", entries[1].URL)

		all, err := store.Recent(context.Background(), 0)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("empty store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		entries, err := store.Recent(context.Background(), 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func runPruneTests(t *testing.T, newStore func() (Store, func())) {
	t.Run("keeps the newest entries", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		base := time.Now().Add(-time.Hour)
		for i := 0; i < 5; i++ {
			_, err := store.Add(context.Background(), sampleEntry("https://x/"+string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
		}

		deleted, err := store.Prune(context.Background(), 2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)

		entries, err := store.Recent(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "https://x/e", entries[0].URL)
		assert.Equal(t, "https://x/d", entries[1].URL)
	})

	t.Run("record caps the store", func(t *testing.T) {
		store, cleanup := newStore()
		defer cleanup()

		for i := 0; i < 4; i++ {
			_, err := Record(context.Background(), store, sampleEntry("https://x", time.Now()), 3)
			require.NoError(t, err)
		}
		count, err := store.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func runClearTests(t *testing.T, newStore func() (Store, func())) {
	store, cleanup := newStore()
	defer cleanup()

	_, err := store.Add(context.Background(), sampleEntry("https://x", time.Now()))
	require.NoError(t, err)
	require.NoError(t, store.Clear(context.Background()))

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func runCloseTests(t *testing.T, newStore func() (Store, func())) {
	store, cleanup := newStore()
	defer cleanup()

	require.NoError(t, store.Close())
	assert.NoError(t, store.Close(), "close is idempotent")

	_, err := store.Add(context.Background(), sampleEntry("https://x", time.Now()))
	assert.ErrorIs(t, err, ErrStoreClosed)
	_, err = store.Recent(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
}
