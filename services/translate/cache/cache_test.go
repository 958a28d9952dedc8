package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewKey(t *testing.T) {
	src := []byte("let a = 1;")

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, NewKey(src, "indent=2"), NewKey(src, "indent=2"))
	})

	t.Run("fingerprint changes key", func(t *testing.T) {
		assert.NotEqual(t, NewKey(src, "indent=2"), NewKey(src, "indent=4"))
	})

	t.Run("source changes key", func(t *testing.T) {
		assert.NotEqual(t, NewKey(src, ""), NewKey([]byte("let a = 2;"), ""))
	})

	t.Run("boundary between fingerprint and source", func(t *testing.T) {
		assert.NotEqual(t, NewKey([]byte("bc"), "a"), NewKey([]byte("c"), "ab"))
	})

	t.Run("hex string", func(t *testing.T) {
		assert.Len(t, NewKey(src, "").String(), 64)
	})
}

func TestStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	key := NewKey([]byte("let a = 1;"), "")

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, key, Entry{Output: "a = 1", Path: "a.js"}))

	entry, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a = 1", entry.Output)
	assert.Equal(t, "a.js", entry.Path)
	assert.False(t, entry.CreatedAt.IsZero())

	assert.Equal(t, Stats{Hits: 1, Misses: 1, Writes: 1}, s.Stats())
}

func TestStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	key := NewKey([]byte("x"), "")

	require.NoError(t, s.Put(ctx, key, Entry{Output: "first"}))
	require.NoError(t, s.Put(ctx, key, Entry{Output: "second"}))

	entry, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "second", entry.Output)

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	key := NewKey([]byte("x"), "")

	require.NoError(t, s.Delete(ctx, key), "deleting a missing key")
	require.NoError(t, s.Put(ctx, key, Entry{Output: "x"}))
	require.NoError(t, s.Delete(ctx, key))

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_TTL(t *testing.T) {
	ctx := context.Background()
	cfg := InMemoryConfig()
	cfg.TTL = time.Second
	s, err := Open(cfg)
	require.NoError(t, err)
	defer s.Close()

	key := NewKey([]byte("x"), "")
	require.NoError(t, s.Put(ctx, key, Entry{Output: "x"}))

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, found)

	// Badger TTLs have second granularity.
	time.Sleep(2100 * time.Millisecond)

	_, found, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := NewKey([]byte("let a = 1;"), "")

	s, err := Open(Config{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, key, Entry{Output: "a = 1"}))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	entry, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a = 1", entry.Output)
}

func TestOpen_PersistentRequiresPath(t *testing.T) {
	_, err := Open(Config{})
	require.Error(t, err)
}

func TestStore_Closed(t *testing.T) {
	ctx := context.Background()
	s, err := OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "second close is a no-op")

	key := NewKey([]byte("x"), "")
	_, _, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Put(ctx, key, Entry{}), ErrClosed)
	assert.ErrorIs(t, s.Delete(ctx, key), ErrClosed)
	_, err = s.Len(ctx)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestStore_CanceledContext(t *testing.T) {
	s := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	key := NewKey([]byte("x"), "")
	_, _, err := s.Get(ctx, key)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Put(ctx, key, Entry{}), context.Canceled)
}

func TestStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := NewKey([]byte{byte(i)}, "")
			assert.NoError(t, s.Put(ctx, key, Entry{Output: "x"}))
			_, found, err := s.Get(ctx, key)
			assert.NoError(t, err)
			assert.True(t, found)
		}(i)
	}
	wg.Wait()

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestGCRunner_StopIsIdempotent(t *testing.T) {
	db, err := openDB(Config{Path: t.TempDir()})
	require.NoError(t, err)
	defer db.Close()

	r := newGCRunner(db, 10*time.Millisecond, 0, nil)
	assert.Equal(t, 0.5, r.ratio)
	r.start()
	time.Sleep(30 * time.Millisecond)
	r.stop()
	r.stop()
}
