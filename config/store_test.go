package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	store := NewFileStore(dir)
	assert.Equal(t, dir, store.Dir())

	t.Run("missing directory reads as not found", func(t *testing.T) {
		_, err := store.Get("cockpit-settings")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, store.Delete("cockpit-settings"))
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set("cockpit-settings", []byte(`{"a":1}`)))
		data, err := store.Get("cockpit-settings")
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(data))

		_, err = os.Stat(filepath.Join(dir, "cockpit-settings.json"))
		assert.NoError(t, err)
		_, err = os.Stat(filepath.Join(dir, "cockpit-settings.json.tmp"))
		assert.True(t, os.IsNotExist(err), "temp file is renamed into place")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get("other")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete("cockpit-settings"))
		_, err := store.Get("cockpit-settings")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, store.Delete("cockpit-settings"))
	})

	t.Run("rejects path-like keys", func(t *testing.T) {
		assert.Error(t, store.Set("../escape", []byte(`{}`)))
		_, err := store.Get("a/b")
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))
	})
}

func TestFileStoreModTime(t *testing.T) {
	store := NewFileStore(t.TempDir())

	_, err := store.ModTime("cockpit-settings")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, NeedsRefresh(store, "cockpit-settings", time.Time{}))

	require.NoError(t, store.Set("cockpit-settings", []byte(`{}`)))
	mt, err := store.ModTime("cockpit-settings")
	require.NoError(t, err)

	assert.True(t, NeedsRefresh(store, "cockpit-settings", mt.Add(-time.Second)))
	assert.False(t, NeedsRefresh(store, "cockpit-settings", mt))
	assert.False(t, NeedsRefresh(NewMemoryStore(), "cockpit-settings", time.Time{}))
}

func TestFileLock(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "locks")
	lock := NewFileLock(dir)
	assert.Equal(t, filepath.Join(dir, lockFileName), lock.Path())

	require.NoError(t, lock.Lock())
	require.NoError(t, lock.Unlock())

	require.NoError(t, lock.RLock())
	other := NewFileLock(dir)
	require.NoError(t, other.RLock(), "shared locks coexist")
	require.NoError(t, other.Unlock())
	require.NoError(t, lock.Unlock())
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	value := []byte(`{"x":1}`)
	require.NoError(t, store.Set("k", value))
	value[0] = 'X'

	got, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, string(got), "stored bytes are copied")

	boom := errors.New("boom")
	store.SetErr(boom)
	_, err = store.Get("k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, store.Set("k", nil), boom)
	assert.ErrorIs(t, store.Delete("k"), boom)

	store.SetErr(nil)
	require.NoError(t, store.Delete("k"))
	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}
