package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	_, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("token", "abc.def.ghi"))
	assert.FileExists(t, filepath.Join(dir, "token"))
	assert.NoFileExists(t, filepath.Join(dir, "token.tmp"))

	reopened, err := NewLocalStore(dir)
	require.NoError(t, err)
	value, ok, err := reopened.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc.def.ghi", value)

	require.NoError(t, reopened.Delete("token"))
	require.NoError(t, reopened.Delete("token"))
	_, ok, err = reopened.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStoreRejectsPathKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, store.Set("../escape", "x"))
	_, _, err = store.Get("")
	assert.Error(t, err)
	assert.Error(t, store.Delete(".."))
}
