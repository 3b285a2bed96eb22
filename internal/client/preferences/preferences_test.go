package preferences

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-complaints/pkg/storage"
)

func TestDarkModeToggleSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	kv, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	prefs := New(kv)

	on, err := prefs.DarkMode()
	require.NoError(t, err)
	assert.False(t, on)

	on, err = prefs.ToggleDarkMode()
	require.NoError(t, err)
	assert.True(t, on)

	reloaded, err := storage.NewLocalStore(dir)
	require.NoError(t, err)
	on, err = New(reloaded).DarkMode()
	require.NoError(t, err)
	assert.True(t, on)

	on, err = New(reloaded).ToggleDarkMode()
	require.NoError(t, err)
	assert.False(t, on)
}
