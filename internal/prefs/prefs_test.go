package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("theme", "light"))
	v, ok, err := s.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.hcl")

	first := NewFileStore(path)
	require.NoError(t, first.Set(ThemeKey, "light"))
	require.NoError(t, first.Set("volume", "low"))

	second := NewFileStore(path)
	v, ok, err := second.Get(ThemeKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "light", v)

	src, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Regexp(t, `theme\s+= "light"`, string(src))
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "none.hcl"))
	_, ok, err := s.Get(ThemeKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.hcl")
	require.NoError(t, os.WriteFile(path, []byte("theme = "), 0o644))

	_, _, err := NewFileStore(path).Get(ThemeKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse prefs")
}

func TestTheme(t *testing.T) {
	t.Run("fallback when unset", func(t *testing.T) {
		theme, err := LoadTheme(NewMemoryStore(), Dark)
		require.NoError(t, err)
		assert.Equal(t, Dark, theme)
	})

	t.Run("fallback when unrecognised", func(t *testing.T) {
		s := NewMemoryStore()
		require.NoError(t, s.Set(ThemeKey, "sepia"))
		theme, err := LoadTheme(s, Light)
		require.NoError(t, err)
		assert.Equal(t, Light, theme)
	})

	t.Run("toggle writes through", func(t *testing.T) {
		s := NewFileStore(filepath.Join(t.TempDir(), "prefs.hcl"))

		theme, err := ToggleTheme(s, Dark)
		require.NoError(t, err)
		assert.Equal(t, Light, theme)

		loaded, err := LoadTheme(s, Dark)
		require.NoError(t, err)
		assert.Equal(t, Light, loaded)

		theme, err = ToggleTheme(s, theme)
		require.NoError(t, err)
		assert.Equal(t, Dark, theme)
	})

	t.Run("parse", func(t *testing.T) {
		_, err := ParseTheme("blue")
		assert.Error(t, err)
		theme, err := ParseTheme("light")
		require.NoError(t, err)
		assert.Equal(t, Light, theme)
	})
}
