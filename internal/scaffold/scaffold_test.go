package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stackinit/internal/config"
)

func TestEnsureDirectories(t *testing.T) {
	root := t.TempDir()
	plan := config.Default()

	entries, err := EnsureDirectories(root, plan.Directories)
	require.NoError(t, err)
	require.Len(t, entries, len(plan.Directories))

	for _, e := range entries {
		assert.False(t, e.Existed, "%s should be new on first run", e.Path)
		info, err := os.Stat(filepath.Join(root, e.Path))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureDirectoriesIdempotent(t *testing.T) {
	root := t.TempDir()
	plan := config.Default()

	_, err := EnsureDirectories(root, plan.Directories)
	require.NoError(t, err)

	entries, err := EnsureDirectories(root, plan.Directories)
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, e.Existed, "%s should exist on second run", e.Path)
	}
}

func TestEnsureMarkerFiles(t *testing.T) {
	root := t.TempDir()
	plan := config.Default()

	_, err := EnsureDirectories(root, plan.Directories)
	require.NoError(t, err)

	entries, err := EnsureMarkerFiles(root, plan.MarkerFiles)
	require.NoError(t, err)
	require.Len(t, entries, len(plan.MarkerFiles))

	for _, e := range entries {
		assert.False(t, e.Existed)
		data, err := os.ReadFile(filepath.Join(root, e.Path))
		require.NoError(t, err)
		assert.Empty(t, data, "%s must be empty", e.Path)
	}
}

func TestEnsureMarkerFilesMissingParent(t *testing.T) {
	root := t.TempDir()

	_, err := EnsureMarkerFiles(root, []string{filepath.Join("nope", "__init__.py")})
	require.Error(t, err)
}

func TestSeedEnv(t *testing.T) {
	template := ".env.example"
	live := ".env"

	t.Run("seeds once from template", func(t *testing.T) {
		root := t.TempDir()
		content := []byte("SECRET_KEY=changeme\nAPI_PORT=8000\n")
		require.NoError(t, os.WriteFile(filepath.Join(root, template), content, 0o644))

		status, err := SeedEnv(root, template, live)
		require.NoError(t, err)
		assert.Equal(t, Seeded, status)

		got, err := os.ReadFile(filepath.Join(root, live))
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("never overwrites an existing live file", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, template), []byte("fresh"), 0o644))
		edited := []byte("SECRET_KEY=real-secret\n")
		require.NoError(t, os.WriteFile(filepath.Join(root, live), edited, 0o600))

		status, err := SeedEnv(root, template, live)
		require.NoError(t, err)
		assert.Equal(t, SkippedLiveExists, status)

		got, err := os.ReadFile(filepath.Join(root, live))
		require.NoError(t, err)
		assert.Equal(t, edited, got)
	})

	t.Run("skips when template is absent", func(t *testing.T) {
		root := t.TempDir()

		status, err := SeedEnv(root, template, live)
		require.NoError(t, err)
		assert.Equal(t, SkippedNoTemplate, status)
		_, statErr := os.Stat(filepath.Join(root, live))
		assert.True(t, os.IsNotExist(statErr))
	})
}
