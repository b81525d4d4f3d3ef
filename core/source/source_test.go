package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeReports creates empty files with the given names under dir.
func writeReports(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte{}, 0o644))
	}
}

func TestFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeReports(t, dir,
		"feature_debug-module.json",
		"app_debug-module.json",
		"app_debug-composables.csv",
		"app_debug-composables.txt",
		"app_debug-classes.txt",
		"app_release-composables.txt",
		"app_debug-notes.md",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "raw_debug-classes.txt"), 0o755))

	set, err := FromDirectory(dir, "debug")
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "app_debug-module.json"),
		filepath.Join(dir, "feature_debug-module.json"),
	}, set.Brief)
	assert.Equal(t, []string{filepath.Join(dir, "app_debug-composables.csv")}, set.Detailed)
	assert.Equal(t, []string{filepath.Join(dir, "app_debug-composables.txt")}, set.Functions)
	assert.Equal(t, []string{filepath.Join(dir, "app_debug-classes.txt")}, set.Types)
	assert.Equal(t, 5, set.Len())
}

func TestFromDirectory_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeReports(t, dir, "app_release-composables.txt")

	set, err := FromDirectory(dir, "debug")
	require.NoError(t, err)
	assert.Zero(t, set.Len())
}

func TestFromDirectory_NotDirectory(t *testing.T) {
	dir := t.TempDir()
	writeReports(t, dir, "file.txt")

	_, err := FromDirectory(filepath.Join(dir, "missing"), "debug")
	assert.ErrorIs(t, err, ErrNotDirectory)

	_, err = FromDirectory(filepath.Join(dir, "file.txt"), "debug")
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeReports(t, dir, "a-module.json", "a-classes.txt")
	brief := filepath.Join(dir, "a-module.json")
	types := filepath.Join(dir, "a-classes.txt")

	set, err := FromFiles([]string{brief}, nil, nil, []string{types})
	require.NoError(t, err)
	assert.Equal(t, []string{brief, types}, set.All())

	_, err = FromFiles([]string{brief}, []string{filepath.Join(dir, "gone.csv")}, nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFile)
	assert.Contains(t, err.Error(), "gone.csv")
}

func TestEmpty(t *testing.T) {
	set := Empty()
	assert.Zero(t, set.Len())
	assert.NoError(t, set.Validate())
}

func TestVariantExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, VariantExists(dir, "debug"))
	assert.False(t, VariantExists(filepath.Join(dir, "missing"), ""))

	// A nested raw reports directory is not a baseline
	require.NoError(t, os.Mkdir(filepath.Join(dir, "raw_debug"), 0o755))
	assert.False(t, VariantExists(dir, ""))
	assert.False(t, VariantExists(dir, "debug"))

	writeReports(t, dir, "app_debug-module.json")
	assert.True(t, VariantExists(dir, "debug"))
	assert.True(t, VariantExists(dir, ""))
	assert.False(t, VariantExists(dir, "release"))
}

func TestEnsureVariant(t *testing.T) {
	dir := t.TempDir()

	err := EnsureVariant(dir, "release")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingBaseline))
	assert.Equal(t, "Golden metrics do not exist for variant release! Please generate them using `composeguard generate --variant release`", err.Error())

	err = EnsureVariant(dir, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingBaseline)
	assert.Equal(t, "Golden metrics do not exist! Please generate them using `composeguard generate`", err.Error())

	writeReports(t, dir, "app_release-classes.txt")
	assert.NoError(t, EnsureVariant(dir, "release"))
}
