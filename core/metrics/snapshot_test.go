package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/composeguard/core/source"
	"github.com/huangsam/composeguard/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	functionsReport = `restartable skippable fun Header(
  stable title: String
  unstable items: Items? = @dynamic remember()
)
restartable fun Body(
  unstable items: Items
)
restartable fun (
)`
	typesReport = `unstable class Items {
  unstable var list: MutableList<String>
  <runtime stability> = Unstable
}
stable class Title {
  stable val text: String
}`
)

// writeFile writes content to name under dir and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app_debug-module.json", `{"totalComposables": 2, "skippableComposables": 1}`)
	writeFile(t, dir, "lib_debug-module.json", `{"totalComposables": 3}`)
	writeFile(t, dir, "app_debug-composables.csv", "name,skippable,\nHeader,1,\nBody,0,\n")
	writeFile(t, dir, "app_debug-composables.txt", functionsReport)
	writeFile(t, dir, "app_debug-classes.txt", typesReport)

	snap, err := LoadDirectory(dir, "debug")
	require.NoError(t, err)

	assert.Equal(t, schema.SummaryCounters{"totalComposables": 5, "skippableComposables": 1}, snap.Counters())
	assert.Len(t, snap.DetailedStats(), 2)

	functions := snap.Functions()
	require.Len(t, functions.Functions, 2)
	assert.Len(t, functions.Errors, 1)
	assert.Len(t, snap.Types().Types, 2)
	assert.Len(t, snap.ParseErrors(), 1)

	summary := snap.Summary("debug", schema.CurrentSide)
	assert.Equal(t, "debug", summary.Variant)
	assert.Equal(t, schema.CurrentSide, summary.Side)
	assert.Equal(t, 2, summary.Functions)
	assert.Equal(t, 1, summary.RestartableButNotSkippable)
	assert.Equal(t, 2, summary.Types)
	assert.Equal(t, 1, summary.UnstableTypes)
	assert.Equal(t, 2, summary.UnstableParams)
	assert.Equal(t, 1, summary.DynamicDefaults)
	assert.Equal(t, 1, summary.ParseErrors)
	assert.Equal(t, 2, summary.DetailedRows)
}

func TestLoad_RecordsDoNotSpanFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a_debug-composables.txt", "restartable fun A(\n  stable x: Int\n)")
	b := writeFile(t, dir, "b_debug-composables.txt", "  stable stray: Int\nrestartable fun B()")

	set, err := source.FromFiles(nil, nil, []string{a, b}, nil)
	require.NoError(t, err)
	snap, err := Load(set)
	require.NoError(t, err)

	functions := snap.Functions().Functions
	require.Len(t, functions, 2)
	assert.Len(t, functions[0].Params, 1)
	assert.Empty(t, functions[1].Params)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("malformed brief stats", func(t *testing.T) {
		bad := writeFile(t, dir, "bad-module.json", `{"a": [1]}`)
		set, err := source.FromFiles([]string{bad}, nil, nil, nil)
		require.NoError(t, err)
		_, err = Load(set)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "brief stats")
	})

	t.Run("file removed after scan", func(t *testing.T) {
		path := writeFile(t, dir, "gone-classes.txt", typesReport)
		set, err := source.FromFiles(nil, nil, nil, []string{path})
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))
		_, err = Load(set)
		assert.ErrorIs(t, err, source.ErrMissingFile)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := LoadDirectory(filepath.Join(dir, "nope"), "debug")
		assert.ErrorIs(t, err, source.ErrNotDirectory)
	})
}

func TestEmpty(t *testing.T) {
	snap := Empty()
	assert.Empty(t, snap.Counters())
	assert.Empty(t, snap.DetailedStats())
	assert.Empty(t, snap.Functions().Functions)
	assert.Empty(t, snap.Types().Types)
	assert.Empty(t, snap.ParseErrors())

	loaded, err := Load(source.Empty())
	require.NoError(t, err)
	assert.Equal(t, snap.Summary("", schema.GoldenSide), loaded.Summary("", schema.GoldenSide))
}

func TestAccessorsReturnCopies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app_debug-module.json", `{"totalComposables": 2}`)
	writeFile(t, dir, "app_debug-composables.txt", functionsReport)
	writeFile(t, dir, "app_debug-classes.txt", typesReport)

	snap, err := LoadDirectory(dir, "debug")
	require.NoError(t, err)

	counters := snap.Counters()
	counters["totalComposables"] = 99
	assert.Equal(t, int64(2), snap.Counters()["totalComposables"])

	functions := snap.Functions()
	functions.Functions[0].Name = "Mutated"
	functions.Functions[0].Params[0].Stability = schema.Missing
	again := snap.Functions()
	assert.Equal(t, "Header", again.Functions[0].Name)
	assert.Equal(t, schema.Stable, again.Functions[0].Params[0].Stability)

	types := snap.Types()
	*types.Types[0].RuntimeStability = schema.Stable
	types.Types[0].Fields[0].Detail = "changed"
	fresh := snap.Types()
	assert.Equal(t, schema.Unstable, *fresh.Types[0].RuntimeStability)
	assert.Equal(t, "var list: MutableList<String>", fresh.Types[0].Fields[0].Detail)
}
