package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/composeguard/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		expected string
	}{
		{
			name: "simple object",
			data: map[string]any{"name": "test", "value": 42},
			expected: `{
  "name": "test",
  "value": 42
}
`,
		},
		{
			name:     "empty array",
			data:     []string{},
			expected: "[]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, tt.data))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"variant": "debug", "items": []string{"a", "b"}}
	require.NoError(t, writeYAML(&buf, data))
	assert.Equal(t, "items:\n  - a\n  - b\nvariant: debug\n", buf.String())
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"a", "b"}, func(w *csv.Writer) error {
		return w.Write([]string{"1", "two, with comma"})
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a,b", lines[0])
	assert.Equal(t, `1,"two, with comma"`, lines[1])
}

func TestWriteWithFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "out.txt")
	err := writeWithFile(outputFile, func(w io.Writer) error {
		_, err := w.Write([]byte("hello"))
		return err
	}, "Wrote text")
	require.NoError(t, err)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestWriteWithFile_InvalidPath(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "missing", "out.txt")
	err := writeWithFile(outputFile, func(w io.Writer) error { return nil }, "Wrote text")
	assert.Error(t, err)
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "yes", yesNo(true))
	assert.Equal(t, "no", yesNo(false))
}

func TestGetMaxCellWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		expected int
	}{
		{"narrow override clamps to minimum", 50, 20},
		{"regular override", 120, 75},
		{"wide override clamps to maximum", 400, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetMaxCellWidth(&contract.Config{Width: tt.width}))
		})
	}

	// Auto-detection always lands inside the clamp range
	width := GetMaxCellWidth(&contract.Config{})
	assert.GreaterOrEqual(t, width, 20)
	assert.LessOrEqual(t, width, 100)
}
