//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	// sharedBinaryPath holds the path to a shared composeguard binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

const stableFunctions = `restartable skippable fun Avatar(
  stable url: String
)
`

const regressedFunctions = `restartable skippable fun Avatar(
  stable url: String
)
restartable fun Feed(
  unstable items: List<Item>
)
`

const stableClasses = `stable class Item {
  stable val id: String
  <runtime stability> = Stable
}
`

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getBinary returns the path to the composeguard binary, building it once if needed.
func getBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "composeguard-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binaryPath := filepath.Join(tempDir, "composeguard")
		buildCmd := exec.Command("go", "build", "-o", binaryPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		if out, err := buildCmd.CombinedOutput(); err != nil {
			panic(fmt.Sprintf("failed to build composeguard: %v\n%s", err, out))
		}

		sharedBinaryPath = binaryPath
	})

	return sharedBinaryPath
}

// workspace is a throwaway module directory with golden and raw report folders.
type workspace struct {
	root   string
	golden string
	raw    string
	env    []string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	return &workspace{
		root:   root,
		golden: filepath.Join(root, "build", "compose_reports"),
		raw:    filepath.Join(root, "build", "compose_reports", "raw"),
		// HOME keeps the default SQLite history file inside the workspace
		env: append(os.Environ(), "HOME="+root, "COMPOSEGUARD_COLOR=no"),
	}
}

// writeReports writes the four compiler reports of a variant into dir.
func writeReports(t *testing.T, dir, variant, functions string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	prefix := "app_" + variant
	files := map[string]string{
		prefix + "-module.json":     `{"skippableComposables": 1, "restartableComposables": 2}`,
		prefix + "-composables.csv": "package,name,composable\ncom.example.Avatar,Avatar,1\n",
		prefix + "-composables.txt": functions,
		prefix + "-classes.txt":     stableClasses,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

// run executes composeguard inside the workspace and returns its combined output.
func (w *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(getBinary(), args...)
	cmd.Dir = w.root
	cmd.Env = w.env
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}
