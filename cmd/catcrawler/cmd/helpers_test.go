package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/catcrawler/internal/volume"
)

// testEnv isolates config and data directories for one test.
type testEnv struct {
	dataDir   string
	configDir string
	volumes   volume.StaticProvider
	now       time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		dataDir:   t.TempDir(),
		configDir: t.TempDir(),
		now:       time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC),
	}
	t.Setenv("XDG_CONFIG_HOME", env.configDir)
	t.Setenv("CATCRAWLER_DATA_DIR", env.dataDir)
	t.Setenv("NO_COLOR", "1")
	return env
}

// run executes the CLI with args and stdin, returning everything printed.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	a := &app{
		volumes: e.volumes,
		now:     func() time.Time { return e.now },
	}
	cmd := newRootCmd(a)
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	_ = a.close()
	return buf.String(), err
}

func (e *testEnv) indexPath(serial string) string {
	return filepath.Join(e.dataDir, serial+".indx")
}

// makeTree creates a directory with three files in two nested folders.
func makeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"a.txt":          "a",
		"docs/b.txt":     "b",
		"docs/sub/c.txt": "c",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// scanTree catalogs root under serial without prompting.
func (e *testEnv) scanTree(t *testing.T, root, serial string) {
	t.Helper()
	out, err := e.run(t, "", "scan", "--path", root, "--serial", serial, "--name", "Test", "--yes", "--plain")
	require.NoError(t, err, out)
}
