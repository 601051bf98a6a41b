package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// makeTree creates files (paths ending without "/") and directories (ending with "/") under root.
func makeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		if p[len(p)-1] == '/' {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}

func TestScan_ThreeFilesTwoFolders(t *testing.T) {
	// Given: a tree with 2 folders and 3 files
	root := t.TempDir()
	makeTree(t, root, "docs/report.txt", "docs/notes.md", "music/", "top.txt")

	// When: scanning
	res, err := Scan(context.Background(), root, Options{})

	// Then: every entry appears once, relative to the root
	require.NoError(t, err)
	assert.Equal(t, []string{"docs", "music"}, sorted(res.Directories))
	assert.Equal(t, []string{
		filepath.Join("docs", "notes.md"),
		filepath.Join("docs", "report.txt"),
		"top.txt",
	}, sorted(res.Files))
	assert.Equal(t, 5, res.Total())
	assert.Equal(t, 0, res.Skipped)
}

func TestScan_ExcludedSubtreeNotDescended(t *testing.T) {
	// Given: a recycle bin with nested content and an excluded file name
	root := t.TempDir()
	makeTree(t, root,
		"$RECYCLE.BIN/deleted/report.txt",
		"keep/report.txt",
		"keep/Thumbs.db",
	)

	// When: scanning with exclusions
	var dirsSeen []string
	res, err := Scan(context.Background(), root, Options{Exclude: []string{"$RECYCLE.BIN", "Thumbs.db"}})
	require.NoError(t, err)
	dirsSeen = res.Directories

	// Then: nothing under the excluded folder appears
	assert.Equal(t, []string{"keep"}, dirsSeen)
	assert.Equal(t, []string{filepath.Join("keep", "report.txt")}, res.Files)
}

func TestScan_ExclusionMatchesNameAtAnyDepth(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a/b/System Volume Information/x", "a/b/y")

	res, err := Scan(context.Background(), root, Options{Exclude: []string{"System Volume Information"}})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", filepath.Join("a", "b")}, sorted(res.Directories))
	assert.Equal(t, []string{filepath.Join("a", "b", "y")}, res.Files)
}

func TestScan_SymlinkNotFollowed(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	// Given: a directory containing a link back to the root
	root := t.TempDir()
	makeTree(t, root, "dir/file.txt")
	require.NoError(t, os.Symlink(root, filepath.Join(root, "dir", "loop")))

	// When: scanning
	res, err := Scan(context.Background(), root, Options{})

	// Then: the link is a plain entry and the walk terminates
	require.NoError(t, err)
	assert.Equal(t, []string{"dir"}, res.Directories)
	assert.Equal(t, []string{filepath.Join("dir", "file.txt"), filepath.Join("dir", "loop")}, sorted(res.Files))
}

func TestScan_EmptyRoot(t *testing.T) {
	res, err := Scan(context.Background(), t.TempDir(), Options{})

	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Empty(t, res.Directories)
	assert.Empty(t, res.Entries())
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := Scan(context.Background(), filepath.Join(t.TempDir(), "gone"), Options{})

	require.Error(t, err)
	assert.Equal(t, caterrors.ErrCodeVolumeNotFound, caterrors.GetCode(err))
}

func TestScan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "f.txt")

	_, err := Scan(context.Background(), filepath.Join(root, "f.txt"), Options{})

	require.Error(t, err)
	assert.Equal(t, caterrors.ExitValidation, caterrors.ExitCode(err))
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a/1", "b/2")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Scan(ctx, root, Options{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestScan_ReportsProgress(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a/1", "a/2", "b/3")

	var calls [][2]int
	_, err := Scan(context.Background(), root, Options{
		ProgressEvery: 2,
		Progress: func(dirs, files int) {
			calls = append(calls, [2]int{dirs, files})
		},
	})

	require.NoError(t, err)
	// 5 entries at every 2 gives two running calls plus the final total
	require.Len(t, calls, 3)
	assert.Equal(t, [2]int{2, 3}, calls[2])
}

func TestResult_Entries_DirectoriesFirst(t *testing.T) {
	res := &Result{Files: []string{"a/x"}, Directories: []string{"a"}}

	assert.Equal(t, []indexfile.Entry{
		{Kind: indexfile.Directory, Path: "a"},
		{Kind: indexfile.File, Path: "a/x"},
	}, res.Entries())
}
