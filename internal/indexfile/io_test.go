package indexfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

func TestWriteReadAll(t *testing.T) {
	// Given: two directories and three files
	path := Path(t.TempDir(), "SERIAL1")
	entries := []Entry{
		{Directory, "a"},
		{Directory, "b"},
		{File, "a/1.txt"},
		{File, "b/2.txt"},
		{File, "3.txt"},
	}

	// When: writing and reading back
	require.NoError(t, Write(path, entries))
	got, err := ReadAll(path)

	// Then: the file has one line per entry and decodes identically
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "d*a\nd*b\nf*a/1.txt\nf*b/2.txt\nf*3.txt\n", string(data))
}

func TestWrite_Overwrites(t *testing.T) {
	path := Path(t.TempDir(), "S")
	require.NoError(t, Write(path, []Entry{{File, "old-1"}, {File, "old-2"}}))

	require.NoError(t, Write(path, []Entry{{Directory, "new"}}))

	got, err := ReadAll(path)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Directory, "new"}}, got)
}

func TestWrite_Empty(t *testing.T) {
	path := Path(t.TempDir(), "EMPTY")

	require.NoError(t, Write(path, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestWrite_MissingDirectory_ReturnsIOFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "such", "dir", "S.indx")

	err := Write(path, []Entry{{File, "x"}})

	require.Error(t, err)
	assert.Equal(t, caterrors.ErrCodeWriteFailed, caterrors.GetCode(err))
	assert.Equal(t, caterrors.ExitIO, caterrors.ExitCode(err))
	assert.NoFileExists(t, path)
}

func TestReadAll_Missing_ReturnsNotFound(t *testing.T) {
	_, err := ReadAll(filepath.Join(t.TempDir(), "ghost.indx"))

	require.Error(t, err)
	assert.Equal(t, caterrors.ErrCodeIndexNotFound, caterrors.GetCode(err))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadAll_SkipsMalformedLines(t *testing.T) {
	path := Path(t.TempDir(), "MIXED")
	content := "d*ok\ngarbage\n\nq*unknown\nf*ok/file\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := ReadAll(path)

	require.NoError(t, err)
	assert.Equal(t, []Entry{{Directory, "ok"}, {File, "ok/file"}}, got)
}

func TestStream_CountsSkippedAndStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	r := strings.NewReader("f*1\nbad\nf*2\nf*3\n")

	var seen []string
	skipped, err := Stream(r, func(e Entry) error {
		seen = append(seen, e.Path)
		if e.Path == "2" {
			return stop
		}
		return nil
	})

	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []string{"1", "2"}, seen)
}

func TestStream_LongLines(t *testing.T) {
	long := strings.Repeat("x", 200*1024)
	r := strings.NewReader("f*" + long + "\n")

	var got Entry
	_, err := Stream(r, func(e Entry) error {
		got = e
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, long, got.Path)
}
