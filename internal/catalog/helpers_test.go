package catalog

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

func openTemp(t *testing.T) (*Catalog, string) {
	t.Helper()
	dir := t.TempDir()
	c, err := Open(context.Background(), Options{Dir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, dir
}

func record(serial string) VolumeRecord {
	return VolumeRecord{
		Serial:     serial,
		Name:       "Vol " + serial,
		FileSystem: "ext4",
		DriveType:  "Local Disk",
		SizeBytes:  1 << 30,
		FreeBytes:  1 << 20,
		RootPath:   "/mnt/" + serial,
		IndexedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// addIndexed writes an index file for rec and adds it to c.
func addIndexed(t *testing.T, c *Catalog, rec VolumeRecord) {
	t.Helper()
	require.NoError(t, indexfile.Write(c.IndexPath(rec.Serial), []indexfile.Entry{{Kind: indexfile.File, Path: "a.txt"}}))
	require.NoError(t, c.Add(context.Background(), rec))
}

// memBackend is an in-memory Backend whose Save can be made to fail.
type memBackend struct {
	saved     []VolumeRecord
	saveErr   error
	destroyed bool
}

func (m *memBackend) Load(context.Context) ([]VolumeRecord, error) {
	return append([]VolumeRecord(nil), m.saved...), nil
}

func (m *memBackend) Save(_ context.Context, records []VolumeRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append([]VolumeRecord(nil), records...)
	return nil
}

func (m *memBackend) Destroy() error {
	m.destroyed = true
	return nil
}

func (m *memBackend) Close() error { return nil }

var errDiskFull = errors.New("disk full")

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
