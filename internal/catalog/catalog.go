package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// StoreFileName is the catalog database inside the data directory.
const StoreFileName = "local.db"

// Options configures Open.
type Options struct {
	// Dir is the data directory holding the lock and the catalog store.
	Dir string
	// IndexDir holds <serial>.indx files (default: Dir).
	IndexDir string
	// ReadOnly takes a shared lock; mutating calls then fail.
	ReadOnly bool
}

// Catalog is the in-memory, ordered set of volume records.
// Every mutation is persisted through the Backend before it returns.
type Catalog struct {
	mu       sync.RWMutex
	records  []VolumeRecord
	backend  Backend
	indexDir string
	lock     *FileLock
	readOnly bool
	closed   bool
}

// Open locks the data directory and loads the catalog stored there.
// A missing store opens as an empty catalog; an unreadable one fails with a
// corrupt-catalog error and is left on disk untouched.
func Open(ctx context.Context, opts Options) (*Catalog, error) {
	if opts.IndexDir == "" {
		opts.IndexDir = opts.Dir
	}

	lock := NewFileLock(opts.Dir)
	if err := lock.TryLock(opts.ReadOnly); err != nil {
		return nil, err
	}

	backend, err := OpenSQLite(ctx, filepath.Join(opts.Dir, StoreFileName))
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	c, err := Load(ctx, backend, opts.IndexDir)
	if err != nil {
		_ = backend.Close()
		_ = lock.Unlock()
		return nil, err
	}
	c.lock = lock
	c.readOnly = opts.ReadOnly
	return c, nil
}

// Load reads every record from backend. The caller owns locking.
func Load(ctx context.Context, backend Backend, indexDir string) (*Catalog, error) {
	records, err := backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	slog.Debug("catalog_loaded", slog.Int("volumes", len(records)))
	return &Catalog{records: records, backend: backend, indexDir: indexDir}, nil
}

// Close releases the backend and the lock.
func (c *Catalog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	var err error
	if c.backend != nil {
		err = c.backend.Close()
	}
	if c.lock != nil {
		if uerr := c.lock.Unlock(); err == nil {
			err = uerr
		}
	}
	return err
}

// IndexDir returns the directory holding index files.
func (c *Catalog) IndexDir() string {
	return c.indexDir
}

// IndexPath returns the index file path for serial.
func (c *Catalog) IndexPath(serial string) string {
	return indexfile.Path(c.indexDir, serial)
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// Records returns a copy of every record in catalog order.
func (c *Catalog) Records() []VolumeRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]VolumeRecord(nil), c.records...)
}

// At returns the record at position i.
func (c *Catalog) At(i int) (VolumeRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i < 0 || i >= len(c.records) {
		return VolumeRecord{}, caterrors.New(caterrors.ErrCodeInvalidIndex,
			fmt.Sprintf("no volume at index %d (catalog has %d)", i, len(c.records)), nil).
			WithSuggestion("run 'catcrawler print' to list indexed volumes")
	}
	return c.records[i], nil
}

// FindBySerial returns the position of the record with serial.
func (c *Catalog) FindBySerial(serial string) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.find(serial)
}

func (c *Catalog) find(serial string) (int, bool) {
	for i := range c.records {
		if c.records[i].Serial == serial {
			return i, true
		}
	}
	return -1, false
}

func (c *Catalog) writable() error {
	if c.closed {
		return caterrors.InternalError("catalog is closed", nil)
	}
	if c.readOnly {
		return caterrors.InternalError("catalog was opened read-only", nil)
	}
	return nil
}

// Add appends rec and persists the catalog. A record with the same serial
// must not already exist.
func (c *Catalog) Add(ctx context.Context, rec VolumeRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writable(); err != nil {
		return err
	}
	if err := indexfile.ValidateSerial(rec.Serial); err != nil {
		return caterrors.ValidationError(
			fmt.Sprintf("volume serial %q cannot be used as an index file name", rec.Serial), err).
			WithDetail("serial", rec.Serial)
	}
	if _, ok := c.find(rec.Serial); ok {
		return caterrors.New(caterrors.ErrCodeDuplicateVolume,
			fmt.Sprintf("volume %s is already in the catalog", rec.Serial), nil).
			WithDetail("serial", rec.Serial)
	}

	next := append(append([]VolumeRecord(nil), c.records...), rec)
	if err := c.backend.Save(ctx, next); err != nil {
		return err
	}
	c.records = next

	slog.Info("volume_added", slog.String("serial", rec.Serial), slog.String("root", rec.RootPath))
	return nil
}

// Remove deletes the index file of serial and then its record.
// If the file cannot be deleted the record stays and an IO error is returned.
// An index file that is already gone is tolerated.
func (c *Catalog) Remove(ctx context.Context, serial string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writable(); err != nil {
		return err
	}
	return c.remove(ctx, serial)
}

func (c *Catalog) remove(ctx context.Context, serial string) error {
	pos, ok := c.find(serial)
	if !ok {
		return caterrors.NotFound(fmt.Sprintf("no volume with serial %s", serial), nil).
			WithDetail("serial", serial)
	}

	path := indexfile.Path(c.indexDir, serial)
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			return caterrors.New(caterrors.ErrCodeDeleteFailed,
				fmt.Sprintf("failed to delete index file %s", path), err).
				WithDetail("serial", serial)
		}
		slog.Warn("index_file_already_missing", slog.String("serial", serial), slog.String("path", path))
	}

	next := make([]VolumeRecord, 0, len(c.records)-1)
	next = append(next, c.records[:pos]...)
	next = append(next, c.records[pos+1:]...)
	if err := c.backend.Save(ctx, next); err != nil {
		// The record now points at a missing file; `check` reports it.
		return err
	}
	c.records = next

	slog.Info("volume_removed", slog.String("serial", serial))
	return nil
}

// Update applies mutate to the record with serial and persists the catalog.
// Only Description and IndexedAt may change.
func (c *Catalog) Update(ctx context.Context, serial string, mutate Mutation) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writable(); err != nil {
		return err
	}
	pos, ok := c.find(serial)
	if !ok {
		return caterrors.NotFound(fmt.Sprintf("no volume with serial %s", serial), nil).
			WithDetail("serial", serial)
	}

	updated := c.records[pos]
	mutate(&updated)
	if !sameSnapshot(updated, c.records[pos]) {
		return caterrors.ValidationError(
			fmt.Sprintf("volume %s: only description and indexed time can change after a scan", serial), nil)
	}

	next := append([]VolumeRecord(nil), c.records...)
	next[pos] = updated
	if err := c.backend.Save(ctx, next); err != nil {
		return err
	}
	c.records = next
	return nil
}

// PurgeReport describes what PurgeAll did.
type PurgeReport struct {
	Removed []string
	// StoreErr is set when the backing store could not be deleted. It is
	// reported, not returned, because every record is already gone.
	StoreErr error
}

// PurgeAll removes every record with Remove semantics and then deletes the
// backing store. The catalog is closed afterwards.
func (c *Catalog) PurgeAll(ctx context.Context) (*PurgeReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.writable(); err != nil {
		return nil, err
	}

	report := &PurgeReport{}
	for len(c.records) > 0 {
		serial := c.records[0].Serial
		if err := c.remove(ctx, serial); err != nil {
			return report, err
		}
		report.Removed = append(report.Removed, serial)
	}

	if err := c.backend.Destroy(); err != nil {
		slog.Warn("catalog_store_delete_failed", caterrors.FormatForLog(err)...)
		report.StoreErr = err
	}
	c.backend = nil
	c.closed = true
	if c.lock != nil {
		_ = c.lock.Unlock()
	}

	slog.Info("catalog_purged", slog.Int("volumes", len(report.Removed)))
	return report, nil
}

// ForcePurge discards a catalog that cannot be opened: it deletes the store
// and every index file in indexDir without reading either.
func ForcePurge(dir, indexDir string) (*PurgeReport, error) {
	if indexDir == "" {
		indexDir = dir
	}
	lock := NewFileLock(dir)
	if err := lock.TryLock(false); err != nil {
		return nil, err
	}
	defer lock.Unlock()

	report := &PurgeReport{}
	serials, err := listIndexSerials(indexDir)
	if err != nil {
		return nil, err
	}
	for _, serial := range serials {
		path := indexfile.Path(indexDir, serial)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return report, caterrors.New(caterrors.ErrCodeDeleteFailed,
				fmt.Sprintf("failed to delete index file %s", path), err)
		}
		report.Removed = append(report.Removed, serial)
	}

	if err := RemoveStore(filepath.Join(dir, StoreFileName)); err != nil {
		report.StoreErr = err
	}
	slog.Warn("catalog_force_purged", slog.Int("index_files", len(report.Removed)))
	return report, nil
}

// listIndexSerials returns the serials of every index file in dir.
func listIndexSerials(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, caterrors.New(caterrors.ErrCodeReadFailed,
			fmt.Sprintf("failed to list %s", dir), err)
	}
	var serials []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if serial, ok := indexfile.SerialFromFileName(e.Name()); ok {
			serials = append(serials, serial)
		}
	}
	return serials, nil
}
