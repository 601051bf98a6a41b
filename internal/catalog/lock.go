package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

// LockFileName is the advisory lock guarding a data directory.
const LockFileName = "catalog.lock"

// FileLock serializes catalog access across processes using gofrs/flock.
// Writers take it exclusively; readers share it.
type FileLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewFileLock creates a lock for the data directory dir.
func NewFileLock(dir string) *FileLock {
	path := filepath.Join(dir, LockFileName)
	return &FileLock{path: path, flock: flock.New(path)}
}

// TryLock takes the lock without blocking. shared selects a read lock.
// A lock held elsewhere is reported as ERR_402 so the caller can exit cleanly
// instead of waiting on another catcrawler process.
func (l *FileLock) TryLock(shared bool) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lock directory: %w", err)
	}

	var (
		acquired bool
		err      error
	)
	if shared {
		acquired, err = l.flock.TryRLock()
	} else {
		acquired, err = l.flock.TryLock()
	}
	if err != nil {
		return caterrors.New(caterrors.ErrCodeLockFailed, "failed to lock the catalog", err).
			WithDetail("path", l.path)
	}
	if !acquired {
		return caterrors.New(caterrors.ErrCodeLockFailed, "the catalog is in use by another catcrawler process", nil).
			WithDetail("path", l.path).
			WithSuggestion("wait for the other scan or purge to finish and retry")
	}

	l.locked = true
	return nil
}

// Unlock releases the lock. It is safe to call on an unlocked FileLock.
func (l *FileLock) Unlock() error {
	if !l.locked {
		return nil
	}
	l.locked = false
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// IsLocked reports whether this FileLock currently holds the lock.
func (l *FileLock) IsLocked() bool {
	return l.locked
}
