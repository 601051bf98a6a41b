package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

// SchemaVersion is the catalog layout written by this build.
const SchemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS volumes (
	position    INTEGER NOT NULL,
	serial      TEXT    NOT NULL UNIQUE,
	name        TEXT    NOT NULL DEFAULT '',
	file_system TEXT    NOT NULL DEFAULT '',
	drive_type  TEXT    NOT NULL DEFAULT '',
	size_bytes  INTEGER NOT NULL DEFAULT 0,
	free_bytes  INTEGER NOT NULL DEFAULT 0,
	root_path   TEXT    NOT NULL DEFAULT '',
	description TEXT    NOT NULL DEFAULT '',
	indexed_at  INTEGER
);

INSERT OR IGNORE INTO schema_version (version) VALUES (1);
`

// SQLiteBackend stores the catalog in a single SQLite database file.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

var _ Backend = (*SQLiteBackend)(nil)

// OpenSQLite opens the catalog database at path, creating it when missing.
// An existing file that fails validation is reported as a corrupt catalog and
// left untouched.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, caterrors.New(caterrors.ErrCodeWriteFailed,
			fmt.Sprintf("failed to create catalog directory %s", filepath.Dir(path)), err)
	}

	fresh, err := isFresh(path)
	if err != nil {
		return nil, caterrors.New(caterrors.ErrCodeReadFailed,
			fmt.Sprintf("failed to stat catalog %s", path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, caterrors.New(caterrors.ErrCodeReadFailed, "failed to open catalog", err)
	}

	// Single writer, single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	b := &SQLiteBackend{db: db, path: path}

	if !fresh {
		if err := b.validate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = FULL",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, classifyOpenError(path, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, classifyOpenError(path, err)
	}

	return b, nil
}

// isFresh reports whether path is absent or empty, i.e. no catalog yet.
func isFresh(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return info.Size() == 0, nil
}

// validate checks an existing database before anything is written to it.
func (b *SQLiteBackend) validate(ctx context.Context) error {
	var result string
	if err := b.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return classifyOpenError(b.path, err)
	}
	if result != "ok" {
		return caterrors.Corrupt(fmt.Sprintf("catalog %s failed integrity check: %s", b.path, result), nil).
			WithDetail("path", b.path)
	}

	var tables int
	err := b.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name IN ('schema_version', 'volumes')`).Scan(&tables)
	if err != nil {
		return classifyOpenError(b.path, err)
	}
	if tables != 2 {
		return caterrors.Corrupt(fmt.Sprintf("catalog %s is missing its tables", b.path), nil).
			WithDetail("path", b.path)
	}

	var version sql.NullInt64
	if err := b.db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version); err != nil {
		return classifyOpenError(b.path, err)
	}
	if !version.Valid {
		return caterrors.Corrupt(fmt.Sprintf("catalog %s has no schema version", b.path), nil).
			WithDetail("path", b.path)
	}
	if version.Int64 != SchemaVersion {
		return caterrors.New(caterrors.ErrCodeUnsupportedVersion,
			fmt.Sprintf("catalog %s has schema version %d, this build reads version %d", b.path, version.Int64, SchemaVersion), nil).
			WithDetail("path", b.path).
			WithSuggestion("upgrade catcrawler, or run 'catcrawler purge --force' to start a new catalog")
	}
	return nil
}

// classifyOpenError separates "this is not a catalog" from ordinary I/O errors.
func classifyOpenError(path string, err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not a database") ||
		strings.Contains(msg, "malformed") ||
		strings.Contains(msg, "corrupt") {
		return caterrors.Corrupt(fmt.Sprintf("catalog %s is unreadable", path), err).
			WithDetail("path", path)
	}
	return caterrors.New(caterrors.ErrCodeReadFailed,
		fmt.Sprintf("failed to open catalog %s", path), err)
}

// Load returns every record ordered by position.
func (b *SQLiteBackend) Load(ctx context.Context) ([]VolumeRecord, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT serial, name, file_system, drive_type, size_bytes, free_bytes,
		       root_path, description, indexed_at
		FROM volumes ORDER BY position`)
	if err != nil {
		return nil, classifyOpenError(b.path, err)
	}
	defer rows.Close()

	var records []VolumeRecord
	for rows.Next() {
		var (
			r         VolumeRecord
			size      int64
			free      int64
			indexedAt sql.NullInt64
		)
		if err := rows.Scan(&r.Serial, &r.Name, &r.FileSystem, &r.DriveType, &size, &free,
			&r.RootPath, &r.Description, &indexedAt); err != nil {
			return nil, caterrors.Corrupt(fmt.Sprintf("catalog %s has an unreadable row", b.path), err)
		}
		r.SizeBytes = uint64(size)
		r.FreeBytes = uint64(free)
		if indexedAt.Valid {
			r.IndexedAt = time.Unix(0, indexedAt.Int64)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyOpenError(b.path, err)
	}
	return records, nil
}

// Save replaces every row inside one transaction.
func (b *SQLiteBackend) Save(ctx context.Context, records []VolumeRecord) (err error) {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return saveError(b.path, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM volumes"); err != nil {
		return saveError(b.path, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO volumes (position, serial, name, file_system, drive_type,
		                     size_bytes, free_bytes, root_path, description, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return saveError(b.path, err)
	}
	defer stmt.Close()

	for i, r := range records {
		var indexedAt any
		if !r.IndexedAt.IsZero() {
			indexedAt = r.IndexedAt.UnixNano()
		}
		if _, err = stmt.ExecContext(ctx, i, r.Serial, r.Name, r.FileSystem, r.DriveType,
			int64(r.SizeBytes), int64(r.FreeBytes), r.RootPath, r.Description, indexedAt); err != nil {
			return saveError(b.path, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return saveError(b.path, err)
	}
	return nil
}

func saveError(path string, err error) error {
	return caterrors.New(caterrors.ErrCodeWriteFailed,
		fmt.Sprintf("failed to save catalog %s", path), err).
		WithDetail("path", path)
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	return err
}

// Destroy closes the database and removes it along with its WAL files.
func (b *SQLiteBackend) Destroy() error {
	_ = b.Close()
	return RemoveStore(b.path)
}

// RemoveStore deletes a catalog database and its WAL side files.
// A store that is already gone is not an error.
func RemoveStore(path string) error {
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(path + suffix); err != nil && !os.IsNotExist(err) {
			slog.Warn("catalog_sidecar_remove_failed",
				slog.String("path", path+suffix),
				slog.String("error", err.Error()))
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return caterrors.New(caterrors.ErrCodeDeleteFailed,
			fmt.Sprintf("failed to delete catalog %s", path), err)
	}
	return nil
}
