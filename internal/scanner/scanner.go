package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

const defaultProgressEvery = 1000

// Scanner walks directory trees with a fixed set of options.
type Scanner struct {
	exclude       map[string]struct{}
	progress      func(dirs, files int)
	progressEvery int
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = struct{}{}
	}
	every := opts.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}
	return &Scanner{exclude: exclude, progress: opts.Progress, progressEvery: every}
}

// Scan is shorthand for New(opts).Scan(ctx, root).
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	return New(opts).Scan(ctx, root)
}

// Scan walks root recursively. Symbolic links are reported as files and never
// followed, so the walk always terminates. Unreadable subdirectories are
// logged and skipped; an unreadable root is an error.
func (s *Scanner) Scan(ctx context.Context, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, caterrors.New(caterrors.ErrCodeVolumeNotFound,
				fmt.Sprintf("scan root does not exist: %s", absRoot), err)
		}
		return nil, caterrors.New(caterrors.ErrCodeReadFailed,
			fmt.Sprintf("failed to stat scan root %s", absRoot), err)
	}
	if !info.IsDir() {
		return nil, caterrors.New(caterrors.ErrCodeInvalidInput,
			fmt.Sprintf("scan root is not a directory: %s", absRoot), nil)
	}

	res := &Result{Root: absRoot}
	seen := 0

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			slog.Warn("scan_entry_unreadable",
				slog.String("path", path),
				slog.String("error", walkErr.Error()))
			res.Skipped++
			// d is non-nil when ReadDir on a directory failed; its own
			// entry was already reported, so just do not descend.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == absRoot {
			return nil
		}

		if s.excluded(d.Name()) {
			slog.Debug("scan_entry_excluded", slog.String("path", path))
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}

		if d.IsDir() {
			res.Directories = append(res.Directories, rel)
		} else {
			res.Files = append(res.Files, rel)
		}

		seen++
		if s.progress != nil && seen%s.progressEvery == 0 {
			s.progress(len(res.Directories), len(res.Files))
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, caterrors.New(caterrors.ErrCodeScanFailed,
			fmt.Sprintf("failed to scan %s", absRoot), err)
	}

	if s.progress != nil {
		s.progress(len(res.Directories), len(res.Files))
	}
	return res, nil
}

func (s *Scanner) excluded(name string) bool {
	_, ok := s.exclude[name]
	return ok
}
