package search

import (
	"context"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// Options configures an Engine.
type Options struct {
	// Exclude lists path segment names whose entries never match.
	Exclude []string
	// FolderDedup selects the folder dedup policy. Empty means DedupCursor.
	FolderDedup FolderDedup
	// Strict aborts the whole search when any volume's index cannot be read.
	// Otherwise such volumes are reported as failures and skipped.
	Strict bool
	// CacheSize is the number of decoded index files kept in memory.
	// Zero disables caching.
	CacheSize int
	// Workers bounds concurrent index reads. Zero means runtime.NumCPU().
	Workers int
}

// Engine searches the index files of catalogued volumes.
type Engine struct {
	indexDir string
	opts     Options
	exclude  map[string]struct{}
	cache    *indexCache
}

// New creates an Engine reading index files from indexDir.
func New(indexDir string, opts Options) (*Engine, error) {
	switch opts.FolderDedup {
	case "":
		opts.FolderDedup = DedupCursor
	case DedupCursor, DedupSet:
	default:
		return nil, caterrors.ValidationError("unknown folder dedup mode "+string(opts.FolderDedup), nil)
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	cache, err := newIndexCache(opts.CacheSize)
	if err != nil {
		return nil, caterrors.InternalError("failed to create index cache", err)
	}

	exclude := make(map[string]struct{}, len(opts.Exclude))
	for _, name := range opts.Exclude {
		exclude[name] = struct{}{}
	}

	return &Engine{
		indexDir: indexDir,
		opts:     opts,
		exclude:  exclude,
		cache:    cache,
	}, nil
}

// Options returns the engine's effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// NormalizeQuery trims surrounding whitespace from query.
func NormalizeQuery(query string) string {
	return strings.TrimSpace(query)
}

// Search matches query against the index file of every record. Volumes with
// no matches are omitted; results keep catalog order.
func (e *Engine) Search(ctx context.Context, records []catalog.VolumeRecord, query string) (*Outcome, error) {
	start := time.Now()
	query = NormalizeQuery(query)
	if query == "" {
		return nil, caterrors.New(caterrors.ErrCodeQueryEmpty, "search query is empty", nil).
			WithSuggestion("pass the text to look for, e.g. 'catcrawler search report'")
	}

	results := make([]*VolumeResult, len(records))
	loadErrs := make([]error, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, rec := range records {
		i, rec := i, rec // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries, err := e.load(rec.Serial)
			if err != nil {
				if e.opts.Strict {
					return err
				}
				loadErrs[i] = err
				return nil
			}
			m := newMatcher(query, e.exclude, e.opts.FolderDedup)
			for _, entry := range entries {
				m.visit(entry)
			}
			results[i] = &VolumeResult{
				Index:   i,
				Volume:  rec,
				Files:   m.files,
				Folders: m.folders.folders,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if _, ok := caterrors.As(err); ok {
			return nil, err
		}
		return nil, caterrors.New(caterrors.ErrCodeSearchFailed, "search failed", err)
	}

	out := &Outcome{Query: query, Searched: len(records)}
	for i, r := range results {
		if loadErrs[i] != nil {
			slog.Warn("search_volume_skipped",
				slog.String("serial", records[i].Serial),
				slog.String("error", loadErrs[i].Error()))
			out.Failures = append(out.Failures, Failure{
				Index:  i,
				Serial: records[i].Serial,
				Err:    loadErrs[i],
				Reason: failureReason(loadErrs[i]),
			})
			continue
		}
		if r != nil && r.Total() > 0 {
			out.Results = append(out.Results, *r)
		}
	}
	out.Duration = time.Since(start)

	slog.Debug("search_complete",
		slog.String("query", query),
		slog.Int("volumes", len(records)),
		slog.Int("candidates", len(out.Results)),
		slog.Int("failures", len(out.Failures)),
		slog.Duration("duration", out.Duration))

	return out, nil
}

// RootFolders returns the distinct top-level directories of a volume's index,
// skipping excluded names.
func (e *Engine) RootFolders(ctx context.Context, rec catalog.VolumeRecord) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := e.load(rec.Serial)
	if err != nil {
		return nil, err
	}
	return rootFolders(entries, e.exclude), nil
}

func (e *Engine) load(serial string) ([]indexfile.Entry, error) {
	return e.cache.load(indexfile.Path(e.indexDir, serial))
}

func failureReason(err error) string {
	if ce, ok := caterrors.As(err); ok {
		return ce.Message
	}
	return err.Error()
}
