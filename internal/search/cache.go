package search

import (
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// cachedIndex is a decoded index file and the stat it was decoded from.
type cachedIndex struct {
	modTime time.Time
	size    int64
	entries []indexfile.Entry
}

// indexCache keeps recently decoded index files keyed by path.
// An entry is reused only while the file's mtime and size are unchanged.
type indexCache struct {
	lru *lru.Cache[string, cachedIndex]
}

// newIndexCache returns a cache holding up to size files, or nil when size <= 0.
func newIndexCache(size int) (*indexCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := lru.New[string, cachedIndex](size)
	if err != nil {
		return nil, err
	}
	return &indexCache{lru: c}, nil
}

// load returns the entries of the index file at path, decoding it if the
// cached copy is missing or stale. A nil cache always decodes.
func (c *indexCache) load(path string) ([]indexfile.Entry, error) {
	if c == nil {
		return indexfile.ReadAll(path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Let ReadAll produce the NotFound error with its suggestion.
			return indexfile.ReadAll(path)
		}
		return nil, caterrors.New(caterrors.ErrCodeReadFailed, "failed to stat index file "+path, err)
	}

	if hit, ok := c.lru.Get(path); ok && hit.size == info.Size() && hit.modTime.Equal(info.ModTime()) {
		return hit.entries, nil
	}

	entries, err := indexfile.ReadAll(path)
	if err != nil {
		return nil, err
	}
	c.lru.Add(path, cachedIndex{modTime: info.ModTime(), size: info.Size(), entries: entries})
	return entries, nil
}

// Len returns the number of cached files.
func (c *indexCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
