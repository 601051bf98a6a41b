// Package search finds index entries whose path contains a query string and
// shapes the per-volume results for display.
package search

import (
	"path/filepath"
	"time"

	"github.com/Aman-CERP/catcrawler/internal/catalog"
)

// FolderDedup selects how repeated folder hits are collapsed.
type FolderDedup string

const (
	// DedupCursor drops a folder only when it repeats the previous folder
	// hit. Non-adjacent repeats are recorded again.
	DedupCursor FolderDedup = "cursor"
	// DedupSet records every folder at most once.
	DedupSet FolderDedup = "set"
)

// VolumeResult holds the matches found in one volume.
type VolumeResult struct {
	// Index is the volume's position in the catalog.
	Index  int                  `json:"index"`
	Volume catalog.VolumeRecord `json:"volume"`
	// Files and Folders are relative to Volume.RootPath, in index order.
	Files   []string `json:"files"`
	Folders []string `json:"folders"`
}

// Total returns the number of matches.
func (r VolumeResult) Total() int {
	return len(r.Files) + len(r.Folders)
}

// Abs joins rel onto the volume's root path.
func (r VolumeResult) Abs(rel string) string {
	if r.Volume.RootPath == "" {
		return rel
	}
	return filepath.Join(r.Volume.RootPath, rel)
}

// Failure records a volume that could not be searched.
type Failure struct {
	Index  int    `json:"index"`
	Serial string `json:"serial"`
	Err    error  `json:"-"`
	Reason string `json:"reason"`
}

// Outcome is the result of searching a catalog.
type Outcome struct {
	Query string `json:"query"`
	// Results has one entry per volume with at least one match, in catalog order.
	Results  []VolumeResult `json:"results"`
	Failures []Failure      `json:"failures,omitempty"`
	Searched int            `json:"searched"`
	Duration time.Duration  `json:"duration_ns"`
}

// Candidates returns the catalog indices of volumes with matches.
func (o *Outcome) Candidates() []int {
	idx := make([]int, len(o.Results))
	for i, r := range o.Results {
		idx[i] = r.Index
	}
	return idx
}

// ByIndex returns the result for catalog index i.
func (o *Outcome) ByIndex(i int) (VolumeResult, bool) {
	for _, r := range o.Results {
		if r.Index == i {
			return r, true
		}
	}
	return VolumeResult{}, false
}
