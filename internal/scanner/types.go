// Package scanner walks a volume's directory tree and reports every file and
// directory below the root, relative to it. It writes nothing.
package scanner

import (
	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// Options configures a scan.
type Options struct {
	// Exclude holds entry names that are skipped wherever they appear.
	// Excluded directories are not descended into.
	Exclude []string

	// ProgressEvery controls how often Progress is called (0 = 1000 entries).
	ProgressEvery int

	// Progress, when set, receives running totals during the walk.
	Progress func(dirs, files int)
}

// Result is the outcome of a scan. Paths are relative to the scan root and
// use the platform separator, in walk order.
type Result struct {
	Root        string
	Files       []string
	Directories []string
	// Skipped counts entries that could not be read (permissions, races).
	Skipped int
}

// Entries converts the result to index entries, directories first.
func (r *Result) Entries() []indexfile.Entry {
	entries := make([]indexfile.Entry, 0, len(r.Directories)+len(r.Files))
	for _, d := range r.Directories {
		entries = append(entries, indexfile.Entry{Kind: indexfile.Directory, Path: d})
	}
	for _, f := range r.Files {
		entries = append(entries, indexfile.Entry{Kind: indexfile.File, Path: f})
	}
	return entries
}

// Total returns the number of entries found.
func (r *Result) Total() int {
	return len(r.Files) + len(r.Directories)
}
