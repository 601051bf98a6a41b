package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// InconsistencyType categorizes detected issues.
type InconsistencyType int

const (
	// InconsistencyMissingIndex is a record whose index file does not exist.
	InconsistencyMissingIndex InconsistencyType = iota
	// InconsistencyOrphanIndex is an index file with no record.
	InconsistencyOrphanIndex
	// InconsistencyUnreadableIndex is an index file that exists but cannot be opened.
	InconsistencyUnreadableIndex
)

// String returns a short machine-friendly name.
func (t InconsistencyType) String() string {
	switch t {
	case InconsistencyMissingIndex:
		return "missing_index"
	case InconsistencyOrphanIndex:
		return "orphan_index"
	case InconsistencyUnreadableIndex:
		return "unreadable_index"
	default:
		return "unknown"
	}
}

// Inconsistency is one detected mismatch between records and index files.
type Inconsistency struct {
	Type    InconsistencyType
	Serial  string
	Details string
}

// CheckResult contains the outcome of a consistency check.
type CheckResult struct {
	// Checked is the number of records verified.
	Checked         int
	Inconsistencies []Inconsistency
	Duration        time.Duration
}

// OK reports whether nothing was found.
func (r *CheckResult) OK() bool {
	return len(r.Inconsistencies) == 0
}

// Check compares the catalog with the index files on disk.
func (c *Catalog) Check(ctx context.Context) (*CheckResult, error) {
	start := time.Now()
	records := c.Records()

	onDisk, err := listIndexSerials(c.indexDir)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(onDisk))
	for _, s := range onDisk {
		present[s] = true
	}

	var issues []Inconsistency
	known := make(map[string]bool, len(records))
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		known[r.Serial] = true
		path := c.IndexPath(r.Serial)
		if !present[r.Serial] {
			issues = append(issues, Inconsistency{
				Type:    InconsistencyMissingIndex,
				Serial:  r.Serial,
				Details: fmt.Sprintf("%s has no index file at %s", displayName(r), path),
			})
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			issues = append(issues, Inconsistency{
				Type:    InconsistencyUnreadableIndex,
				Serial:  r.Serial,
				Details: err.Error(),
			})
			continue
		}
		_ = f.Close()
	}

	for _, s := range onDisk {
		if !known[s] {
			issues = append(issues, Inconsistency{
				Type:    InconsistencyOrphanIndex,
				Serial:  s,
				Details: fmt.Sprintf("%s is not referenced by any volume", indexfile.FileName(s)),
			})
		}
	}

	return &CheckResult{
		Checked:         len(records),
		Inconsistencies: issues,
		Duration:        time.Since(start),
	}, nil
}

// Repair fixes what Check found:
//   - orphan index files are deleted
//   - records with a missing index file are removed
//
// Unreadable index files are left for the user. Repair stops at the first
// failure and returns the number of issues fixed so far.
func (c *Catalog) Repair(ctx context.Context, issues []Inconsistency) (int, error) {
	fixed := 0
	for _, issue := range issues {
		switch issue.Type {
		case InconsistencyOrphanIndex:
			path := c.IndexPath(issue.Serial)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return fixed, fmt.Errorf("failed to delete orphan index %s: %w", path, err)
			}
			slog.Info("orphan_index_deleted", slog.String("serial", issue.Serial))
			fixed++
		case InconsistencyMissingIndex:
			if err := c.Remove(ctx, issue.Serial); err != nil {
				return fixed, err
			}
			fixed++
		case InconsistencyUnreadableIndex:
			slog.Warn("unreadable_index_skipped", slog.String("serial", issue.Serial))
		}
	}
	return fixed, nil
}

func displayName(r VolumeRecord) string {
	if r.Name != "" {
		return fmt.Sprintf("volume %s (%s)", r.Serial, r.Name)
	}
	return "volume " + r.Serial
}
