package search

import (
	"strings"

	"github.com/Aman-CERP/catcrawler/internal/indexfile"
)

// isSep reports whether c separates path segments. Both separators are
// accepted so index files written on another platform still split correctly.
func isSep(c rune) bool {
	return c == '/' || c == '\\'
}

// splitPath splits p at its last separator. dir is "" for top-level entries.
func splitPath(p string) (dir, base string) {
	i := strings.LastIndexFunc(p, isSep)
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// excludedPath reports whether any segment of p is in exclude.
func excludedPath(p string, exclude map[string]struct{}) bool {
	if len(exclude) == 0 {
		return false
	}
	for _, seg := range strings.FieldsFunc(p, isSep) {
		if _, ok := exclude[seg]; ok {
			return true
		}
	}
	return false
}

// folderSet collects folder hits under a dedup policy.
type folderSet struct {
	mode    FolderDedup
	last    string
	hasLast bool
	seen    map[string]struct{}
	folders []string
}

func newFolderSet(mode FolderDedup) *folderSet {
	fs := &folderSet{mode: mode}
	if mode == DedupSet {
		fs.seen = make(map[string]struct{})
	}
	return fs
}

func (fs *folderSet) add(folder string) {
	if fs.mode == DedupSet {
		if _, ok := fs.seen[folder]; ok {
			return
		}
		fs.seen[folder] = struct{}{}
		fs.folders = append(fs.folders, folder)
		return
	}
	if fs.hasLast && folder == fs.last {
		return
	}
	fs.last, fs.hasLast = folder, true
	fs.folders = append(fs.folders, folder)
}

// matcher classifies entries of one volume against a query.
type matcher struct {
	query   string
	exclude map[string]struct{}
	files   []string
	folders *folderSet
}

func newMatcher(query string, exclude map[string]struct{}, mode FolderDedup) *matcher {
	return &matcher{query: query, exclude: exclude, folders: newFolderSet(mode)}
}

// visit classifies one entry. Only the path text is matched, case-sensitively.
//
//   - a file whose name contains the query is a file match
//   - a directory whose name contains the query is a folder match
//   - an entry whose containing folder path contains the query makes that
//     folder a folder match
func (m *matcher) visit(e indexfile.Entry) {
	if !strings.Contains(e.Path, m.query) || excludedPath(e.Path, m.exclude) {
		return
	}
	dir, base := splitPath(e.Path)
	if strings.Contains(base, m.query) {
		if e.Kind == indexfile.Directory {
			m.folders.add(e.Path)
		} else {
			m.files = append(m.files, e.Path)
		}
	}
	if dir != "" && strings.Contains(dir, m.query) {
		m.folders.add(dir)
	}
}

// rootFolders returns the distinct top-level directories in entries, skipping
// excluded names, in index order.
func rootFolders(entries []indexfile.Entry, exclude map[string]struct{}) []string {
	seen := make(map[string]struct{})
	var roots []string
	for _, e := range entries {
		if e.Kind != indexfile.Directory || strings.IndexFunc(e.Path, isSep) >= 0 {
			continue
		}
		if _, skip := exclude[e.Path]; skip {
			continue
		}
		if _, dup := seen[e.Path]; dup {
			continue
		}
		seen[e.Path] = struct{}{}
		roots = append(roots, e.Path)
	}
	return roots
}
