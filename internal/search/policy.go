package search

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

// Policy decides how a volume's matches are presented.
type Policy struct {
	// ShortLimit caps how many files and how many folders are printed inline.
	ShortLimit int
	// LongThreshold is the match count at which a list is written to a
	// report file instead of the terminal.
	LongThreshold int
}

// DefaultPolicy returns the stock presentation policy.
func DefaultPolicy() Policy {
	return Policy{ShortLimit: 5, LongThreshold: 50}
}

// ShortForm reports whether r fits inline: both lists are below LongThreshold.
func (p Policy) ShortForm(r VolumeResult) bool {
	return len(r.Files) < p.LongThreshold && len(r.Folders) < p.LongThreshold
}

// Header returns the one-line summary printed above a volume's matches.
func Header(r VolumeResult) string {
	name := r.Volume.Name
	if name == "" {
		name = "(unnamed)"
	}
	return fmt.Sprintf("[%d] %s (%s): %d files, %d folders",
		r.Index, name, r.Volume.Serial, len(r.Files), len(r.Folders))
}

// RenderShort writes r with each list capped at ShortLimit. Hidden entries are
// summarised as "...and N more".
func (p Policy) RenderShort(w io.Writer, r VolumeResult) error {
	return render(w, r, p.ShortLimit)
}

// RenderFull writes every match in r.
func RenderFull(w io.Writer, r VolumeResult) error {
	return render(w, r, -1)
}

func render(w io.Writer, r VolumeResult, limit int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, Header(r))
	writeList(bw, "Files", r, r.Files, limit)
	writeList(bw, "Folders", r, r.Folders, limit)
	return bw.Flush()
}

func writeList(w io.Writer, title string, r VolumeResult, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s:\n", title)
	shown := items
	if limit >= 0 && len(items) > limit {
		shown = items[:limit]
	}
	for _, it := range shown {
		fmt.Fprintf(w, "    %s\n", r.Abs(it))
	}
	if hidden := len(items) - len(shown); hidden > 0 {
		fmt.Fprintf(w, "    ...and %d more\n", hidden)
	}
}

// ReportName returns the report file name for a volume's result at now.
func ReportName(r VolumeResult, now time.Time) string {
	return fmt.Sprintf("search-%s-%s.txt", now.Format("20060102-150405"), r.Volume.Serial)
}

// WriteReport writes the full listing of r under dir and returns its path.
func WriteReport(dir string, query string, r VolumeResult, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", caterrors.IOFailure("failed to create report directory "+dir, err)
	}
	path := filepath.Join(dir, ReportName(r, now))

	f, err := os.Create(path)
	if err != nil {
		return "", caterrors.IOFailure("failed to create report "+path, err)
	}

	_, werr := fmt.Fprintf(f, "query: %q\ngenerated: %s\n\n", query, now.Format(time.RFC3339))
	if werr == nil {
		werr = RenderFull(f, r)
	}
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		return "", caterrors.IOFailure("failed to write report "+path, werr)
	}
	return path, nil
}
