package indexfile

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	caterrors "github.com/Aman-CERP/catcrawler/internal/errors"
)

// maxLineBytes bounds a single index line. Paths beyond this are unrealistic on
// every supported filesystem.
const maxLineBytes = 1 << 20

// Write replaces the file at path with entries, one line each.
// The file is written next to its destination and renamed into place, so a
// failed write never leaves a truncated index behind.
func Write(path string, entries []Entry) error {
	if err := writeAtomic(path, func(w io.Writer) error {
		return encodeTo(w, entries)
	}); err != nil {
		return caterrors.New(caterrors.ErrCodeWriteFailed,
			fmt.Sprintf("failed to write index file %s", path), err).
			WithDetail("path", path)
	}
	return nil
}

func encodeTo(w io.Writer, entries []Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(e.String()); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadAll decodes every well-formed line of the index file at path.
// A missing file yields a NotFound error; malformed lines are skipped.
func ReadAll(path string) ([]Entry, error) {
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	skipped, err := Stream(f, func(e Entry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, caterrors.New(caterrors.ErrCodeReadFailed,
			fmt.Sprintf("failed to read index file %s", path), err)
	}
	if skipped > 0 {
		slog.Debug("index_lines_skipped", slog.String("path", path), slog.Int("count", skipped))
	}
	return entries, nil
}

// Open opens an index file for reading, mapping a missing file to NotFound.
func Open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err == nil {
		return f, nil
	}
	if os.IsNotExist(err) {
		return nil, caterrors.New(caterrors.ErrCodeIndexNotFound,
			fmt.Sprintf("index file not found: %s", path), err).
			WithDetail("path", path).
			WithSuggestion("run 'catcrawler check' to find volumes whose index is missing")
	}
	return nil, caterrors.New(caterrors.ErrCodeReadFailed,
		fmt.Sprintf("failed to open index file %s", path), err)
}

// Stream decodes r line by line and calls fn for each well-formed entry.
// It returns the number of malformed lines skipped. An error from fn stops the
// stream and is returned unchanged.
func Stream(r io.Reader, fn func(Entry) error) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	skipped := 0
	for sc.Scan() {
		e, ok := Decode(sc.Text())
		if !ok {
			skipped++
			continue
		}
		if err := fn(e); err != nil {
			return skipped, err
		}
	}
	return skipped, sc.Err()
}
