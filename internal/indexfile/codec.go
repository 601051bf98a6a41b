// Package indexfile reads and writes per-volume index files.
//
// An index file is UTF-8 text with one entry per line:
//
//	d*photos/2019
//	f*photos/2019/beach.jpg
//
// The first character is the kind tag ('d' directory, 'f' file), followed by
// the '*' separator and a path relative to the volume root. Paths are not
// escaped, so a path whose text starts with a tag and separator of its own is
// read back exactly as written but cannot be distinguished from a hand-edited
// line.
package indexfile

import (
	"errors"
	"path/filepath"
	"strings"
)

// Extension is the file extension of index files.
const Extension = ".indx"

// Separator splits the kind tag from the path.
const Separator = '*'

// Kind distinguishes file entries from directory entries.
type Kind byte

const (
	// File marks a regular file (or anything that is not a directory).
	File Kind = 'f'
	// Directory marks a directory.
	Directory Kind = 'd'
)

// String returns "file" or "directory".
func (k Kind) String() string {
	switch k {
	case File:
		return "file"
	case Directory:
		return "directory"
	default:
		return "unknown"
	}
}

// Valid reports whether k is a known kind tag.
func (k Kind) Valid() bool {
	return k == File || k == Directory
}

// Entry is one line of an index file.
type Entry struct {
	Kind Kind
	Path string
}

// String encodes e without a trailing newline.
func (e Entry) String() string {
	var sb strings.Builder
	sb.Grow(len(e.Path) + 2)
	sb.WriteByte(byte(e.Kind))
	sb.WriteByte(Separator)
	sb.WriteString(e.Path)
	return sb.String()
}

// Encode returns one encoded line per entry, without newlines.
func Encode(entries []Entry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}

// Decode parses a single line. Trailing line terminators are ignored.
// ok is false for blank lines, unknown tags and lines missing a path.
func Decode(line string) (Entry, bool) {
	line = strings.TrimRight(line, "\r\n")
	sep := strings.IndexByte(line, Separator)
	if sep != 1 || len(line) < 3 {
		return Entry{}, false
	}
	kind := Kind(line[0])
	if !kind.Valid() {
		return Entry{}, false
	}
	return Entry{Kind: kind, Path: line[2:]}, true
}

// ErrInvalidSerial is returned by ValidateSerial for serials that cannot be
// used as an index file name.
var ErrInvalidSerial = errors.New("invalid volume serial")

// ValidateSerial reports whether serial names a file directly inside the
// index directory: it must be non-empty, must not be "." and must not contain
// a path separator, NUL or "..".
func ValidateSerial(serial string) error {
	if serial == "" || serial == "." ||
		strings.ContainsAny(serial, "/\\\x00") || strings.Contains(serial, "..") {
		return ErrInvalidSerial
	}
	return nil
}

// FileName returns the index file name for a volume serial.
func FileName(serial string) string {
	return serial + Extension
}

// Path returns the index file path for serial inside dir.
func Path(dir, serial string) string {
	return filepath.Join(dir, FileName(serial))
}

// SerialFromFileName is the inverse of FileName. ok is false for names that
// are not index files.
func SerialFromFileName(name string) (string, bool) {
	if !strings.HasSuffix(name, Extension) || len(name) == len(Extension) {
		return "", false
	}
	return strings.TrimSuffix(name, Extension), true
}
