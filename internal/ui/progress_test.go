package ui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_Update(t *testing.T) {
	p := NewProgressTracker()

	p.Update(ScanEvent{Dirs: 3, Files: 10, Current: "a/b"})
	p.Update(ScanEvent{Dirs: 4, Files: 12})

	s := p.Stats()
	assert.Equal(t, 4, s.Dirs)
	assert.Equal(t, 12, s.Files)
	assert.Equal(t, "a/b", s.Current, "empty Current keeps the previous path")
}

func TestProgressTracker_Warnings(t *testing.T) {
	p := NewProgressTracker()

	p.AddWarning(WarnEvent{Path: "x", Err: errors.New("denied")})
	got := p.Warnings()
	got[0].Path = "changed"

	assert.Equal(t, 1, p.Stats().WarnCount)
	assert.Equal(t, "x", p.Warnings()[0].Path)
}
