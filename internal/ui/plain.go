package ui

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
)

// PlainRenderer outputs plain text progress (for CI/pipes).
type PlainRenderer struct {
	mu       sync.Mutex
	out      io.Writer
	warnings int
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	return &PlainRenderer{out: cfg.Output}
}

// Start implements Renderer.
func (r *PlainRenderer) Start(ctx context.Context) error {
	return nil
}

// Progress implements Renderer.
func (r *PlainRenderer) Progress(event ScanEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "[SCAN] %s folders, %s files",
		humanize.Comma(int64(event.Dirs)), humanize.Comma(int64(event.Files)))
	if event.Current != "" {
		_, _ = fmt.Fprintf(r.out, " - %s", event.Current)
	}
	_, _ = fmt.Fprintln(r.out)
}

// Warn implements Renderer.
func (r *PlainRenderer) Warn(event WarnEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.warnings++
	_, _ = fmt.Fprintf(r.out, "WARN: %s: %v\n", event.Path, event.Err)
}

// Complete implements Renderer.
func (r *PlainRenderer) Complete(s ScanSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.out, "Disk %s scanned: %s folders and %s files in %s",
		s.Volume, humanize.Comma(int64(s.Dirs)), humanize.Comma(int64(s.Files)),
		s.Duration.Round(10*time.Millisecond))
	if s.Skipped > 0 {
		_, _ = fmt.Fprintf(r.out, " (%d unreadable entries skipped)", s.Skipped)
	}
	_, _ = fmt.Fprintln(r.out)
	if s.IndexPath != "" {
		_, _ = fmt.Fprintf(r.out, "File %s created\n", s.IndexPath)
	}
}

// Stop implements Renderer.
func (r *PlainRenderer) Stop() error {
	return nil
}

var _ Renderer = (*PlainRenderer)(nil)
