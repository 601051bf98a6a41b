package ui

import (
	"sync"
	"time"
)

// ProgressTracker accumulates scan progress. It is safe for concurrent use.
type ProgressTracker struct {
	mu        sync.RWMutex
	dirs      int
	files     int
	current   string
	warnings  []WarnEvent
	startTime time.Time

	lastEntries   int
	lastSpeedCalc time.Time
	currentSpeed  float64
	avgSpeed      float64
	speedSamples  int
}

// ProgressStats is a snapshot of a ProgressTracker.
type ProgressStats struct {
	Dirs      int
	Files     int
	Current   string
	WarnCount int
	Elapsed   time.Duration
	// Speed is the smoothed entries-per-second rate.
	Speed float64
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	now := time.Now()
	return &ProgressTracker{startTime: now, lastSpeedCalc: now}
}

// Update records the latest counts.
func (p *ProgressTracker) Update(event ScanEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.dirs, p.files = event.Dirs, event.Files
	if event.Current != "" {
		p.current = event.Current
	}

	// Sample speed every 500ms to avoid noise.
	now := time.Now()
	elapsed := now.Sub(p.lastSpeedCalc)
	if elapsed < 500*time.Millisecond {
		return
	}
	if delta := event.Entries() - p.lastEntries; delta > 0 {
		speed := float64(delta) / elapsed.Seconds()
		p.currentSpeed = speed
		p.speedSamples++
		if p.speedSamples == 1 {
			p.avgSpeed = speed
		} else {
			p.avgSpeed = 0.2*speed + 0.8*p.avgSpeed
		}
	}
	p.lastEntries = event.Entries()
	p.lastSpeedCalc = now
}

// AddWarning records an unreadable entry.
func (p *ProgressTracker) AddWarning(event WarnEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.warnings = append(p.warnings, event)
}

// Warnings returns a copy of the recorded warnings.
func (p *ProgressTracker) Warnings() []WarnEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]WarnEvent, len(p.warnings))
	copy(out, p.warnings)
	return out
}

// Stats returns a snapshot of the current progress.
func (p *ProgressTracker) Stats() ProgressStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return ProgressStats{
		Dirs:      p.dirs,
		Files:     p.files,
		Current:   p.current,
		WarnCount: len(p.warnings),
		Elapsed:   time.Since(p.startTime),
		Speed:     p.avgSpeed,
	}
}
