// Package catalog keeps the ordered set of indexed volumes and their index
// files consistent. The whole catalog is loaded at open, mutated in memory and
// written back in a single transaction after every change.
package catalog

import (
	"time"
)

// VolumeRecord describes one indexed volume.
//
// Serial, Name, FileSystem, DriveType, SizeBytes, FreeBytes and RootPath are a
// snapshot taken at scan time. Only Description and IndexedAt change afterwards.
type VolumeRecord struct {
	Serial      string    `json:"serial"`
	Name        string    `json:"name"`
	FileSystem  string    `json:"file_system"`
	DriveType   string    `json:"drive_type"`
	SizeBytes   uint64    `json:"size_bytes"`
	FreeBytes   uint64    `json:"free_bytes"`
	RootPath    string    `json:"root_path"`
	Description string    `json:"description,omitempty"`
	IndexedAt   time.Time `json:"indexed_at"`
}

// Mutation changes the mutable fields of a record in place.
type Mutation func(*VolumeRecord)

// SetDescription replaces the free-text description.
func SetDescription(text string) Mutation {
	return func(r *VolumeRecord) { r.Description = text }
}

// MarkIndexed records a successful scan at t.
func MarkIndexed(t time.Time) Mutation {
	return func(r *VolumeRecord) { r.IndexedAt = t }
}

// sameSnapshot reports whether a and b agree on every immutable field.
func sameSnapshot(a, b VolumeRecord) bool {
	a.Description, b.Description = "", ""
	a.IndexedAt, b.IndexedAt = time.Time{}, time.Time{}
	return a == b
}
