package catalog

import "context"

// Backend persists the catalog wholesale.
type Backend interface {
	// Load returns every record in catalog order. A store that does not
	// exist yet loads as empty.
	Load(ctx context.Context) ([]VolumeRecord, error)
	// Save atomically replaces the stored catalog with records.
	Save(ctx context.Context, records []VolumeRecord) error
	// Destroy closes the backend and deletes its files.
	Destroy() error
	// Close releases the backend.
	Close() error
}
