package storage

import (
	"context"
	"errors"
)

// FileStorage defines the interface for a single object storage backend.
// Key is a flat filename; folder is the logical grouping ("videos",
// "thumbnails", ...) the backend maps onto its own layout.
type FileStorage interface {
	// Upload persists data under folder/key and returns the public URL
	// the object is fetchable from.
	Upload(ctx context.Context, key, folder, contentType string, data []byte) (string, error)

	// Delete removes the object. Missing objects are not an error.
	Delete(ctx context.Context, key, folder string) error

	// URL returns the public URL for an object without touching the backend.
	URL(key, folder string) string
}

// Error constants for the storage layer.
var (
	// ErrStorageFailed means every backend in the chain failed; the
	// upload was not persisted anywhere.
	ErrStorageFailed = errors.New("storage: all backends failed to persist object")

	// ErrInvalidKey means the caller passed a key containing path
	// separators. Keys must be flat filenames.
	ErrInvalidKey = errors.New("storage: object key must be a flat filename")
)
