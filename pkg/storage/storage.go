package storage

// Package storage defines the object store abstraction used by the catalog
// for product and site media. Backends cover the local filesystem and
// S3-compatible services (AWS S3, MinIO).

import (
	"context"
	"io"
)

// Storage defines the interface for object storage operations.
// All backends must implement this interface.
type Storage interface {
	// PutObject uploads an object. An existing object at the same key is
	// overwritten.
	PutObject(ctx context.Context, key string, data io.Reader, contentType string, size int64) error

	// GetObject retrieves an object.
	// Returns a ReadCloser that must be closed by the caller.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)

	// DeleteObject removes an object. Deleting a key that does not exist
	// is not an error.
	DeleteObject(ctx context.Context, key string) error

	// CopyObject duplicates the object at srcKey to dstKey, overwriting
	// any object already stored at dstKey.
	CopyObject(ctx context.Context, srcKey, dstKey string) error

	// ObjectExists checks if an object exists.
	ObjectExists(ctx context.Context, key string) (bool, error)

	// GenerateURL creates an access URL for the object.
	// For local storage: returns an API path under /api/v1/files.
	// For S3: returns a public, presigned or proxy URL depending on the
	// configured URL mode.
	GenerateURL(ctx context.Context, key string, fileName string) (string, error)

	// Type returns the storage type identifier ("local" or "s3").
	Type() string
}
