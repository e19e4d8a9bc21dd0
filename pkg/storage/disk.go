// Package storage abstracts where product images live.
//
// Two drivers are available:
//   - "local": local filesystem (default, development)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Disks are constructed once at boot and injected into whatever needs them;
// there is no package-level default disk.
package storage

import (
	"context"
	"io"
)

// Disk is the object-store driver interface.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(ctx context.Context, path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(ctx context.Context, path string, r io.Reader) error

	// Get returns the full content of the object at path.
	Get(ctx context.Context, path string) ([]byte, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) bool

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// DeleteAll removes every object under the given prefix.
	DeleteAll(ctx context.Context, prefix string) error

	// URL returns the public URL for path.
	URL(path string) string
}
