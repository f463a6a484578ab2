package storage

import (
	"context"
	"io"
)

// Storage is the interface for image storage backends. The server-side
// upload flow (multipart form in, stored key out) keeps cloud backends
// swappable behind the same surface.
type Storage interface {
	// Save stores the reader's content under key.
	Save(ctx context.Context, key string, reader io.Reader) error

	// Open returns the stored content for key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the file for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL serving the file for key.
	URL(key string) string
}
