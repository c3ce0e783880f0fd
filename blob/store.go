package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound indicates the requested object does not exist in the store.
var ErrNotFound = errors.New("object not found")

// Store is a gateway to the blob store holding raw uploaded files.
// Keys are opaque strings chosen by the upload path; the pipeline only
// consumes and produces keys, never bucket policy.
type Store interface {
	// Download fetches the object to a local temporary file and returns its
	// path. The caller owns the file and removes it when done.
	Download(ctx context.Context, key string) (string, error)

	// Upload stores the object under the given key. size may be -1 when
	// unknown.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Presign returns a time-limited URL granting read access to the object.
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}
