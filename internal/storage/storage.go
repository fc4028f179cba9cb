package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectStore wraps any backend failure so callers can map it to a
// bad-gateway style response without knowing the SDK.
var ErrObjectStore = errors.New("object store error")

// PresignedURL is a time-limited GET link for one stored object
type PresignedURL struct {
	URL       string
	ExpiresAt time.Time
}

// ObjectStore is the content bytes backend. Keys are opaque; metadata
// about what a key means lives in the database.
type ObjectStore interface {
	// Put streams an object under the given key
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// PresignGet returns a signed GET URL that forces an attachment
	// download under the given filename
	PresignGet(ctx context.Context, key, filename string, ttl time.Duration) (*PresignedURL, error)

	// Delete removes an object; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
