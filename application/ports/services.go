package ports

import (
	"context"
	"io"
	"time"
)

// Cache is the key/value store fronting the photo store. Every operation can
// fail when the backend is unreachable; callers treat failures as misses.
type Cache interface {
	// Get returns the stored bytes and whether the key was present
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A ttl of zero stores it without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// SetNX stores value without expiry only if key is absent, and reports
	// whether it did
	SetNX(ctx context.Context, key string, value []byte) (bool, error)

	// Incr atomically increments the integer stored at key (absent counts as
	// zero) and returns the new value
	Incr(ctx context.Context, key string) (int64, error)
}

// Blob is a stored object
type Blob struct {
	Key string
	URL string
}

// BlobStore stores uploaded image bytes
type BlobStore interface {
	// Upload stores the content under key and returns where it can be fetched
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (Blob, error)

	// Delete removes the object stored under key
	Delete(ctx context.Context, key string) error

	// KeyFromURL recovers the object key from a URL returned by Upload
	KeyFromURL(url string) (string, bool)
}

// Thumbnailer renders a reduced preview of an image
type Thumbnailer interface {
	// Thumbnail returns JPEG bytes of the image scaled to fit the configured bounds
	Thumbnail(src []byte) ([]byte, error)
}

// PasswordHasher hashes and verifies account passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer signs session tokens for authenticated users
type TokenIssuer interface {
	Issue(userID, email, name, role string) (string, error)
}

// CacheMetrics receives cache outcome counts
type CacheMetrics interface {
	RecordCacheOutcome(ctx context.Context, keyspace, outcome string)
}
