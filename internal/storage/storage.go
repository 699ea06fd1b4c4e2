// Package storage provides the object storage abstraction backing record
// attachments. Objects are addressed by key and served under a public
// base URL; the console stores only the public URL in record fields.
package storage

import (
	"context"
	"errors"
)

// Storage errors returned by System implementations.
var (
	// ErrNotFound indicates the requested key does not exist in storage.
	ErrNotFound = errors.New("storage: key not found")

	// ErrInvalidKey indicates the key is malformed. This includes empty
	// keys and path traversal attempts.
	ErrInvalidKey = errors.New("storage: invalid key")
)

// System defines the object storage operations used by the attachment
// lifecycle. Implementations handle the underlying mechanism (filesystem,
// cloud bucket) while keeping the key-to-public-URL mapping stable.
type System interface {
	// Put stores data at the given key, overwriting any existing object,
	// and returns the object's public URL.
	Put(ctx context.Context, key string, data []byte) (string, error)

	// Remove deletes the objects at the given keys. Missing keys are
	// ignored (idempotent).
	Remove(ctx context.Context, keys ...string) error

	// Exists reports whether an object is present at the key.
	Exists(ctx context.Context, key string) (bool, error)

	// KeyFromURL maps a public URL back to its storage key. The second
	// return is false when the URL does not belong to this system.
	KeyFromURL(url string) (string, bool)
}
