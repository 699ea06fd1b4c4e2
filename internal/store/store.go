// Package store defines the remote record store contract shared by the
// console core and its concrete backends. Records belong to named
// collections and carry an opaque field payload; the store owns identity,
// status, and timestamps.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Store errors returned by implementations.
var (
	ErrNotFound = errors.New("store: record not found")
	ErrConflict = errors.New("store: record conflict")
)

// Store is the remote record store contract. Implementations are expected
// to be safe for concurrent use.
type Store interface {
	// List returns the records of a collection matching the query,
	// ordered by the query's sort fields.
	List(ctx context.Context, collection string, q Query) ([]Record, error)

	// Count returns the number of records matching the query, ignoring
	// the query's paging window.
	Count(ctx context.Context, collection string, q Query) (int, error)

	// Find returns a single record by identifier.
	// Returns ErrNotFound if the record does not exist.
	Find(ctx context.Context, collection string, id uuid.UUID) (*Record, error)

	// Insert creates a new record and returns it with server-assigned
	// identity and timestamps.
	Insert(ctx context.Context, collection string, status Status, fields Fields) (*Record, error)

	// Update replaces the status and field payload of an existing record.
	// Returns ErrNotFound if the record does not exist.
	Update(ctx context.Context, collection string, id uuid.UUID, status Status, fields Fields) (*Record, error)

	// Delete removes a record. Deleting a missing record is a no-op.
	Delete(ctx context.Context, collection string, id uuid.UUID) error

	// DeleteMany removes all listed records in a single operation.
	DeleteMany(ctx context.Context, collection string, ids []uuid.UUID) error

	// UpdateMany merges the given fields into every listed record in a
	// single operation and returns the updated records.
	UpdateMany(ctx context.Context, collection string, ids []uuid.UUID, fields Fields) ([]Record, error)
}
