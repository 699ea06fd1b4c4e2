package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/pkg/query"
)

// Status is the publication state of a record.
type Status string

// Record statuses.
const (
	StatusActive   Status = "active"
	StatusDraft    Status = "draft"
	StatusArchived Status = "archived"
)

// Validate checks that the status is one of the known values.
func (s Status) Validate() bool {
	switch s {
	case StatusActive, StatusDraft, StatusArchived:
		return true
	}
	return false
}

// Record is a persisted content entity in one named collection.
type Record struct {
	ID         uuid.UUID `json:"id"`
	Collection string    `json:"collection"`
	Status     Status    `json:"status"`
	Fields     Fields    `json:"fields"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Query selects and orders the records of one collection.
type Query struct {
	// Status restricts the listing to one publication state.
	Status *Status

	// Search matches case-insensitively anywhere in the field payload.
	Search string

	// Equals restricts scalar payload fields to exact values,
	// e.g. {"is_archived": "true"}.
	Equals map[string]string

	// Sort orders the result. Empty falls back to newest-first. Field
	// names resolve to record columns for id/status/created_at/updated_at
	// and to scalar payload keys otherwise.
	Sort []query.SortField

	// Limit and Offset page the result when Limit is positive.
	Limit  int
	Offset int
}
