package api

import (
	"errors"
	"net/http"

	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

// API errors for collection operations.
var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownField      = errors.New("unknown attachment field")
	ErrFileTooLarge      = errors.New("file exceeds maximum upload size")
	ErrInvalidFile       = errors.New("invalid file")
	ErrUnknownBulkOp     = errors.New("unknown bulk operation")
)

// MapHTTPStatus converts domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownCollection), errors.Is(err, ErrUnknownField):
		return http.StatusNotFound
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidFile), errors.Is(err, ErrUnknownBulkOp):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
