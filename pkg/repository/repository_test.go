package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/raunak-choudhary/portfolio-admin/pkg/repository"
)

func TestMapError(t *testing.T) {
	notFound := errors.New("not found")
	conflict := errors.New("conflict")
	passthrough := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, notFound},
		{"wrapped no rows", fmt.Errorf("find: %w", sql.ErrNoRows), notFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, conflict},
		{"unrelated", passthrough, passthrough},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, notFound, conflict)
			if got != tt.want {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMapError_OtherPgErrorPassesThrough(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01"}
	got := repository.MapError(pgErr, errors.New("not found"), errors.New("conflict"))
	if !errors.Is(got, pgErr) {
		t.Errorf("MapError() = %v, want the original error", got)
	}
}
