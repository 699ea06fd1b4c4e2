// Package postgres implements the record store on PostgreSQL. Every
// collection is one table of identical shape: typed identity, status,
// and timestamp columns plus a JSONB field payload, so the store stays
// generic over collections.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/pkg/query"
	"github.com/raunak-choudhary/portfolio-admin/pkg/repository"
)

var tablePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store is the PostgreSQL-backed record store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a record store over the given database handle.
func New(db *sql.DB, logger *slog.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger.With("system", "store"),
	}
}

func (s *Store) List(ctx context.Context, collection string, q store.Query) ([]store.Record, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	qb := query.NewBuilder(table).WhereSearch(q.Search)
	if q.Status != nil {
		qb.WhereEquals("status", string(*q.Status))
	}
	for field, value := range q.Equals {
		qb.WhereEquals(field, value)
	}
	qb.OrderBy(q.Sort...).Page(q.Limit, q.Offset)

	sqlStr, args := qb.BuildSelect()
	records, err := repository.QueryMany(ctx, s.db, sqlStr, args, scanRecord(collection))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	return records, nil
}

func (s *Store) Count(ctx context.Context, collection string, q store.Query) (int, error) {
	table, err := tableName(collection)
	if err != nil {
		return 0, err
	}

	qb := query.NewBuilder(table).WhereSearch(q.Search)
	if q.Status != nil {
		qb.WhereEquals("status", string(*q.Status))
	}
	for field, value := range q.Equals {
		qb.WhereEquals(field, value)
	}

	sqlStr, args := qb.BuildCount()
	var total int
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return total, nil
}

func (s *Store) Find(ctx context.Context, collection string, id uuid.UUID) (*store.Record, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	sqlStr, args := query.NewBuilder(table).BuildSingle(id)
	rec, err := repository.QueryOne(ctx, s.db, sqlStr, args, scanRecord(collection))
	if err != nil {
		return nil, repository.MapError(err, store.ErrNotFound, store.ErrConflict)
	}
	return &rec, nil
}

func (s *Store) Insert(ctx context.Context, collection string, status store.Status, fields store.Fields) (*store.Record, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	q := fmt.Sprintf(`INSERT INTO %s (id, status, payload)
		VALUES ($1, $2, $3)
		RETURNING id, status, payload, created_at, updated_at`, table)

	rec, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (store.Record, error) {
		return repository.QueryOne(ctx, tx, q, []any{uuid.New(), string(status), payload}, scanRecord(collection))
	})
	if err != nil {
		return nil, repository.MapError(err, store.ErrNotFound, store.ErrConflict)
	}

	s.logger.Info("record created", "collection", collection, "id", rec.ID)
	return &rec, nil
}

func (s *Store) Update(ctx context.Context, collection string, id uuid.UUID, status store.Status, fields store.Fields) (*store.Record, error) {
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	q := fmt.Sprintf(`UPDATE %s SET status = $1, payload = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, status, payload, created_at, updated_at`, table)

	rec, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) (store.Record, error) {
		return repository.QueryOne(ctx, tx, q, []any{string(status), payload, id}, scanRecord(collection))
	})
	if err != nil {
		return nil, repository.MapError(err, store.ErrNotFound, store.ErrConflict)
	}

	s.logger.Info("record updated", "collection", collection, "id", id)
	return &rec, nil
}

func (s *Store) Delete(ctx context.Context, collection string, id uuid.UUID) error {
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	q := fmt.Sprintf("DELETE FROM %s WHERE id = $1", table)
	if _, err := s.db.ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("delete %s: %w", collection, err)
	}

	s.logger.Info("record deleted", "collection", collection, "id", id)
	return nil
}

func (s *Store) DeleteMany(ctx context.Context, collection string, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	table, err := tableName(collection)
	if err != nil {
		return err
	}

	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	q, args := query.NewBuilder(table).WhereIn("id", values).BuildDelete()
	_, err = repository.WithTx(ctx, s.db, func(tx *sql.Tx) (struct{}, error) {
		_, err := tx.ExecContext(ctx, q, args...)
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("delete many %s: %w", collection, err)
	}

	s.logger.Info("records deleted", "collection", collection, "count", len(ids))
	return nil
}

func (s *Store) UpdateMany(ctx context.Context, collection string, ids []uuid.UUID, fields store.Fields) ([]store.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	table, err := tableName(collection)
	if err != nil {
		return nil, err
	}

	// Field merging happens per record in one transaction so the batch
	// stays all-or-nothing.
	records, err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) ([]store.Record, error) {
		updated := make([]store.Record, 0, len(ids))
		for _, id := range ids {
			selectQ := fmt.Sprintf(
				"SELECT id, status, payload, created_at, updated_at FROM %s WHERE id = $1 FOR UPDATE", table)
			rec, err := repository.QueryOne(ctx, tx, selectQ, []any{id}, scanRecord(collection))
			if err != nil {
				return nil, err
			}

			payload, err := json.Marshal(rec.Fields.Merge(fields))
			if err != nil {
				return nil, fmt.Errorf("encode payload: %w", err)
			}

			updateQ := fmt.Sprintf(`UPDATE %s SET payload = $1, updated_at = NOW()
				WHERE id = $2
				RETURNING id, status, payload, created_at, updated_at`, table)
			rec, err = repository.QueryOne(ctx, tx, updateQ, []any{payload, id}, scanRecord(collection))
			if err != nil {
				return nil, err
			}
			updated = append(updated, rec)
		}
		return updated, nil
	})
	if err != nil {
		return nil, repository.MapError(err, store.ErrNotFound, store.ErrConflict)
	}

	s.logger.Info("records updated", "collection", collection, "count", len(records))
	return records, nil
}

func scanRecord(collection string) func(repository.Scanner) (store.Record, error) {
	return func(sc repository.Scanner) (store.Record, error) {
		var (
			rec     store.Record
			status  string
			payload []byte
			created time.Time
			updated time.Time
		)
		if err := sc.Scan(&rec.ID, &status, &payload, &created, &updated); err != nil {
			return rec, err
		}

		fields := store.NewFields()
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &fields); err != nil {
				return rec, fmt.Errorf("decode payload: %w", err)
			}
		}

		rec.Collection = collection
		rec.Status = store.Status(status)
		rec.Fields = fields
		rec.CreatedAt = created
		rec.UpdatedAt = updated
		return rec, nil
	}
}

func tableName(collection string) (string, error) {
	if !tablePattern.MatchString(collection) {
		return "", fmt.Errorf("invalid collection name: %q", collection)
	}
	return collection, nil
}
