// Package query builds SQL for collection record tables. Every table
// shares one shape — typed id/status/timestamp columns plus a JSONB
// payload — so field names resolve either to a column or to a payload
// accessor.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Record table columns common to every collection.
const selectColumns = "id, status, payload, created_at, updated_at"

type condition struct {
	clause string
	args   []any
}

// Builder constructs SQL for one collection table using a fluent API with
// automatic parameter numbering.
type Builder struct {
	table      string
	conditions []condition
	sorts      []SortField
	limit      int
	offset     int
}

// NewBuilder creates a Builder for the given collection table.
func NewBuilder(table string) *Builder {
	return &Builder{table: table}
}

// fieldPattern bounds the field names that may appear in SQL text.
// Sort and filter fields arrive from request parameters, so anything
// outside this shape is rejected rather than interpolated.
var fieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Column resolves a field name to its SQL expression: known record
// columns map directly, well-formed names read a scalar payload key,
// and anything else resolves to empty so callers drop it.
func Column(field string) string {
	switch field {
	case "id", "status", "created_at", "updated_at":
		return field
	}
	if !fieldPattern.MatchString(field) {
		return ""
	}
	return fmt.Sprintf("payload->'scalars'->>'%s'", field)
}

// WhereEquals adds an equality condition. Empty values and malformed
// field names are ignored.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	col := Column(field)
	if col == "" || value == nil || value == "" {
		return b
	}
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s = $%%d", col),
		args:   []any{value},
	})
	return b
}

// WhereIn adds an IN condition. Empty value sets and malformed field
// names are ignored.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	col := Column(field)
	if col == "" || len(values) == 0 {
		return b
	}
	placeholders := make([]string, len(values))
	for i := range values {
		placeholders[i] = "$%d"
	}
	b.conditions = append(b.conditions, condition{
		clause: fmt.Sprintf("%s IN (%s)", col, strings.Join(placeholders, ", ")),
		args:   values,
	})
	return b
}

// WhereSearch adds a case-insensitive match against the whole payload.
// Empty terms are ignored.
func (b *Builder) WhereSearch(term string) *Builder {
	if term == "" {
		return b
	}
	b.conditions = append(b.conditions, condition{
		clause: "payload::text ILIKE $%d",
		args:   []any{"%" + term + "%"},
	})
	return b
}

// OrderBy appends sort fields. Without any, listings fall back to
// newest-first.
func (b *Builder) OrderBy(sorts ...SortField) *Builder {
	b.sorts = append(b.sorts, sorts...)
	return b
}

// Page applies a limit and offset. Non-positive limits disable paging.
func (b *Builder) Page(limit, offset int) *Builder {
	b.limit = limit
	b.offset = offset
	return b
}

// BuildSelect returns the listing query with conditions, ordering, and
// optional paging.
func (b *Builder) BuildSelect() (string, []any) {
	where, args := b.buildWhere()
	sql := fmt.Sprintf("SELECT %s FROM %s%s%s", selectColumns, b.table, where, b.buildOrderBy())
	if b.limit > 0 {
		sql = fmt.Sprintf("%s LIMIT %d OFFSET %d", sql, b.limit, b.offset)
	}
	return sql, args
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", b.table, where), args
}

// BuildDelete returns a DELETE statement with the current conditions.
func (b *Builder) BuildDelete() (string, []any) {
	where, args := b.buildWhere()
	return fmt.Sprintf("DELETE FROM %s%s", b.table, where), args
}

// BuildSingle returns a SELECT for one record by id.
func (b *Builder) BuildSingle(id any) (string, []any) {
	return fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", selectColumns, b.table), []any{id}
}

func (b *Builder) buildOrderBy() string {
	clauses := make([]string, 0, len(b.sorts))
	for _, s := range b.sorts {
		col := Column(s.Field)
		if col == "" {
			continue
		}
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		clauses = append(clauses, fmt.Sprintf("%s %s", col, dir))
	}
	if len(clauses) == 0 {
		clauses = append(clauses, "created_at DESC")
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func (b *Builder) buildWhere() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(b.conditions))
	args := make([]any, 0)
	param := 1

	for _, cond := range b.conditions {
		clause := cond.clause
		for _, arg := range cond.args {
			clause = strings.Replace(clause, "$%d", fmt.Sprintf("$%d", param), 1)
			args = append(args, arg)
			param++
		}
		clauses = append(clauses, clause)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
