package console

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

// BulkOp is one mutating operation applied to a whole selection set.
type BulkOp string

// Bulk operations over message records.
const (
	BulkMarkRead   BulkOp = "markRead"
	BulkMarkUnread BulkOp = "markUnread"
	BulkStar       BulkOp = "star"
	BulkUnstar     BulkOp = "unstar"
	BulkArchive    BulkOp = "archive"
	BulkUnarchive  BulkOp = "unarchive"
	BulkMarkSpam   BulkOp = "markSpam"
	BulkUnmarkSpam BulkOp = "unmarkSpam"
	BulkDelete     BulkOp = "delete"
)

// ParseBulkOp maps an operation name to its BulkOp.
func ParseBulkOp(name string) (BulkOp, bool) {
	switch op := BulkOp(name); op {
	case BulkMarkRead, BulkMarkUnread, BulkStar, BulkUnstar,
		BulkArchive, BulkUnarchive, BulkMarkSpam, BulkUnmarkSpam, BulkDelete:
		return op, true
	}
	return "", false
}

// Destructive reports whether the operation permanently removes records
// and therefore requires confirmation before applying.
func (op BulkOp) Destructive() bool { return op == BulkDelete }

// FieldChanges returns the partial field update the operation applies.
// The second return is false for delete, which maps to a batched removal
// instead.
func (op BulkOp) FieldChanges(now time.Time) (store.Fields, bool) {
	f := store.NewFields()
	switch op {
	case BulkMarkRead, BulkMarkUnread:
		f.SetScalar(schema.MessageFieldRead, strconv.FormatBool(op == BulkMarkRead))
	case BulkStar, BulkUnstar:
		f.SetScalar(schema.MessageFieldStarred, strconv.FormatBool(op == BulkStar))
	case BulkArchive:
		f.SetScalar(schema.MessageFieldArchived, "true")
		f.SetScalar(schema.MessageFieldArchivedAt, now.UTC().Format(time.RFC3339))
	case BulkUnarchive:
		f.SetScalar(schema.MessageFieldArchived, "false")
		f.SetScalar(schema.MessageFieldArchivedAt, "")
	case BulkMarkSpam, BulkUnmarkSpam:
		f.SetScalar(schema.MessageFieldSpam, strconv.FormatBool(op == BulkMarkSpam))
	default:
		return f, false
	}
	return f, true
}

// ToggleSelect flips one visible record in or out of the selection set.
// Identifiers outside the active listing are ignored, keeping the
// selection a subset of what is visible.
func (s *Session) ToggleSelect(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	if _, selected := s.selection[id]; selected {
		delete(s.selection, id)
		return true
	}
	for _, rec := range s.records {
		if rec.ID == id {
			s.selection[id] = struct{}{}
			return true
		}
	}
	return false
}

// SelectAllVisible selects every record in the active listing.
func (s *Session) SelectAllVisible() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for _, rec := range s.records {
		s.selection[rec.ID] = struct{}{}
	}
}

// ClearSelection empties the selection set.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = map[uuid.UUID]struct{}{}
}

// Selection returns the selected identifiers in listing order.
func (s *Session) Selection() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectionLocked()
}

func (s *Session) selectionLocked() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.selection))
	for _, rec := range s.records {
		if _, ok := s.selection[rec.ID]; ok {
			ids = append(ids, rec.ID)
		}
	}
	return ids
}

// ApplyBulk applies one operation to the whole selection set in a single
// batched store call. Delete is gated behind a confirmation showing the
// affected count; declining leaves the selection unchanged and issues no
// store call. The batch is all-or-nothing: on success the selection is
// cleared, the cache invalidated, and the listing refetched; on failure
// the selection is preserved for retry.
func (s *Session) ApplyBulk(ctx context.Context, op BulkOp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	ids := s.selectionLocked()
	if len(ids) == 0 {
		return nil
	}

	if op.Destructive() {
		prompt := fmt.Sprintf("Delete %d message(s)? This cannot be undone.", len(ids))
		if !s.confirm.Confirm(prompt) {
			return nil
		}
	}

	s.setStatusLocked(StateSaving, "")

	var err error
	if changes, isUpdate := op.FieldChanges(time.Now()); isUpdate {
		_, err = s.store.UpdateMany(ctx, s.collection.Name, ids, changes)
	} else {
		err = s.store.DeleteMany(ctx, s.collection.Name, ids)
	}
	if err != nil {
		s.setStatusLocked(StateError, err.Error())
		return fmt.Errorf("bulk %s: %w", op, err)
	}

	verb := "updated"
	if op.Destructive() {
		verb = "deleted"
	}
	s.selection = map[uuid.UUID]struct{}{}
	s.setStatusLocked(StateSuccess, fmt.Sprintf("%d message(s) %s", len(ids), verb))
	s.signals.Invalidate(ctx, s.collection.Name)

	if err := s.refetchLocked(ctx); err != nil {
		s.logger.Warn("list refresh after bulk operation failed", "error", err)
	}
	return nil
}
