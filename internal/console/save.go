package console

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

// Save validates the draft and dispatches it to the remote store:
// insert in add mode, update by identifier in edit mode.
//
// Validation failure records field errors and an error status without
// touching the network. Remote failure surfaces an error status with the
// draft and its errors preserved so the user can retry without data
// loss. On success the mutation response is adopted as the new baseline,
// the collection's public cache is invalidated, and the listing is
// refetched; add mode additionally schedules the auto return to list so
// the success banner is visible before the view changes.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.draft == nil {
		return ErrNoDraft
	}

	if errs := s.collection.Validate(s.draft.fields); len(errs) > 0 {
		for field, msg := range errs {
			s.draft.errors[field] = msg
		}
		s.setStatusLocked(StateError, "please fix the highlighted fields")
		return ErrValidation
	}

	payload := s.collection.Normalize(s.draft.fields)
	status := store.StatusActive
	if v := payload.Scalar("status"); v != "" {
		status = store.Status(v)
	}

	s.setStatusLocked(StateSaving, "")

	var (
		rec *store.Record
		err error
	)
	if s.mode == ModeAdd {
		rec, err = s.store.Insert(ctx, s.collection.Name, status, payload)
	} else {
		rec, err = s.store.Update(ctx, s.collection.Name, s.selected.ID, status, payload)
	}
	if err != nil {
		s.setStatusLocked(StateError, err.Error())
		return fmt.Errorf("save %s: %w", s.collection.Name, err)
	}

	s.setStatusLocked(StateSuccess, fmt.Sprintf("%s saved", s.collection.Title))
	s.signals.Invalidate(ctx, s.collection.Name)

	// Adopt the mutation response as the new baseline so the dirty
	// signal drops without waiting for the refetch.
	s.baseline = rec.Fields.Clone()
	s.draft = newDraft(rec.Fields)

	if s.mode == ModeAdd {
		s.scheduleReturnLocked(context.WithoutCancel(ctx))
	} else {
		s.selected = rec
	}

	if err := s.refetchLocked(ctx); err != nil {
		s.logger.Warn("list refresh after save failed", "error", err)
	}
	return nil
}

// DeleteRecord permanently removes a record and, best-effort, its
// attached files. The action is gated behind confirmation; declining is
// a no-op. Deleting the record currently being edited returns the
// session to list mode.
func (s *Session) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	prompt := fmt.Sprintf("Delete this %s record? Attached files will also be removed.", s.collection.Title)
	if !s.confirm.Confirm(prompt) {
		return nil
	}

	rec, err := s.store.Find(ctx, s.collection.Name, id)
	if err != nil {
		s.setStatusLocked(StateError, err.Error())
		return fmt.Errorf("delete %s: %w", s.collection.Name, err)
	}

	if err := s.store.Delete(ctx, s.collection.Name, id); err != nil {
		s.setStatusLocked(StateError, err.Error())
		return fmt.Errorf("delete %s: %w", s.collection.Name, err)
	}

	// A storage orphan is acceptable, a dangling reference is not: the
	// record is gone either way, cleanup failures are only logged.
	s.removeAttachmentObjectsLocked(ctx, rec.Fields)

	if s.selected != nil && s.selected.ID == id {
		s.transitionLocked(ModeList, nil)
	}
	delete(s.selection, id)

	s.setStatusLocked(StateSuccess, fmt.Sprintf("%s deleted", s.collection.Title))
	s.signals.Invalidate(ctx, s.collection.Name)

	if err := s.refetchLocked(ctx); err != nil {
		s.logger.Warn("list refresh after delete failed", "error", err)
	}
	return nil
}

// removeAttachmentObjectsLocked deletes every storage object referenced
// by the payload's attachment fields, logging failures.
func (s *Session) removeAttachmentObjectsLocked(ctx context.Context, fields store.Fields) {
	var keys []string
	for field, rule := range s.collection.Attachments {
		values := []string{fields.Scalar(field)}
		if rule.Multi {
			values = fields.List(field)
		}
		for _, url := range values {
			if key, ok := s.objects.KeyFromURL(url); ok {
				keys = append(keys, key)
			}
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.objects.Remove(ctx, keys...); err != nil {
		s.logger.Error("storage cleanup failed", "keys", keys, "error", err)
	}
}
