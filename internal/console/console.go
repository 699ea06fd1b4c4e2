// Package console implements the record-lifecycle controller at the heart
// of the admin console: one editing session per collection owning the
// list/add/edit view state, the in-progress draft and its dirty signal,
// save and delete orchestration against the remote store, attachment
// lifecycles, bulk message operations, and transient status banners.
//
// A Session serializes all state mutation behind a mutex, standing in for
// the single UI event loop of the original environment. Remote calls run
// synchronously under the caller's context; once dispatched they are
// never cancelled mid-flight. Callers are responsible for not issuing a
// second Save while one is in flight (disable the triggering control
// while UIStatus reports saving).
package console

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/internal/storage"
)

// Mode is the active view of a session. Exactly one is active at a time.
type Mode string

// Session view modes.
const (
	ModeList Mode = "list"
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

// Confirmer gates destructive or data-losing actions behind a blocking
// yes/no prompt. Returning false aborts the action with no state change.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Invalidator broadcasts that a collection's public cache is stale after
// a successful mutation. Implementations are fire-and-forget.
type Invalidator interface {
	Invalidate(ctx context.Context, collection string)
}

// Timings controls the session's scheduled tasks: status banner decay
// and the add-mode auto return to the list view.
type Timings struct {
	SuccessTTL        time.Duration
	ErrorTTL          time.Duration
	ReturnToListDelay time.Duration
}

func (t *Timings) withDefaults() {
	if t.SuccessTTL <= 0 {
		t.SuccessTTL = 5 * time.Second
	}
	if t.ErrorTTL <= 0 {
		t.ErrorTTL = 4 * time.Second
	}
	if t.ReturnToListDelay <= 0 {
		t.ReturnToListDelay = 1500 * time.Millisecond
	}
}

// Session is one collection's editing session. Create with NewSession,
// release with Close.
type Session struct {
	collection *schema.Collection
	store      store.Store
	objects    storage.System
	signals    Invalidator
	confirm    Confirmer
	logger     *slog.Logger
	timings    Timings

	mu        sync.Mutex
	mode      Mode
	query     store.Query
	records   []store.Record
	selected  *store.Record
	draft     *draft
	baseline  store.Fields
	status    UIStatus
	selection map[uuid.UUID]struct{}

	statusGen   uint64
	modeSeq     uint64
	statusTimer *time.Timer
	returnTimer *time.Timer
	closed      bool
}

// NewSession creates a session for one collection in list mode.
func NewSession(
	collection *schema.Collection,
	st store.Store,
	objects storage.System,
	signals Invalidator,
	confirm Confirmer,
	logger *slog.Logger,
	timings Timings,
) *Session {
	timings.withDefaults()
	return &Session{
		collection: collection,
		store:      st,
		objects:    objects,
		signals:    signals,
		confirm:    confirm,
		logger:     logger.With("system", "console", "collection", collection.Name),
		timings:    timings,
		mode:       ModeList,
		baseline:   store.NewFields(),
		selection:  map[uuid.UUID]struct{}{},
	}
}

// Close cancels all scheduled tasks and marks the session unusable.
// Pending timer callbacks observe the closed flag and become no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.statusGen++
	s.modeSeq++
	if s.statusTimer != nil {
		s.statusTimer.Stop()
	}
	if s.returnTimer != nil {
		s.returnTimer.Stop()
	}
}

// Collection returns the session's collection definition.
func (s *Session) Collection() *schema.Collection { return s.collection }

// Mode returns the active view mode.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Selected returns a copy of the record being edited, or nil outside
// edit mode.
func (s *Session) Selected() *store.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	rec := *s.selected
	rec.Fields = rec.Fields.Clone()
	return &rec
}

// Records returns the records visible under the active query.
func (s *Session) Records() []store.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.Record, len(s.records))
	copy(out, s.records)
	return out
}

// Query returns the active filter.
func (s *Session) Query() store.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// EnterAdd switches to add mode with an empty draft. A dirty draft
// requires discard confirmation; declining leaves the session unchanged.
func (s *Session) EnterAdd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if s.dirtyLocked() && !s.confirm.Confirm("Discard unsaved changes?") {
		return false
	}

	s.transitionLocked(ModeAdd, nil)
	return true
}

// EnterEdit switches to edit mode for the given record, rehydrating the
// draft from its fields. Switching away from a dirty draft of a
// different record requires discard confirmation.
func (s *Session) EnterEdit(rec store.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	sameRecord := s.selected != nil && s.selected.ID == rec.ID
	if s.dirtyLocked() && !sameRecord && !s.confirm.Confirm("Discard unsaved changes?") {
		return false
	}

	s.transitionLocked(ModeEdit, &rec)
	return true
}

// Cancel returns to list mode, discarding the draft. A dirty draft
// requires discard confirmation.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if s.dirtyLocked() && !s.confirm.Confirm("Discard unsaved changes?") {
		return false
	}

	s.transitionLocked(ModeList, nil)
	return true
}

// Refresh refetches the visible records under the active query and
// prunes the selection set to the identifiers still visible.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.refetchLocked(ctx)
}

// SetQuery replaces the active filter, clears the selection set, and
// refetches the listing.
func (s *Session) SetQuery(ctx context.Context, q store.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.query = q
	s.selection = map[uuid.UUID]struct{}{}
	return s.refetchLocked(ctx)
}

// transitionLocked performs a mode change: cancels the pending return
// task, installs the new draft and baseline, and enforces the
// selected-record invariant.
func (s *Session) transitionLocked(mode Mode, rec *store.Record) {
	s.modeSeq++
	if s.returnTimer != nil {
		s.returnTimer.Stop()
		s.returnTimer = nil
	}

	s.mode = mode
	switch mode {
	case ModeEdit:
		s.selected = rec
		s.baseline = rec.Fields.Clone()
		s.draft = newDraft(rec.Fields)
	case ModeAdd:
		s.selected = nil
		s.baseline = store.NewFields()
		s.draft = newDraft(store.NewFields())
	default:
		s.selected = nil
		s.baseline = store.NewFields()
		s.draft = nil
	}
}

// scheduleReturnLocked arms the add-mode auto return to list. The
// captured sequence invalidates the task if the mode changes first.
func (s *Session) scheduleReturnLocked(ctx context.Context) {
	seq := s.modeSeq
	if s.returnTimer != nil {
		s.returnTimer.Stop()
	}
	s.returnTimer = time.AfterFunc(s.timings.ReturnToListDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || seq != s.modeSeq {
			return
		}
		s.transitionLocked(ModeList, nil)
		if err := s.refetchLocked(ctx); err != nil {
			s.logger.Warn("list refresh after save failed", "error", err)
		}
	})
}

func (s *Session) refetchLocked(ctx context.Context) error {
	records, err := s.store.List(ctx, s.collection.Name, s.query)
	if err != nil {
		s.setStatusLocked(StateError, err.Error())
		return err
	}

	s.records = records
	s.pruneSelectionLocked()
	return nil
}

// pruneSelectionLocked drops selected identifiers no longer visible,
// keeping the selection a subset of the active listing.
func (s *Session) pruneSelectionLocked() {
	visible := make(map[uuid.UUID]struct{}, len(s.records))
	for _, rec := range s.records {
		visible[rec.ID] = struct{}{}
	}
	for id := range s.selection {
		if _, ok := visible[id]; !ok {
			delete(s.selection, id)
		}
	}
}
