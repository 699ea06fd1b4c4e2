package console_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/raunak-choudhary/portfolio-admin/internal/console"
	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

func messageRecord(email string) store.Record {
	fields := store.NewFields()
	fields.SetScalar("email", email)
	fields.SetScalar(schema.MessageFieldRead, "false")
	return store.Record{
		ID:         uuid.New(),
		Collection: "messages",
		Status:     store.StatusActive,
		Fields:     fields,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}

func TestParseBulkOp(t *testing.T) {
	for _, name := range []string{
		"markRead", "markUnread", "star", "unstar",
		"archive", "unarchive", "markSpam", "unmarkSpam", "delete",
	} {
		if _, ok := console.ParseBulkOp(name); !ok {
			t.Errorf("ParseBulkOp(%q) not recognized", name)
		}
	}
	if _, ok := console.ParseBulkOp("purge"); ok {
		t.Error("ParseBulkOp(purge) recognized, want rejection")
	}
}

func TestBulkOp_FieldChanges(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		op   console.BulkOp
		want map[string]string
	}{
		{console.BulkMarkRead, map[string]string{schema.MessageFieldRead: "true"}},
		{console.BulkMarkUnread, map[string]string{schema.MessageFieldRead: "false"}},
		{console.BulkStar, map[string]string{schema.MessageFieldStarred: "true"}},
		{console.BulkUnstar, map[string]string{schema.MessageFieldStarred: "false"}},
		{console.BulkArchive, map[string]string{
			schema.MessageFieldArchived:   "true",
			schema.MessageFieldArchivedAt: "2026-03-14T09:30:00Z",
		}},
		{console.BulkUnarchive, map[string]string{
			schema.MessageFieldArchived:   "false",
			schema.MessageFieldArchivedAt: "",
		}},
		{console.BulkMarkSpam, map[string]string{schema.MessageFieldSpam: "true"}},
		{console.BulkUnmarkSpam, map[string]string{schema.MessageFieldSpam: "false"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			changes, isUpdate := tt.op.FieldChanges(now)
			if !isUpdate {
				t.Fatalf("FieldChanges(%s) isUpdate = false, want true", tt.op)
			}
			if len(changes.Scalars) != len(tt.want) {
				t.Errorf("FieldChanges(%s) = %v, want %v", tt.op, changes.Scalars, tt.want)
			}
			for field, want := range tt.want {
				if got := changes.Scalar(field); got != want {
					t.Errorf("FieldChanges(%s)[%s] = %q, want %q", tt.op, field, got, want)
				}
			}
		})
	}

	if _, isUpdate := console.BulkDelete.FieldChanges(now); isUpdate {
		t.Error("FieldChanges(delete) isUpdate = true, want false")
	}
}

func TestSession_ToggleSelect_OnlyVisible(t *testing.T) {
	a, b := messageRecord("a@example.com"), messageRecord("b@example.com")
	f := newFixture(t, schema.Messages, a, b)

	if !f.session.ToggleSelect(a.ID) {
		t.Error("ToggleSelect(visible) = false, want true")
	}
	if f.session.ToggleSelect(uuid.New()) {
		t.Error("ToggleSelect(invisible) = true, want false")
	}
	if got := len(f.session.Selection()); got != 1 {
		t.Errorf("len(Selection()) = %d, want 1", got)
	}

	// Toggling again deselects.
	f.session.ToggleSelect(a.ID)
	if got := len(f.session.Selection()); got != 0 {
		t.Errorf("len(Selection()) = %d after re-toggle, want 0", got)
	}
}

func TestSession_Selection_ListingOrder(t *testing.T) {
	a, b, c := messageRecord("a@example.com"), messageRecord("b@example.com"), messageRecord("c@example.com")
	f := newFixture(t, schema.Messages, a, b, c)

	f.session.ToggleSelect(c.ID)
	f.session.ToggleSelect(a.ID)

	got := f.session.Selection()
	if len(got) != 2 || got[0] != a.ID || got[1] != c.ID {
		t.Errorf("Selection() = %v, want listing order [a c]", got)
	}
}

func TestSession_SetQuery_ClearsSelection(t *testing.T) {
	a := messageRecord("a@example.com")
	f := newFixture(t, schema.Messages, a)

	f.session.SelectAllVisible()
	if err := f.session.SetQuery(context.Background(), store.Query{Search: "nothing"}); err != nil {
		t.Fatalf("SetQuery() error = %v", err)
	}
	if got := len(f.session.Selection()); got != 0 {
		t.Errorf("len(Selection()) = %d after query change, want 0", got)
	}
}

func TestSession_ApplyBulk_EmptySelection(t *testing.T) {
	f := newFixture(t, schema.Messages, messageRecord("a@example.com"))

	if err := f.session.ApplyBulk(context.Background(), console.BulkMarkRead); err != nil {
		t.Fatalf("ApplyBulk() error = %v", err)
	}
	if f.store.lastBatchIDs != nil {
		t.Error("ApplyBulk() with empty selection issued a store call")
	}
}

func TestSession_ApplyBulk_MarkRead(t *testing.T) {
	a, b := messageRecord("a@example.com"), messageRecord("b@example.com")
	f := newFixture(t, schema.Messages, a, b)

	f.session.SelectAllVisible()
	if err := f.session.ApplyBulk(context.Background(), console.BulkMarkRead); err != nil {
		t.Fatalf("ApplyBulk() error = %v", err)
	}

	if got := len(f.store.lastBatchIDs); got != 2 {
		t.Errorf("batched ids = %d, want 2", got)
	}
	if got := f.store.lastBatchFields.Scalar(schema.MessageFieldRead); got != "true" {
		t.Errorf("batched is_read = %q, want %q", got, "true")
	}
	if got := len(f.session.Selection()); got != 0 {
		t.Errorf("len(Selection()) = %d after success, want 0", got)
	}
	if got := f.session.UIStatus().State; got != console.StateSuccess {
		t.Errorf("UIStatus().State = %q, want %q", got, console.StateSuccess)
	}
	if got := f.session.UIStatus().Message; got != "2 message(s) updated" {
		t.Errorf("UIStatus().Message = %q, want %q", got, "2 message(s) updated")
	}
	if f.signals.count("messages") != 1 {
		t.Errorf("invalidations = %d, want 1", f.signals.count("messages"))
	}
}

func TestSession_ApplyBulk_DeleteDeclined(t *testing.T) {
	a := messageRecord("a@example.com")
	f := newFixture(t, schema.Messages, a)

	f.session.SelectAllVisible()
	f.confirm.answer = false

	if err := f.session.ApplyBulk(context.Background(), console.BulkDelete); err != nil {
		t.Fatalf("ApplyBulk() error = %v", err)
	}
	if f.store.lastBatchIDs != nil {
		t.Error("declined delete issued a store call")
	}
	if got := len(f.session.Selection()); got != 1 {
		t.Errorf("len(Selection()) = %d after declined delete, want 1", got)
	}
}

func TestSession_ApplyBulk_DeleteConfirmed(t *testing.T) {
	a, b := messageRecord("a@example.com"), messageRecord("b@example.com")
	f := newFixture(t, schema.Messages, a, b)

	f.session.SelectAllVisible()
	if err := f.session.ApplyBulk(context.Background(), console.BulkDelete); err != nil {
		t.Fatalf("ApplyBulk() error = %v", err)
	}

	if f.confirm.prompts() != 1 {
		t.Errorf("confirm prompts = %d, want 1", f.confirm.prompts())
	}
	if got := len(f.session.Records()); got != 0 {
		t.Errorf("len(Records()) = %d after confirmed delete, want 0", got)
	}
	if got := f.session.UIStatus().Message; got != "2 message(s) deleted" {
		t.Errorf("UIStatus().Message = %q, want %q", got, "2 message(s) deleted")
	}
}

func TestSession_ApplyBulk_FailurePreservesSelection(t *testing.T) {
	a, b := messageRecord("a@example.com"), messageRecord("b@example.com")
	f := newFixture(t, schema.Messages, a, b)

	f.session.SelectAllVisible()
	f.store.batchErr = errors.New("deadlock detected")

	if err := f.session.ApplyBulk(context.Background(), console.BulkArchive); err == nil {
		t.Fatal("ApplyBulk() error = nil, want batch failure")
	}
	if got := len(f.session.Selection()); got != 2 {
		t.Errorf("len(Selection()) = %d after failure, want 2 (preserved for retry)", got)
	}
	if got := f.session.UIStatus().State; got != console.StateError {
		t.Errorf("UIStatus().State = %q, want %q", got, console.StateError)
	}
	if f.signals.count("messages") != 0 {
		t.Errorf("invalidations = %d after failure, want 0", f.signals.count("messages"))
	}
}
