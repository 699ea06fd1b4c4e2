package console

import (
	"fmt"
	"slices"
	"strings"

	"github.com/raunak-choudhary/portfolio-admin/internal/store"
)

// draft is the in-memory shadow of a record's field set for one editing
// session. It is created empty in add mode or as a structural copy of
// the selected record in edit mode, and discarded on cancel, save
// success, or mode change.
type draft struct {
	fields  store.Fields
	errors  map[string]string
	touched bool
}

func newDraft(base store.Fields) *draft {
	return &draft{
		fields: base.Clone(),
		errors: map[string]string{},
	}
}

// SetField replaces one scalar field in the draft, marking it touched and
// clearing any validation error previously recorded for that field.
func (s *Session) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.draft == nil {
		return ErrNoDraft
	}

	s.draft.fields.SetScalar(name, value)
	s.draft.touched = true
	delete(s.draft.errors, name)
	return nil
}

// FieldValue returns the draft's scalar value for name.
func (s *Session) FieldValue(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return ""
	}
	return s.draft.fields.Scalar(name)
}

// ListValue returns a copy of the draft's list value for name.
func (s *Session) ListValue(name string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return nil
	}
	return slices.Clone(s.draft.fields.List(name))
}

// DraftFields returns a copy of the whole draft payload.
func (s *Session) DraftFields() store.Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return store.NewFields()
	}
	return s.draft.fields.Clone()
}

// FieldErrors returns the current field-scoped validation errors.
func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[string]string{}
	if s.draft == nil {
		return out
	}
	for field, msg := range s.draft.errors {
		out[field] = msg
	}
	return out
}

// AddItem appends a value to a list field. The value is trimmed; blanks,
// duplicates, and full lists record a field error, while items over the
// field's character limit are dropped silently. Returns whether the item
// was added.
func (s *Session) AddItem(field, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false, ErrClosed
	}
	if s.draft == nil {
		return false, ErrNoDraft
	}

	rule, ok := s.collection.Lists[field]
	if !ok {
		return false, ErrUnknownField
	}

	value = strings.TrimSpace(value)
	if len([]rune(value)) > rule.MaxItemLength {
		return false, nil
	}

	switch {
	case value == "":
		s.draft.errors[field] = "value cannot be empty"
		return false, nil
	case slices.Contains(s.draft.fields.List(field), value):
		s.draft.errors[field] = "value already added"
		return false, nil
	case len(s.draft.fields.List(field)) >= rule.MaxItems:
		s.draft.errors[field] = fmt.Sprintf("at most %d items", rule.MaxItems)
		return false, nil
	}

	s.draft.fields.SetList(field, append(s.draft.fields.List(field), value))
	s.draft.touched = true
	delete(s.draft.errors, field)
	return true, nil
}

// RemoveItem deletes the item at index from a list field. Out-of-range
// indexes are a no-op.
func (s *Session) RemoveItem(field string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.draft == nil {
		return ErrNoDraft
	}
	if _, ok := s.collection.Lists[field]; !ok {
		return ErrUnknownField
	}

	items := s.draft.fields.List(field)
	if index < 0 || index >= len(items) {
		return nil
	}

	s.draft.fields.SetList(field, slices.Delete(slices.Clone(items), index, index+1))
	s.draft.touched = true
	delete(s.draft.errors, field)
	return nil
}
