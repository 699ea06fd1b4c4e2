package console

import "github.com/raunak-choudhary/portfolio-admin/internal/store"

// Dirty reports whether the draft holds unsaved work. In list mode the
// signal is always false. With an empty baseline (a fresh add form) any
// non-empty field already represents loseable work; once a baseline
// exists the draft is compared structurally against it — scalars by
// value, lists by order-sensitive content.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirtyLocked()
}

func (s *Session) dirtyLocked() bool {
	if s.mode == ModeList || s.draft == nil {
		return false
	}
	return fieldsDirty(s.mode, s.draft.fields, s.baseline)
}

func fieldsDirty(mode Mode, draft, baseline store.Fields) bool {
	if mode == ModeAdd && baseline.Empty() {
		return !draft.Empty()
	}
	return !draft.Equal(baseline)
}
