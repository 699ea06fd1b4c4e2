package console

import "time"

// State is the transient UI status of a session.
type State string

// UI status states.
const (
	StateNone    State = ""
	StateSaving  State = "saving"
	StateSuccess State = "success"
	StateError   State = "error"
)

// UIStatus pairs a status state with an optional human-readable message.
// Success and error states decay back to none after their configured
// lifetime.
type UIStatus struct {
	State   State  `json:"state"`
	Message string `json:"message,omitempty"`
}

// UIStatus returns the current transient status.
func (s *Session) UIStatus() UIStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// setStatusLocked transitions the status and restarts the single-shot
// decay timer for terminal states. Bumping the generation invalidates
// any previously armed decay so at most one is ever live.
func (s *Session) setStatusLocked(state State, message string) {
	s.status = UIStatus{State: state, Message: message}
	s.statusGen++

	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}

	var ttl time.Duration
	switch state {
	case StateSuccess:
		ttl = s.timings.SuccessTTL
	case StateError:
		ttl = s.timings.ErrorTTL
	default:
		return
	}

	gen := s.statusGen
	s.statusTimer = time.AfterFunc(ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || gen != s.statusGen {
			return
		}
		s.status = UIStatus{}
	})
}
