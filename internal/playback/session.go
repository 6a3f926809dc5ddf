package playback

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the per-attempt replay guard. A session has two states: active
// (accepting marks) and superseded (a newer session replaced it; all calls
// against the old id are no-ops). Reset is the only transition; there is no
// explicit teardown.
type Session struct {
	mu     sync.Mutex
	id     string
	played map[string]struct{}
}

// NewSession returns an active session with a fresh opaque id.
func NewSession() *Session {
	return &Session{
		id:     uuid.NewString(),
		played: make(map[string]struct{}),
	}
}

// ID returns the current session id.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Reset supersedes the current session wholesale: new id, empty played set.
// It returns the new id.
func (s *Session) Reset() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.NewString()
	s.played = make(map[string]struct{})
	return s.id
}

// TryMarkPlayed records chordKey as played and reports whether this was the
// first play within the session identified by sessionID. The check and
// insert are a single operation under the lock, so two near-simultaneous
// attempts for the same chord cannot both succeed. A superseded sessionID
// always returns false.
func (s *Session) TryMarkPlayed(sessionID, chordKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sessionID != s.id {
		return false
	}
	if _, done := s.played[chordKey]; done {
		return false
	}
	s.played[chordKey] = struct{}{}
	return true
}
