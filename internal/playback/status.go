package playback

import "sync"

// Status is the UI-facing view of the playback core.
type Status struct {
	IsLoading bool   `json:"is_loading"`
	IsPlaying bool   `json:"is_playing"`
	LastError string `json:"last_error,omitempty"`
}

// StatusReporter holds the single process-wide observable Status. Setters
// are generation-aware: every PlayChord run is tagged with the generation it
// obtained from NextGeneration, and a write from a superseded generation is
// silently dropped. This is what keeps a slow, stale download from flipping
// IsPlaying back on after a newer chord has started.
type StatusReporter struct {
	mu      sync.Mutex
	gen     uint64
	cur     Status
	subs    []chan Status
	started []chan string
}

// NewStatusReporter returns a reporter with generation 0 active and an
// all-false status.
func NewStatusReporter() *StatusReporter {
	return &StatusReporter{}
}

// NextGeneration supersedes all prior generations and returns the new one.
// The observable status is zeroed at the same time: a superseded run cannot
// clear its own flags anymore (its writes are stale), so the flags must not
// outlive it.
func (r *StatusReporter) NextGeneration() uint64 {
	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.cur = Status{}
	cur := r.cur
	subs := r.subs
	r.mu.Unlock()
	broadcast(subs, cur)
	return gen
}

// Generation returns the currently active generation.
func (r *StatusReporter) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// Snapshot returns a copy of the current status.
func (r *StatusReporter) Snapshot() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cur
}

// SetLoading sets IsLoading if gen is still active, and reports whether the
// write was applied.
func (r *StatusReporter) SetLoading(gen uint64, v bool) bool {
	return r.update(gen, func(s *Status) { s.IsLoading = v })
}

// SetPlaying sets IsPlaying if gen is still active.
func (r *StatusReporter) SetPlaying(gen uint64, v bool) bool {
	return r.update(gen, func(s *Status) { s.IsPlaying = v })
}

// SetError records a user-visible error message if gen is still active.
// Only configuration errors and total playback failures go through here.
func (r *StatusReporter) SetError(gen uint64, msg string) bool {
	return r.update(gen, func(s *Status) { s.LastError = msg })
}

// ClearError drops the last error unconditionally. Called on attempt/round
// resets, which are not tied to a playback generation.
func (r *StatusReporter) ClearError() {
	r.mu.Lock()
	r.cur.LastError = ""
	cur := r.cur
	subs := r.subs
	r.mu.Unlock()
	broadcast(subs, cur)
}

func (r *StatusReporter) update(gen uint64, fn func(*Status)) bool {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return false
	}
	fn(&r.cur)
	cur := r.cur
	subs := r.subs
	r.mu.Unlock()
	broadcast(subs, cur)
	return true
}

// Subscribe returns a channel receiving status snapshots after each applied
// change. Slow subscribers miss intermediate snapshots rather than blocking
// the engines.
func (r *StatusReporter) Subscribe() <-chan Status {
	ch := make(chan Status, 16)
	r.mu.Lock()
	r.subs = append(r.subs, ch)
	r.mu.Unlock()
	return ch
}

// Started returns a channel receiving the chord key each time playback
// begins. Consumed by the view layer for animation triggers only.
func (r *StatusReporter) Started() <-chan string {
	ch := make(chan string, 16)
	r.mu.Lock()
	r.started = append(r.started, ch)
	r.mu.Unlock()
	return ch
}

// NotifyStarted fires the playback-started event if gen is still active.
func (r *StatusReporter) NotifyStarted(gen uint64, chordKey string) bool {
	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return false
	}
	started := r.started
	r.mu.Unlock()
	broadcast(started, chordKey)
	return true
}

func broadcast[T any](chs []chan T, v T) {
	for _, ch := range chs {
		select {
		case ch <- v:
		default:
		}
	}
}
