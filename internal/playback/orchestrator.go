package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"chord-trainer/internal/platform/metrics"
)

var (
	// ErrAlreadyPlayed means the replay guard refused a second playback of
	// the same chord within one attempt. Not a user-visible error.
	ErrAlreadyPlayed = errors.New("chord already played this attempt")

	// ErrUnknownChord means the catalog has no entry for the chord key.
	ErrUnknownChord = errors.New("unknown chord")
)

// Orchestrator is the entry point of the playback core. It owns the session
// generation, supersedes in-flight runs when a new PlayChord arrives, and
// routes requests to the simultaneous or sequential engine.
type Orchestrator struct {
	catalog ChordCatalog
	status  *StatusReporter
	session *Session
	syncEng *SyncEngine
	seqEng  *SeqEngine
	log     *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewOrchestrator wires the playback core. maxFetches <= 0 uses the default
// fan-out bound; metrics may be nil.
func NewOrchestrator(catalog ChordCatalog, fetcher Fetcher, players PlayerFactory, log *slog.Logger, m *metrics.Metrics, maxFetches int) *Orchestrator {
	status := NewStatusReporter()
	return &Orchestrator{
		catalog: catalog,
		status:  status,
		session: NewSession(),
		syncEng: NewSyncEngine(fetcher, players, status, log, m, maxFetches),
		seqEng:  NewSeqEngine(fetcher, players, status, log, m),
		log:     log,
	}
}

// Status exposes the observable playback state for the UI collaborator.
func (o *Orchestrator) Status() *StatusReporter { return o.status }

// PlayChord validates, gates, and starts playback of a chord. The engine
// runs asynchronously; the returned error covers only the synchronous
// checks. Validation of every identifier happens before any fetch is
// issued, so a request that can never succeed causes no network traffic.
func (o *Orchestrator) PlayChord(chordKey string, hint HintType, opt AudioOption) error {
	plan, err := SelectPlan(hint, opt)
	if err != nil {
		return err
	}

	ids, err := o.catalog.Clips(chordKey)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownChord, chordKey)
	}

	if err := ValidateAll(ids); err != nil {
		o.log.Error("chord configuration invalid",
			slog.String("chord", chordKey),
			slog.String("error", err.Error()))
		gen := o.status.Generation()
		o.status.SetError(gen, "invalid chord configuration")
		return err
	}

	if !o.session.TryMarkPlayed(o.session.ID(), chordKey) {
		return ErrAlreadyPlayed
	}

	ids = plan.Subset.Filter(ids)

	// Supersede the previous run: stale fetches are cancelled and stale
	// continuations lose the generation race, so they can no longer touch
	// shared state.
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	gen := o.status.NextGeneration()
	o.mu.Unlock()

	o.log.Info("playback requested",
		slog.String("chord", chordKey),
		slog.String("hint", string(hint)),
		slog.Int("clips", len(ids)),
		slog.Uint64("generation", gen))

	switch plan.Mode {
	case ModeSequential:
		go o.seqEng.Play(ctx, gen, chordKey, ids, plan.Delay)
	default:
		go o.syncEng.Play(ctx, gen, chordKey, ids)
	}
	return nil
}

// ResetForNewAttempt mints a fresh session and clears transient error state.
// Called by the round/attempt state machine on every attempt transition.
func (o *Orchestrator) ResetForNewAttempt() {
	id := o.session.Reset()
	o.status.ClearError()
	o.log.Debug("new attempt", slog.String("session", id))
}

// ResetForNewRound behaves like ResetForNewAttempt and additionally stops
// whatever is still sounding from the previous round.
func (o *Orchestrator) ResetForNewRound() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.status.NextGeneration()
	o.mu.Unlock()

	id := o.session.Reset()
	o.status.ClearError()
	o.log.Debug("new round", slog.String("session", id))
}

// Stop cancels any in-flight playback. Used at server shutdown.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}
