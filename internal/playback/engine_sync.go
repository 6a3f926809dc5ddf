package playback

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"chord-trainer/internal/platform/metrics"
)

// DefaultMaxConcurrentFetches bounds the simultaneous-mode fan-out. A chord
// needs at most six clips, so six avoids connection exhaustion without ever
// queueing a real request.
const DefaultMaxConcurrentFetches = 6

// startOffset is how far in the future the common start timestamp is set so
// every player can arm before the chord attack.
const startOffset = 10 * time.Millisecond

// SyncEngine plays all clips of a chord as one simultaneous attack: fan-out
// fetch, barrier, then every player starts at a common future timestamp.
type SyncEngine struct {
	fetcher    Fetcher
	players    PlayerFactory
	status     *StatusReporter
	log        *slog.Logger
	metrics    *metrics.Metrics
	maxFetches int
}

// NewSyncEngine constructs the simultaneous engine. maxFetches <= 0 falls
// back to DefaultMaxConcurrentFetches; metrics may be nil.
func NewSyncEngine(fetcher Fetcher, players PlayerFactory, status *StatusReporter, log *slog.Logger, m *metrics.Metrics, maxFetches int) *SyncEngine {
	if maxFetches <= 0 {
		maxFetches = DefaultMaxConcurrentFetches
	}
	return &SyncEngine{
		fetcher:    fetcher,
		players:    players,
		status:     status,
		log:        log,
		metrics:    m,
		maxFetches: maxFetches,
	}
}

// Play fetches all clips concurrently and starts the survivors together.
// Individual fetch or decode failures drop that clip only; a chord with a
// missing string beats no chord at all. Zero survivors is the one
// user-visible failure. All status writes carry gen and are dropped if a
// newer PlayChord has superseded this run.
func (e *SyncEngine) Play(ctx context.Context, gen uint64, chordKey string, ids []ClipIdentifier) {
	if !e.status.SetLoading(gen, true) {
		return
	}

	// Each task writes its own slot; order is restored from the index, never
	// from download completion order.
	results := make([]*Clip, len(ids))
	sem := make(chan struct{}, e.maxFetches)
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id ClipIdentifier) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, err := e.fetcher.Fetch(ctx, id)
			if err != nil {
				if !IsCancelled(err) {
					e.log.Warn("clip fetch failed, dropping string",
						slog.String("chord", chordKey),
						slog.String("clip", id.String()),
						slog.String("error", err.Error()))
				}
				return
			}
			results[i] = &Clip{ID: id, Data: data}
		}(i, id)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return
	}

	players := make([]Player, 0, len(ids))
	for _, clip := range results {
		if clip == nil {
			continue
		}
		p, err := e.players.NewPlayer(clip.ID, clip.Data)
		if err != nil {
			e.log.Warn("clip decode failed, dropping string",
				slog.String("chord", chordKey),
				slog.String("clip", clip.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		players = append(players, p)
	}

	e.status.SetLoading(gen, false)

	if len(players) == 0 {
		e.log.Error("no clips playable", slog.String("chord", chordKey))
		e.status.SetError(gen, "could not load any audio for "+chordKey)
		if e.metrics != nil {
			e.metrics.IncTotalFailures()
		}
		return
	}

	if !e.status.SetPlaying(gen, true) {
		return
	}
	e.status.NotifyStarted(gen, chordKey)
	if e.metrics != nil {
		e.metrics.IncPlaybacksStarted()
	}

	at := time.Now().Add(startOffset)
	var active sync.WaitGroup
	for _, p := range players {
		p.Start(ctx, at)
		active.Add(1)
		go func(p Player) {
			defer active.Done()
			<-p.Done()
		}(p)
	}

	// The aggregate flag goes false only when the last player finishes.
	go func() {
		active.Wait()
		e.status.SetPlaying(gen, false)
	}()
}
