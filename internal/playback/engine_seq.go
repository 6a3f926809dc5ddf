package playback

import (
	"context"
	"log/slog"
	"time"

	"chord-trainer/internal/platform/metrics"
)

// SeqEngine plays clips one at a time in caller order: arpeggios and
// string-by-string hints. Loading never blocks the UI here; the run counts
// as playing from the first clip on.
type SeqEngine struct {
	fetcher Fetcher
	players PlayerFactory
	status  *StatusReporter
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewSeqEngine constructs the sequential engine. Metrics may be nil.
func NewSeqEngine(fetcher Fetcher, players PlayerFactory, status *StatusReporter, log *slog.Logger, m *metrics.Metrics) *SeqEngine {
	return &SeqEngine{fetcher: fetcher, players: players, status: status, log: log, metrics: m}
}

// pacingGap computes how long to wait after starting a clip before the next
// one. Fast arpeggios (delay at or under the threshold) tick at the literal
// delay; slower hints wait near the end of the note so each string rings
// almost fully with a slight gap.
func pacingGap(delay, clipDuration time.Duration) time.Duration {
	if delay <= fastArpeggioThreshold || clipDuration <= 0 {
		return delay
	}
	scaledDelay := delay * 6 / 10
	scaledDuration := clipDuration * 8 / 10
	if scaledDuration > scaledDelay {
		return scaledDuration
	}
	return scaledDelay
}

// Play runs the sequence. A clip that fails to fetch or decode is skipped
// and the sequence advances after the literal delay, since no duration is
// known for it. Cancelling ctx invalidates every pending continuation; a
// superseded run can also no longer write status because its generation is
// stale.
func (e *SeqEngine) Play(ctx context.Context, gen uint64, chordKey string, ids []ClipIdentifier, delay time.Duration) {
	e.status.SetLoading(gen, false)
	if !e.status.SetPlaying(gen, true) {
		return
	}
	e.status.NotifyStarted(gen, chordKey)
	if e.metrics != nil {
		e.metrics.IncPlaybacksStarted()
	}

	anyPlayed := false
	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}

		gap := delay
		data, err := e.fetcher.Fetch(ctx, id)
		if err != nil {
			if IsCancelled(err) {
				return
			}
			e.log.Warn("clip fetch failed, skipping",
				slog.String("chord", chordKey),
				slog.String("clip", id.String()),
				slog.String("error", err.Error()))
		} else if p, perr := e.players.NewPlayer(id, data); perr != nil {
			e.log.Warn("clip decode failed, skipping",
				slog.String("chord", chordKey),
				slog.String("clip", id.String()),
				slog.String("error", perr.Error()))
		} else {
			p.Start(ctx, time.Now())
			gap = pacingGap(delay, p.Duration())
			anyPlayed = true
		}

		select {
		case <-time.After(gap):
		case <-ctx.Done():
			return
		}
	}

	if !anyPlayed {
		e.log.Error("no clips playable", slog.String("chord", chordKey))
		e.status.SetError(gen, "could not load any audio for "+chordKey)
		if e.metrics != nil {
			e.metrics.IncTotalFailures()
		}
	}
	e.status.SetPlaying(gen, false)
}
