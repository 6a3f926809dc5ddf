// Package sound is the real audio output path: clip payloads are decoded to
// mono PCM and written to a portaudio stream. It sits behind the
// playback.PlayerFactory and playback.Player interfaces so the engines and
// their tests never touch a sound card.
package sound

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"chord-trainer/internal/playback"
)

const (
	defaultSampleRate = 44100
	framesPerBuffer   = 1024
)

// Factory decodes clips and builds portaudio-backed players.
type Factory struct {
	log *slog.Logger
}

// NewFactory returns a player factory. Initialize must be called before the
// first player starts, Terminate when the process shuts down.
func NewFactory(log *slog.Logger) *Factory {
	return &Factory{log: log}
}

// Initialize brings up the portaudio host API.
func (f *Factory) Initialize() error {
	return portaudio.Initialize()
}

// Terminate tears down the portaudio host API.
func (f *Factory) Terminate() {
	portaudio.Terminate()
}

// NewPlayer implements playback.PlayerFactory.
func (f *Factory) NewPlayer(id playback.ClipIdentifier, data []byte) (playback.Player, error) {
	samples, rate, err := decode(data)
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 || rate <= 0 {
		return nil, errors.New("decoded clip is empty")
	}
	return &clipPlayer{
		id:      id,
		samples: samples,
		rate:    rate,
		log:     f.log,
		done:    make(chan struct{}),
	}, nil
}

// clipPlayer plays one decoded clip on its own output stream. Start is
// non-blocking and may be called once; done closes when the clip finishes
// or playback is cancelled.
type clipPlayer struct {
	id      playback.ClipIdentifier
	samples []int16
	rate    int
	log     *slog.Logger
	done    chan struct{}
	once    sync.Once
}

// Duration implements playback.Player.
func (p *clipPlayer) Duration() time.Duration {
	return time.Duration(len(p.samples)) * time.Second / time.Duration(p.rate)
}

// Done implements playback.Player.
func (p *clipPlayer) Done() <-chan struct{} {
	return p.done
}

// Start implements playback.Player. Playback begins at the given wall-clock
// instant; the simultaneous engine hands every string the same instant to
// produce a single chord attack.
func (p *clipPlayer) Start(ctx context.Context, at time.Time) {
	p.once.Do(func() {
		go p.run(ctx, at)
	})
}

func (p *clipPlayer) run(ctx context.Context, at time.Time) {
	defer close(p.done)

	if wait := time.Until(at); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return
		}
	}

	buf := make([]int16, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(p.rate), framesPerBuffer, buf)
	if err != nil {
		p.log.Error("open output stream failed",
			slog.String("clip", p.id.String()),
			slog.String("error", err.Error()))
		return
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		p.log.Error("start output stream failed",
			slog.String("clip", p.id.String()),
			slog.String("error", err.Error()))
		return
	}
	defer stream.Stop()

	for off := 0; off < len(p.samples); off += framesPerBuffer {
		if ctx.Err() != nil {
			return
		}
		n := copy(buf, p.samples[off:])
		for i := n; i < framesPerBuffer; i++ {
			buf[i] = 0
		}
		if err := stream.Write(); err != nil {
			p.log.Warn("output write failed",
				slog.String("clip", p.id.String()),
				slog.String("error", err.Error()))
			return
		}
	}
}
