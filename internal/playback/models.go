package playback

import (
	"context"
	"fmt"
	"time"
)

// StringName identifies one of the six guitar strings, low to high.
type StringName string

const (
	StringE2 StringName = "E2"
	StringA3 StringName = "A3"
	StringD3 StringName = "D3"
	StringG3 StringName = "G3"
	StringB4 StringName = "B4"
	StringE4 StringName = "E4"
)

// StringOrder lists the strings in playing order (low E first). The index of
// a string in this slice is its canonical position; bass/treble subsets are
// defined against it.
var StringOrder = []StringName{StringE2, StringA3, StringD3, StringG3, StringB4, StringE4}

// ClipIdentifier names a single per-string audio clip in the remote asset
// store. Immutable once constructed.
type ClipIdentifier struct {
	StringName StringName
	Fret       int
}

// AssetName returns the canonical filename of the clip in the asset store,
// e.g. "E4_fret12.m4a".
func (c ClipIdentifier) AssetName() string {
	return fmt.Sprintf("%s_fret%d.m4a", c.StringName, c.Fret)
}

func (c ClipIdentifier) String() string {
	return fmt.Sprintf("%s/%d", c.StringName, c.Fret)
}

// Clip is a successfully fetched audio payload.
type Clip struct {
	ID   ClipIdentifier
	Data []byte
}

// Fetcher downloads a clip by identifier. Implementations must honour ctx
// cancellation and return a FetchError with KindCancelled in that case.
type Fetcher interface {
	Fetch(ctx context.Context, id ClipIdentifier) ([]byte, error)
}

// Player is a single decoded clip ready for output. Start is non-blocking;
// playback begins at the given wall-clock instant and stops early if ctx is
// cancelled. Done is closed when playback finishes or is stopped.
type Player interface {
	Duration() time.Duration
	Start(ctx context.Context, at time.Time)
	Done() <-chan struct{}
}

// PlayerFactory decodes raw clip bytes into a Player. A decode failure is
// recoverable at the clip granularity: callers skip the clip and continue.
type PlayerFactory interface {
	NewPlayer(id ClipIdentifier, data []byte) (Player, error)
}

// ChordCatalog resolves a chord key to the ordered per-string clip
// identifiers (low string first, muted strings omitted). Supplied by the
// game layer; internal/catalog provides the built-in implementation.
type ChordCatalog interface {
	Clips(chordKey string) ([]ClipIdentifier, error)
}
