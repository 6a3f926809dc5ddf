// Package catalog maps chord keys to the ordered per-string clip
// identifiers the playback core consumes. Shapes are the common
// open-position voicings; a muted string is simply absent from the list.
package catalog

import (
	"fmt"

	"chord-trainer/internal/playback"
)

// muted marks a string that is not struck in a voicing.
const muted = -1

// shapes holds fret numbers low string to high, aligned with
// playback.StringOrder.
var shapes = map[string][6]int{
	"C":  {muted, 3, 2, 0, 1, 0},
	"A":  {muted, 0, 2, 2, 2, 0},
	"G":  {3, 2, 0, 0, 0, 3},
	"E":  {0, 2, 2, 1, 0, 0},
	"D":  {muted, muted, 0, 2, 3, 2},
	"Am": {muted, 0, 2, 2, 1, 0},
	"Em": {0, 2, 2, 0, 0, 0},
	"Dm": {muted, muted, 0, 2, 3, 1},
	"F":  {1, 3, 3, 2, 1, 1},
	"A7": {muted, 0, 2, 0, 2, 0},
	"E7": {0, 2, 0, 1, 0, 0},
	"G7": {3, 2, 0, 0, 0, 1},
}

// InMemory is the built-in chord catalog.
type InMemory struct{}

// New returns the built-in catalog.
func New() *InMemory {
	return &InMemory{}
}

// Clips implements playback.ChordCatalog. The returned identifiers are
// ordered low string first; muted strings are omitted.
func (c *InMemory) Clips(chordKey string) ([]playback.ClipIdentifier, error) {
	shape, ok := shapes[chordKey]
	if !ok {
		return nil, fmt.Errorf("no voicing for chord %q", chordKey)
	}

	ids := make([]playback.ClipIdentifier, 0, len(shape))
	for i, fret := range shape {
		if fret == muted {
			continue
		}
		ids = append(ids, playback.ClipIdentifier{
			StringName: playback.StringOrder[i],
			Fret:       fret,
		})
	}
	return ids, nil
}

// Chords lists the known chord keys, for the game layer to sample from.
func (c *InMemory) Chords() []string {
	keys := make([]string, 0, len(shapes))
	for k := range shapes {
		keys = append(keys, k)
	}
	return keys
}
