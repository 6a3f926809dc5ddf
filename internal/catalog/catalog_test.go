package catalog

import (
	"testing"

	"chord-trainer/internal/playback"
)

func TestClips_open_C(t *testing.T) {
	c := New()
	ids, err := c.Clips("C")
	if err != nil {
		t.Fatalf("Clips(C): %v", err)
	}
	// Low E is muted in the open C shape.
	if len(ids) != 5 {
		t.Fatalf("expected 5 strings, got %d", len(ids))
	}
	if ids[0].StringName != playback.StringA3 || ids[0].Fret != 3 {
		t.Errorf("first string: got %v", ids[0])
	}
	if ids[len(ids)-1].StringName != playback.StringE4 || ids[len(ids)-1].Fret != 0 {
		t.Errorf("last string: got %v", ids[len(ids)-1])
	}
}

func TestClips_ordering_low_to_high(t *testing.T) {
	c := New()
	for _, key := range c.Chords() {
		ids, err := c.Clips(key)
		if err != nil {
			t.Fatalf("Clips(%s): %v", key, err)
		}
		last := -1
		for _, id := range ids {
			idx := -1
			for i, s := range playback.StringOrder {
				if s == id.StringName {
					idx = i
				}
			}
			if idx <= last {
				t.Errorf("%s: strings out of order at %v", key, id)
			}
			last = idx
		}
	}
}

func TestClips_all_shapes_validate(t *testing.T) {
	c := New()
	for _, key := range c.Chords() {
		ids, err := c.Clips(key)
		if err != nil {
			t.Fatalf("Clips(%s): %v", key, err)
		}
		if err := playback.ValidateAll(ids); err != nil {
			t.Errorf("%s: shape produces invalid identifier: %v", key, err)
		}
	}
}

func TestClips_unknown_chord(t *testing.T) {
	if _, err := New().Clips("Cmaj13#11"); err == nil {
		t.Error("expected error for unknown chord")
	}
}
