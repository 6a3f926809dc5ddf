package playback

import (
	"fmt"
	"time"
)

// HintType is the kind of hint the player asked for.
type HintType string

const (
	HintFullChord          HintType = "full-chord"
	HintSlowChord          HintType = "slow-chord"
	HintIndividualStrings  HintType = "individual-strings"
	HintAudioOptions       HintType = "audio-options"
	HintSingleFingerReveal HintType = "single-finger-reveal"
)

// AudioOption refines HintAudioOptions.
type AudioOption string

const (
	AudioFullChord     AudioOption = "full-chord"
	AudioIndividual    AudioOption = "individual"
	AudioBassStrings   AudioOption = "bass-strings"
	AudioTrebleStrings AudioOption = "treble-strings"
)

// PlayMode selects the engine.
type PlayMode int

const (
	ModeSimultaneous PlayMode = iota
	ModeSequential
)

// StringSubset filters the identifier list before simultaneous playback.
type StringSubset int

const (
	SubsetAll StringSubset = iota
	SubsetBass
	SubsetTreble
)

// Inter-clip delays per hint. The short delays stay under the fast-arpeggio
// threshold so sequential pacing uses them literally.
const (
	slowChordDelay        = 150 * time.Millisecond
	individualDelay       = 350 * time.Millisecond
	audioIndividualDelay  = 150 * time.Millisecond
	fastArpeggioThreshold = 200 * time.Millisecond
)

// Plan is the outcome of strategy selection: which engine to run and with
// what parameters.
type Plan struct {
	Mode   PlayMode
	Delay  time.Duration
	Subset StringSubset
}

// SelectPlan maps (hintType, audioOption) to an engine plan. It is a pure
// function; audioOption is only consulted for HintAudioOptions.
func SelectPlan(hint HintType, opt AudioOption) (Plan, error) {
	switch hint {
	case HintFullChord, HintSingleFingerReveal:
		// Single-finger reveal sounds identical to the full chord; the
		// reveal itself is a visual hint handled by the view layer.
		return Plan{Mode: ModeSimultaneous, Subset: SubsetAll}, nil
	case HintSlowChord:
		return Plan{Mode: ModeSequential, Delay: slowChordDelay}, nil
	case HintIndividualStrings:
		return Plan{Mode: ModeSequential, Delay: individualDelay}, nil
	case HintAudioOptions:
		switch opt {
		case AudioFullChord, "":
			return Plan{Mode: ModeSimultaneous, Subset: SubsetAll}, nil
		case AudioIndividual:
			return Plan{Mode: ModeSequential, Delay: audioIndividualDelay}, nil
		case AudioBassStrings:
			return Plan{Mode: ModeSimultaneous, Subset: SubsetBass}, nil
		case AudioTrebleStrings:
			return Plan{Mode: ModeSimultaneous, Subset: SubsetTreble}, nil
		default:
			return Plan{}, fmt.Errorf("unknown audio option %q", opt)
		}
	default:
		return Plan{}, fmt.Errorf("unknown hint type %q", hint)
	}
}

// stringIndex returns the canonical position of s in StringOrder.
func stringIndex(s StringName) int {
	for i, n := range StringOrder {
		if n == s {
			return i
		}
	}
	return -1
}

// Filter keeps the identifiers belonging to the subset, preserving order.
// It never re-validates: the full list was already validated once.
func (sub StringSubset) Filter(ids []ClipIdentifier) []ClipIdentifier {
	if sub == SubsetAll {
		return ids
	}
	out := make([]ClipIdentifier, 0, len(ids))
	for _, id := range ids {
		idx := stringIndex(id.StringName)
		low := idx >= 0 && idx < 3
		if (sub == SubsetBass && low) || (sub == SubsetTreble && !low && idx >= 0) {
			out = append(out, id)
		}
	}
	return out
}
