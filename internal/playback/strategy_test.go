package playback

import (
	"testing"
	"time"
)

func TestSelectPlan_table(t *testing.T) {
	cases := []struct {
		name string
		hint HintType
		opt  AudioOption
		want Plan
	}{
		{"full_chord", HintFullChord, "", Plan{Mode: ModeSimultaneous, Subset: SubsetAll}},
		{"single_finger_reveal", HintSingleFingerReveal, "", Plan{Mode: ModeSimultaneous, Subset: SubsetAll}},
		{"slow_chord", HintSlowChord, "", Plan{Mode: ModeSequential, Delay: 150 * time.Millisecond}},
		{"individual_strings", HintIndividualStrings, "", Plan{Mode: ModeSequential, Delay: 350 * time.Millisecond}},
		{"audio_full", HintAudioOptions, AudioFullChord, Plan{Mode: ModeSimultaneous, Subset: SubsetAll}},
		{"audio_individual", HintAudioOptions, AudioIndividual, Plan{Mode: ModeSequential, Delay: 150 * time.Millisecond}},
		{"audio_bass", HintAudioOptions, AudioBassStrings, Plan{Mode: ModeSimultaneous, Subset: SubsetBass}},
		{"audio_treble", HintAudioOptions, AudioTrebleStrings, Plan{Mode: ModeSimultaneous, Subset: SubsetTreble}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SelectPlan(tc.hint, tc.opt)
			if err != nil {
				t.Fatalf("SelectPlan: %v", err)
			}
			if got != tc.want {
				t.Errorf("SelectPlan(%s,%s) = %+v, want %+v", tc.hint, tc.opt, got, tc.want)
			}
		})
	}
}

func TestSelectPlan_unknown(t *testing.T) {
	if _, err := SelectPlan(HintType("reverse-chord"), ""); err == nil {
		t.Error("unknown hint should fail")
	}
	if _, err := SelectPlan(HintAudioOptions, AudioOption("mid-strings")); err == nil {
		t.Error("unknown audio option should fail")
	}
}

func TestStringSubset_filter(t *testing.T) {
	all := []ClipIdentifier{
		{StringE2, 0}, {StringA3, 2}, {StringD3, 2}, {StringG3, 1}, {StringB4, 0}, {StringE4, 0},
	}

	bass := SubsetBass.Filter(all)
	if len(bass) != 3 || bass[0].StringName != StringE2 || bass[2].StringName != StringD3 {
		t.Errorf("bass subset: got %v", bass)
	}

	treble := SubsetTreble.Filter(all)
	if len(treble) != 3 || treble[0].StringName != StringG3 || treble[2].StringName != StringE4 {
		t.Errorf("treble subset: got %v", treble)
	}

	if got := SubsetAll.Filter(all); len(got) != len(all) {
		t.Errorf("all subset should be identity, got %v", got)
	}
}

func TestStringSubset_filter_preserves_order_with_muted(t *testing.T) {
	// D major: low E and A muted.
	ids := []ClipIdentifier{
		{StringD3, 0}, {StringG3, 2}, {StringB4, 3}, {StringE4, 2},
	}
	bass := SubsetBass.Filter(ids)
	if len(bass) != 1 || bass[0].StringName != StringD3 {
		t.Errorf("bass subset of D: got %v", bass)
	}
}

func TestPacingGap(t *testing.T) {
	cases := []struct {
		name  string
		delay time.Duration
		dur   time.Duration
		want  time.Duration
	}{
		{"duration_aware", 300 * time.Millisecond, time.Second, 800 * time.Millisecond},
		{"delay_floor", 300 * time.Millisecond, 100 * time.Millisecond, 180 * time.Millisecond},
		{"fast_arpeggio_literal", 150 * time.Millisecond, time.Second, 150 * time.Millisecond},
		{"threshold_literal", 200 * time.Millisecond, time.Second, 200 * time.Millisecond},
		{"unknown_duration", 300 * time.Millisecond, 0, 300 * time.Millisecond},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := pacingGap(tc.delay, tc.dur); got != tc.want {
				t.Errorf("pacingGap(%v,%v) = %v, want %v", tc.delay, tc.dur, got, tc.want)
			}
		})
	}
}
