package playback

import (
	"fmt"
	"strconv"
	"strings"
)

// maxFret returns the highest playable fret for a string. Only the high E
// string has clips recorded past the fourth fret.
func maxFret(s StringName) (int, bool) {
	switch s {
	case StringE4:
		return 12, true
	case StringE2, StringA3, StringD3, StringG3, StringB4:
		return 4, true
	default:
		return 0, false
	}
}

// ValidationError reports an identifier that can never resolve to an asset.
type ValidationError struct {
	ID     ClipIdentifier
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid clip identifier %s: %s", e.ID, e.Reason)
}

// Validate checks a clip identifier against the asset naming and range rules.
// It must be called for every identifier before any fetch is issued; the
// orchestrator aborts the whole request on the first failure so that a
// request that can never succeed causes no network traffic.
func Validate(id ClipIdentifier) error {
	max, ok := maxFret(id.StringName)
	if !ok {
		return &ValidationError{ID: id, Reason: "unknown string name"}
	}
	if id.Fret < 0 || id.Fret > max {
		return &ValidationError{ID: id, Reason: fmt.Sprintf("fret out of range [0,%d]", max)}
	}
	return nil
}

// ValidateAll validates every identifier in order and returns the first
// failure, if any.
func ValidateAll(ids []ClipIdentifier) error {
	for _, id := range ids {
		if err := Validate(id); err != nil {
			return err
		}
	}
	return nil
}

// ParseAssetName decomposes a canonical asset filename ("E4_fret12.m4a",
// extension optional) back into a validated ClipIdentifier.
func ParseAssetName(name string) (ClipIdentifier, error) {
	base := strings.TrimSuffix(name, ".m4a")
	str, fret, ok := strings.Cut(base, "_fret")
	if !ok {
		return ClipIdentifier{}, &ValidationError{
			ID:     ClipIdentifier{StringName: StringName(base)},
			Reason: "malformed asset name",
		}
	}
	n, err := strconv.Atoi(fret)
	if err != nil {
		return ClipIdentifier{}, &ValidationError{
			ID:     ClipIdentifier{StringName: StringName(str)},
			Reason: "malformed fret number",
		}
	}
	id := ClipIdentifier{StringName: StringName(str), Fret: n}
	if err := Validate(id); err != nil {
		return ClipIdentifier{}, err
	}
	return id, nil
}
