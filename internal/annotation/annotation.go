// Package annotation computes which time-windowed overlay markers are live
// for a playback position and tracks the viewer's single selection.
package annotation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrInvalidInterval = errors.New("annotation interval must satisfy 0 <= start < end")
	ErrInvalidPosition = errors.New("annotation position must lie in [0,1]x[0,1]")
	ErrEmptyTitle      = errors.New("annotation title is empty")
	ErrNotInCatalog    = errors.New("annotation is not in the catalog")
	ErrUnknownMode     = errors.New("unknown presentation mode")
	ErrSelectionInMode = errors.New("selection is only available in landmarks mode")
	ErrInvalidTimecode = errors.New("invalid timecode")
)

// Interval is the half-open playback window [Start, End) in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Contains reports whether t falls in [Start, End).
func (i Interval) Contains(t float64) bool { return i.Start <= t && t < i.End }

// Position is a point relative to the frame, both axes in [0, 1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Annotation is a titled marker shown at Position while playback is inside
// Interval.  DetailRef points at supplementary media such as a video URL.
type Annotation struct {
	Title     string   `json:"title"`
	Interval  Interval `json:"interval"`
	Position  Position `json:"position"`
	DetailRef string   `json:"detail_ref,omitempty"`
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate checks a single annotation.
func (a Annotation) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	iv := a.Interval
	if !finite(iv.Start) || !finite(iv.End) || iv.Start < 0 || iv.Start >= iv.End {
		return fmt.Errorf("%w: got [%v, %v)", ErrInvalidInterval, iv.Start, iv.End)
	}
	p := a.Position
	if !finite(p.X) || !finite(p.Y) || p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
		return fmt.Errorf("%w: got (%v, %v)", ErrInvalidPosition, p.X, p.Y)
	}
	return nil
}

// ValidateCatalog checks every entry and reports the first broken one with
// its index.
func ValidateCatalog(catalog []Annotation) error {
	for i, a := range catalog {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("catalog entry %d (%q): %w", i, a.Title, err)
		}
	}
	return nil
}

// Mode is a mutually exclusive presentation mode of the viewer.
type Mode string

const (
	ModeLandmarks         Mode = "landmarks"
	ModeHistoricalOverlay Mode = "historical-overlay"
	ModeFlightPath        Mode = "flight-path"
)

// Modes lists the supported modes.
var Modes = []Mode{ModeLandmarks, ModeHistoricalOverlay, ModeFlightPath}

// ParseMode maps a name to a Mode.  "1970s" is accepted as an alias of the
// historical overlay.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLandmarks:
		return ModeLandmarks, nil
	case ModeHistoricalOverlay, "1970s":
		return ModeHistoricalOverlay, nil
	case ModeFlightPath:
		return ModeFlightPath, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
