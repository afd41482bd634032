package annotation

import "fmt"

// Engine holds one viewing session's state: the static catalog, the active
// set from the last Tick, the presentation mode and at most one selected
// annotation.  An Engine is not safe for concurrent use; each session owns
// its own and drives it from a single goroutine.
type Engine struct {
	catalog  []Annotation
	active   []int
	selected int
	mode     Mode
	now      float64
	player   Player
}

type EngineOption func(*Engine)

// WithPlayer attaches the playback source that Restart rewinds.
func WithPlayer(p Player) EngineOption { return func(e *Engine) { e.player = p } }

// WithMode sets the initial mode (landmarks by default).
func WithMode(m Mode) EngineOption { return func(e *Engine) { e.mode = m } }

// NewEngine validates the catalog and returns an engine ticked at 0.  A
// broken entry fails here so it can never reach rendering.
func NewEngine(catalog []Annotation, opts ...EngineOption) (*Engine, error) {
	if err := ValidateCatalog(catalog); err != nil {
		return nil, err
	}
	e := &Engine{
		catalog:  append([]Annotation(nil), catalog...),
		selected: -1,
		mode:     ModeLandmarks,
	}
	for _, o := range opts {
		o(e)
	}
	mode, err := ParseMode(string(e.mode))
	if err != nil {
		return nil, err
	}
	e.mode = mode
	e.Tick(0)
	return e, nil
}

// Tick recomputes the active set for playback time t and returns it in
// catalog order.  The result depends only on the catalog and t.  A time
// past every window, negative or NaN yields an empty set.
func (e *Engine) Tick(t float64) []Annotation {
	e.now = t
	e.active = e.active[:0]
	for i, a := range e.catalog {
		if a.Interval.Contains(t) {
			e.active = append(e.active, i)
		}
	}
	return e.Active()
}

// Active returns the annotations found by the last Tick.
func (e *Engine) Active() []Annotation {
	out := make([]Annotation, len(e.active))
	for i, idx := range e.active {
		out[i] = e.catalog[idx]
	}
	return out
}

// ActiveIndexes returns catalog indexes of the active set.
func (e *Engine) ActiveIndexes() []int { return append([]int{}, e.active...) }

// Visible is what the presentation layer draws as pins: the active set in
// landmarks mode and nothing otherwise.
func (e *Engine) Visible() []Annotation {
	if e.mode != ModeLandmarks {
		return []Annotation{}
	}
	return e.Active()
}

// Time is the playback time of the last Tick.
func (e *Engine) Time() float64 { return e.now }

func (e *Engine) Mode() Mode { return e.mode }

// Catalog returns a copy of the static catalog.
func (e *Engine) Catalog() []Annotation { return append([]Annotation(nil), e.catalog...) }

// Select marks a catalog member as selected.  It need not be active: an
// annotation stays selected after its window closes until ClearSelection
// or a mode change away from landmarks.
func (e *Engine) Select(a Annotation) error {
	for i, c := range e.catalog {
		if c == a {
			return e.SelectAt(i)
		}
	}
	return fmt.Errorf("%w: %q", ErrNotInCatalog, a.Title)
}

// SelectAt selects the catalog entry at index i.
func (e *Engine) SelectAt(i int) error {
	if i < 0 || i >= len(e.catalog) {
		return fmt.Errorf("%w: index %d", ErrNotInCatalog, i)
	}
	if e.mode != ModeLandmarks {
		return ErrSelectionInMode
	}
	e.selected = i
	return nil
}

// Selected returns the current selection, if any.
func (e *Engine) Selected() (Annotation, bool) {
	if e.selected < 0 {
		return Annotation{}, false
	}
	return e.catalog[e.selected], true
}

// SelectedIndex is the catalog index of the selection or -1.
func (e *Engine) SelectedIndex() int { return e.selected }

// ClearSelection drops the selection.  Calling it with nothing selected is
// a no-op.
func (e *Engine) ClearSelection() { e.selected = -1 }

// SetMode switches the presentation mode.  Leaving landmarks clears the
// selection; entering a mode never selects anything nor moves the clock.
func (e *Engine) SetMode(m Mode) error {
	m, err := ParseMode(string(m))
	if err != nil {
		return err
	}
	if e.mode == ModeLandmarks && m != ModeLandmarks {
		e.ClearSelection()
	}
	e.mode = m
	return nil
}

// Restart rewinds the attached player to 0 and resumes it, clears the
// selection and ticks at 0.  The returned set equals the one NewEngine
// computed.
func (e *Engine) Restart() []Annotation {
	if e.player != nil {
		e.player.Seek(0)
		e.player.Play()
	}
	e.ClearSelection()
	return e.Tick(0)
}

// State is a snapshot of the engine for the presentation layer.
type State struct {
	Time     float64      `json:"time"`
	Timecode string       `json:"timecode"`
	Mode     Mode         `json:"mode"`
	Active   []Annotation `json:"active"`
	Visible  []Annotation `json:"visible"`
	Selected *Annotation  `json:"selected"`
}

// Snapshot captures the current state.
func (e *Engine) Snapshot() State {
	s := State{
		Time:     e.now,
		Timecode: FormatTimecode(e.now),
		Mode:     e.mode,
		Active:   e.Active(),
		Visible:  e.Visible(),
	}
	if a, ok := e.Selected(); ok {
		s.Selected = &a
	}
	return s
}
