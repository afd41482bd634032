package annotation

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func titles(as []Annotation) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.Title
	}
	return out
}

func mustEngine(t *testing.T, catalog []Annotation, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine(catalog, opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestTickHalfOpenInterval(t *testing.T) {
	Convey("Given an annotation active over [15, 26)", t, func() {
		e := mustEngine(t, []Annotation{{Title: "Wanchai", Interval: Interval{15, 26}, Position: Position{0.9, 0.8}}})

		Convey("It is active at the start of the window", func() {
			So(titles(e.Tick(15.0)), ShouldResemble, []string{"Wanchai"})
		})
		Convey("It is active just before the end", func() {
			So(titles(e.Tick(25.99)), ShouldResemble, []string{"Wanchai"})
		})
		Convey("It is inactive at the end", func() {
			So(e.Tick(26.0), ShouldBeEmpty)
		})
		Convey("It is inactive just before the start", func() {
			So(e.Tick(14.99), ShouldBeEmpty)
		})
	})
}

func TestTickIsPure(t *testing.T) {
	Convey("Given the default catalog", t, func() {
		e := mustEngine(t, DefaultCatalog())
		first := e.Tick(18)

		Convey("Ticking the same time after unrelated ticks yields the same set", func() {
			e.Tick(0)
			e.Tick(110)
			e.Tick(500)
			So(e.Tick(18), ShouldResemble, first)
		})
		Convey("Selection and mode do not change the active set", func() {
			So(e.SelectAt(3), ShouldBeNil)
			So(e.SetMode(ModeFlightPath), ShouldBeNil)
			So(e.Tick(18), ShouldResemble, first)
		})
	})
}

func TestOverlappingWindows(t *testing.T) {
	Convey("Given windows [0,21) and [4,28)", t, func() {
		e := mustEngine(t, []Annotation{
			{Title: "North Point", Interval: Interval{0, 21}, Position: Position{0.4, 0.2}},
			{Title: "Mid Levels", Interval: Interval{4, 28}, Position: Position{0.3, 0.8}},
		})

		Convey("Both are active throughout [4,21)", func() {
			for _, ts := range []float64{4, 4.5, 10, 20.99} {
				So(titles(e.Tick(ts)), ShouldResemble, []string{"North Point", "Mid Levels"})
			}
		})
		Convey("Only one is active outside the overlap", func() {
			So(titles(e.Tick(3.99)), ShouldResemble, []string{"North Point"})
			So(titles(e.Tick(21)), ShouldResemble, []string{"Mid Levels"})
		})
	})
}

func TestEndToEndScenario(t *testing.T) {
	Convey("Given A over [0,10) and B over [5,15)", t, func() {
		e := mustEngine(t, []Annotation{
			{Title: "A", Interval: Interval{0, 10}, Position: Position{0.1, 0.1}},
			{Title: "B", Interval: Interval{5, 15}, Position: Position{0.9, 0.9}},
		})

		So(titles(e.Tick(0)), ShouldResemble, []string{"A"})
		So(titles(e.Tick(6)), ShouldResemble, []string{"A", "B"})
		So(titles(e.Tick(12)), ShouldResemble, []string{"B"})
		So(e.Tick(20), ShouldBeEmpty)
	})
}

func TestRestart(t *testing.T) {
	Convey("Given an engine attached to a playing clock", t, func() {
		clock := &ManualClock{}
		clock.Play()
		e := mustEngine(t, DefaultCatalog(), WithPlayer(clock))
		initial := e.Active()

		clock.Advance(100)
		e.Tick(clock.CurrentTime())
		So(e.SelectAt(7), ShouldBeNil)
		clock.Pause()

		Convey("Restart rewinds and resumes the clock", func() {
			got := e.Restart()
			So(clock.CurrentTime(), ShouldEqual, 0)
			So(clock.Playing(), ShouldBeTrue)

			Convey("And reproduces the initial active set", func() {
				So(got, ShouldResemble, initial)
				So(e.Tick(0), ShouldResemble, initial)
			})
			Convey("And clears the selection", func() {
				_, ok := e.Selected()
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestSelection(t *testing.T) {
	Convey("Given the default catalog in landmarks mode", t, func() {
		catalog := DefaultCatalog()
		e := mustEngine(t, catalog)

		Convey("Selecting a catalog member that is not active succeeds", func() {
			e.Tick(0)
			So(e.Select(catalog[6]), ShouldBeNil)
			got, ok := e.Selected()
			So(ok, ShouldBeTrue)
			So(got, ShouldResemble, catalog[6])
		})

		Convey("The selection survives its window closing", func() {
			e.Tick(16)
			So(e.Select(catalog[2]), ShouldBeNil)
			e.Tick(60)
			got, ok := e.Selected()
			So(ok, ShouldBeTrue)
			So(got.Title, ShouldEqual, "Wanchai")
		})

		Convey("Duplicate titles are told apart by their window", func() {
			So(e.Select(catalog[8]), ShouldBeNil)
			So(e.SelectedIndex(), ShouldEqual, 8)
		})

		Convey("An annotation outside the catalog is rejected", func() {
			err := e.Select(Annotation{Title: "Elsewhere", Interval: Interval{0, 1}})
			So(errors.Is(err, ErrNotInCatalog), ShouldBeTrue)
			So(errors.Is(e.SelectAt(99), ErrNotInCatalog), ShouldBeTrue)
			_, ok := e.Selected()
			So(ok, ShouldBeFalse)
		})

		Convey("ClearSelection is idempotent", func() {
			So(e.SelectAt(1), ShouldBeNil)
			e.ClearSelection()
			e.ClearSelection()
			_, ok := e.Selected()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestSetMode(t *testing.T) {
	Convey("Given a selected landmark", t, func() {
		e := mustEngine(t, DefaultCatalog())
		e.Tick(31)
		So(e.SelectAt(4), ShouldBeNil)

		Convey("Switching to the historical overlay clears it", func() {
			So(e.SetMode(ModeHistoricalOverlay), ShouldBeNil)
			_, ok := e.Selected()
			So(ok, ShouldBeFalse)
			So(e.Visible(), ShouldBeEmpty)
			So(e.Active(), ShouldNotBeEmpty)

			Convey("Returning to landmarks does not select anything", func() {
				So(e.SetMode(ModeLandmarks), ShouldBeNil)
				_, ok := e.Selected()
				So(ok, ShouldBeFalse)
				So(e.Visible(), ShouldResemble, e.Active())
			})

			Convey("Selecting outside landmarks is refused", func() {
				So(e.SelectAt(4), ShouldEqual, ErrSelectionInMode)
			})
		})

		Convey("Staying in landmarks keeps it", func() {
			So(e.SetMode(ModeLandmarks), ShouldBeNil)
			So(e.SelectedIndex(), ShouldEqual, 4)
		})

		Convey("Changing mode leaves the clock alone", func() {
			So(e.SetMode(ModeFlightPath), ShouldBeNil)
			So(e.Time(), ShouldEqual, 31)
		})

		Convey("Unknown modes are rejected without side effects", func() {
			So(errors.Is(e.SetMode("night-vision"), ErrUnknownMode), ShouldBeTrue)
			So(e.Mode(), ShouldEqual, ModeLandmarks)
			So(e.SelectedIndex(), ShouldEqual, 4)
		})

		Convey("The 1970s alias maps to the historical overlay", func() {
			So(e.SetMode("1970s"), ShouldBeNil)
			So(e.Mode(), ShouldEqual, ModeHistoricalOverlay)
		})
	})
}

func TestCatalogValidation(t *testing.T) {
	Convey("Construction fails fast on broken entries", t, func() {
		cases := []struct {
			name string
			a    Annotation
			want error
		}{
			{"empty title", Annotation{Title: " ", Interval: Interval{0, 1}}, ErrEmptyTitle},
			{"start equals end", Annotation{Title: "x", Interval: Interval{5, 5}}, ErrInvalidInterval},
			{"start after end", Annotation{Title: "x", Interval: Interval{6, 5}}, ErrInvalidInterval},
			{"negative start", Annotation{Title: "x", Interval: Interval{-1, 5}}, ErrInvalidInterval},
			{"x above one", Annotation{Title: "x", Interval: Interval{0, 5}, Position: Position{1.01, 0}}, ErrInvalidPosition},
			{"y below zero", Annotation{Title: "x", Interval: Interval{0, 5}, Position: Position{0, -0.1}}, ErrInvalidPosition},
		}
		for _, c := range cases {
			e, err := NewEngine([]Annotation{{Title: "ok", Interval: Interval{0, 1}}, c.a})
			So(e, ShouldBeNil)
			So(errors.Is(err, c.want), ShouldBeTrue)
		}

		Convey("The default catalog is valid", func() {
			So(ValidateCatalog(DefaultCatalog()), ShouldBeNil)
		})

		Convey("An empty catalog never has active annotations", func() {
			e := mustEngine(t, nil)
			So(e.Tick(3), ShouldBeEmpty)
		})
	})
}

func TestSnapshot(t *testing.T) {
	Convey("Given an engine at 0:31 with a selection", t, func() {
		e := mustEngine(t, DefaultCatalog())
		e.Tick(31)
		So(e.SelectAt(3), ShouldBeNil)
		s := e.Snapshot()

		So(s.Timecode, ShouldEqual, "0:31")
		So(s.Mode, ShouldEqual, ModeLandmarks)
		So(titles(s.Active), ShouldResemble, []string{"Kowloon", "Hong Kong Island near Victoria Harbour"})
		So(s.Visible, ShouldResemble, s.Active)
		So(s.Selected, ShouldNotBeNil)
		So(s.Selected.Title, ShouldEqual, "Kowloon")
	})
}
