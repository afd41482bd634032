package annotation

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultCatalog is the Hong Kong harbour flight shown by the demo viewer.
func DefaultCatalog() []Annotation {
	return []Annotation{
		{Title: "North Point/Fortress Hill", Interval: Interval{0, 21}, Position: Position{0.4, 0.2}, DetailRef: "https://www.youtube.com/watch?v=nYZUX1qAX1Y"},
		{Title: "Mid Levels", Interval: Interval{4, 28}, Position: Position{0.3, 0.8}, DetailRef: "https://www.youtube.com/watch?v=hZgGDB_kxB4"},
		{Title: "Wanchai", Interval: Interval{15, 26}, Position: Position{0.9, 0.8}, DetailRef: "https://www.youtube.com/watch?v=_q18-Ehrlag"},
		{Title: "Kowloon", Interval: Interval{26, 65}, Position: Position{0.5, 0.75}, DetailRef: "https://www.youtube.com/watch?v=9vtKEy8dxUQ"},
		{Title: "Hong Kong Island near Victoria Harbour", Interval: Interval{30, 40}, Position: Position{0.5, 0.4}, DetailRef: "https://www.youtube.com/watch?v=7rLnWlzvGYk"},
		{Title: "Chaiwan", Interval: Interval{74, 81}, Position: Position{0.5, 0.6}, DetailRef: "https://www.youtube.com/watch?v=2m7twvbCEzo"},
		{Title: "Victoria Peak", Interval: Interval{88, 101}, Position: Position{0.5, 0.5}, DetailRef: "https://www.youtube.com/shorts/6lrqs-jCqmo"},
		{Title: "Victoria Harbour", Interval: Interval{101, 112}, Position: Position{0.5, 0.8}, DetailRef: "https://www.youtube.com/watch?v=53mBGprmXRY"},
		{Title: "Mid Levels", Interval: Interval{111, 120}, Position: Position{0.4, 0.7}, DetailRef: "https://www.youtube.com/watch?v=hZgGDB_kxB4"},
	}
}

// catalogEntry is the on-disk shape of one landmark.
type catalogEntry struct {
	Title     string  `koanf:"title"`
	TimeStart string  `koanf:"time_start"`
	TimeEnd   string  `koanf:"time_end"`
	XPercent  float64 `koanf:"x_percent"`
	YPercent  float64 `koanf:"y_percent"`
	VideoPath string  `koanf:"video_path"`
}

// LoadCatalog reads a YAML file with a top-level "landmarks" list:
//
//	landmarks:
//	  - title: Wanchai
//	    time_start: "0:15"
//	    time_end: "0:26"
//	    x_percent: 0.9
//	    y_percent: 0.8
//	    video_path: https://...
//
// Times are M:SS timecodes.  The result is validated like NewEngine would.
func LoadCatalog(path string) ([]Annotation, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	var entries []catalogEntry
	if err := k.UnmarshalWithConf("landmarks", &entries, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	out := make([]Annotation, 0, len(entries))
	for i, e := range entries {
		start, err := ParseTimecode(e.TimeStart)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%q) time_start: %w", i, e.Title, err)
		}
		end, err := ParseTimecode(e.TimeEnd)
		if err != nil {
			return nil, fmt.Errorf("catalog entry %d (%q) time_end: %w", i, e.Title, err)
		}
		out = append(out, Annotation{
			Title:     e.Title,
			Interval:  Interval{Start: start, End: end},
			Position:  Position{X: e.XPercent, Y: e.YPercent},
			DetailRef: e.VideoPath,
		})
	}
	if err := ValidateCatalog(out); err != nil {
		return nil, err
	}
	return out, nil
}
