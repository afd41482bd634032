package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/aerial-tour-booking/internal/annotation"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Play the annotated flight and print landmarks as they appear",
	Long: `demo plays the annotation catalog against a wall clock and prints a
line whenever the set of live landmarks changes.

Example:
  tourctl demo --speed 4
  tourctl demo --catalog landmarks.yaml --from 1:20 --for 30s`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	f := demoCmd.Flags()
	f.String("catalog", "", "YAML catalog (default: demo_catalog_path or the built-in flight)")
	f.Float64("speed", 1, "playback speed")
	f.String("from", "0:00", "start position as M:SS")
	f.Duration("for", 0, "stop after this much wall time (default: end of the last window)")
	f.Duration("period", annotation.DefaultSamplePeriod, "sampling period")
}

func runDemo(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	path, _ := f.GetString("catalog")
	if path == "" {
		path = cfg.GetString(keyDemoPath)
	}
	catalog := annotation.DefaultCatalog()
	if path != "" {
		var err error
		if catalog, err = annotation.LoadCatalog(path); err != nil {
			return err
		}
	}
	fromText, _ := f.GetString("from")
	from, err := annotation.ParseTimecode(fromText)
	if err != nil {
		return err
	}
	speed, _ := f.GetFloat64("speed")
	period, _ := f.GetDuration("period")
	limit, _ := f.GetDuration("for")

	clock := annotation.NewWallClock(speed)
	engine, err := annotation.NewEngine(catalog, annotation.WithPlayer(clock))
	if err != nil {
		return err
	}
	clock.Seek(from)
	clock.Play()

	if limit <= 0 {
		limit = playbackLength(catalog, from, speed)
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), limit)
	defer cancel()

	out := cmd.OutOrStdout()
	last := "\x00"
	err = annotation.NewSampler(engine, clock, period).Run(ctx, func(t float64, active []annotation.Annotation) {
		names := make([]string, len(active))
		for i, a := range active {
			names[i] = a.Title
		}
		line := strings.Join(names, ", ")
		if line == last {
			return
		}
		last = line
		if line == "" {
			line = "(no landmarks)"
		}
		fmt.Fprintf(out, "%s  %s\n", annotation.FormatTimecode(t), line)
	})
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// playbackLength is the wall time until the last window closes, plus one
// sample so the final change is printed.
func playbackLength(catalog []annotation.Annotation, from, speed float64) time.Duration {
	end := 0.0
	for _, a := range catalog {
		end = max(end, a.Interval.End)
	}
	if speed <= 0 {
		speed = 1
	}
	remaining := max(end-from, 0) / speed
	return time.Duration(remaining*float64(time.Second)) + annotation.DefaultSamplePeriod
}
