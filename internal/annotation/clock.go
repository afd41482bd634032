package annotation

import (
	"context"
	"sync"
	"time"
)

// Clock is any readable playback position in seconds.
type Clock interface {
	CurrentTime() float64
}

// Player is a Clock that can also be rewound and resumed.
type Player interface {
	Clock
	Seek(seconds float64)
	Play()
}

// ManualClock is a Player whose time only moves when told to.  Demo
// sessions use one per connection and set it from client reports.
type ManualClock struct {
	mu      sync.Mutex
	t       float64
	playing bool
}

func (c *ManualClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.  The clock may be moved backwards, which
// models a seek in the playback source.
func (c *ManualClock) Set(t float64) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d seconds when playing.
func (c *ManualClock) Advance(d float64) {
	c.mu.Lock()
	if c.playing && d > 0 {
		c.t += d
	}
	c.mu.Unlock()
}

func (c *ManualClock) Seek(seconds float64) { c.Set(seconds) }

func (c *ManualClock) Play() {
	c.mu.Lock()
	c.playing = true
	c.mu.Unlock()
}

func (c *ManualClock) Pause() {
	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
}

func (c *ManualClock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// WallClock derives playback time from elapsed wall time scaled by Speed.
type WallClock struct {
	mu      sync.Mutex
	now     func() time.Time
	origin  time.Time
	offset  float64
	speed   float64
	playing bool
}

// NewWallClock returns a paused clock at 0.  A speed <= 0 means 1.
func NewWallClock(speed float64) *WallClock {
	if speed <= 0 {
		speed = 1
	}
	return &WallClock{now: time.Now, speed: speed}
}

func (c *WallClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentLocked()
}

func (c *WallClock) currentLocked() float64 {
	if !c.playing {
		return c.offset
	}
	return c.offset + c.now().Sub(c.origin).Seconds()*c.speed
}

func (c *WallClock) Seek(seconds float64) {
	c.mu.Lock()
	c.offset = seconds
	c.origin = c.now()
	c.mu.Unlock()
}

func (c *WallClock) Play() {
	c.mu.Lock()
	if !c.playing {
		c.origin = c.now()
		c.playing = true
	}
	c.mu.Unlock()
}

func (c *WallClock) Pause() {
	c.mu.Lock()
	c.offset = c.currentLocked()
	c.playing = false
	c.mu.Unlock()
}

// DefaultSamplePeriod is fine enough that no window of a few seconds can
// be skipped between samples.
const DefaultSamplePeriod = 100 * time.Millisecond

// Sampler reads a Clock at a fixed period and ticks an Engine with it.
type Sampler struct {
	engine *Engine
	clock  Clock
	period time.Duration
}

// NewSampler returns a sampler; a period <= 0 means DefaultSamplePeriod.
func NewSampler(e *Engine, c Clock, period time.Duration) *Sampler {
	if period <= 0 {
		period = DefaultSamplePeriod
	}
	return &Sampler{engine: e, clock: c, period: period}
}

// Run ticks the engine immediately and then once per period until ctx is
// cancelled, calling onTick after each tick.  The engine is only touched
// from the calling goroutine, and the ticker is stopped on return so
// nothing outlives Run.
func (s *Sampler) Run(ctx context.Context, onTick func(t float64, active []Annotation)) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	for {
		t := s.clock.CurrentTime()
		active := s.engine.Tick(t)
		if onTick != nil {
			onTick(t, active)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
