// Package sim runs the snowfall: it owns the frames and the particle pool,
// advances every flake once per tick, lands and melts snow, and composes the
// layers for display.
//
// Layers:
//   - terrain: scenery plus every landed flake; changes only by landing and melting
//   - foreground: flakes in flight, drawn fresh each tick
//   - scratch: foreground snapshot taken before drawing, restored after compose
//   - screen: terrain with the foreground merged on top, handed to the sink
package sim

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/constant"
	"github.com/lixenwraith/asnow/flake"
	"github.com/lixenwraith/asnow/frame"
	"github.com/lixenwraith/asnow/input"
	"github.com/lixenwraith/asnow/physics"
	"github.com/lixenwraith/asnow/render"
	"github.com/lixenwraith/asnow/scenery"
)

// Config sizes and tunes one simulation run
type Config struct {
	Columns     int
	Rows        int
	Intensity   int     // active flakes, clamped to [0,MaxSnow]
	FPS         float64 // ticks per second, DefaultFrameRate when <= 0
	Temperature float64 // degrees Celsius
	Seed        int64
	Scenery     scenery.Options
}

// State of the run loop
type State uint8

const (
	StateRunning State = iota
	StateTerminated
)

// TickStats reports what one tick did
type TickStats struct {
	Landed    int // flakes burned into the terrain
	Respawned int // slots reinitialised at the top
	MeltPass  bool
	Melted    int // cells changed by the melt pass
}

// Simulation is single-goroutine; Run and Tick must not be called concurrently
type Simulation struct {
	screen  *frame.Frame
	scratch *frame.Frame
	terrain *frame.Frame
	fg      *frame.Frame
	pool    *flake.Pool
	rng     *rand.Rand

	sink      render.Sink
	keys      *input.KeyTable
	onDensity func(used, capacity int)
	now       func() time.Time
	sleep     sleeper

	tick          time.Duration
	temperature   float64
	meltThreshold int
	forceMelt     bool
	state         State
}

// Option configures a Simulation
type Option func(*Simulation)

// WithSink sets the display and input source; without one, ticks are not drawn
func WithSink(sink render.Sink) Option {
	return func(s *Simulation) { s.sink = sink }
}

// WithKeyTable replaces the default key bindings
func WithKeyTable(kt *input.KeyTable) Option {
	return func(s *Simulation) { s.keys = kt }
}

// WithDensityHook is called with the active flake count whenever it changes
func WithDensityHook(fn func(used, capacity int)) Option {
	return func(s *Simulation) { s.onDensity = fn }
}

// WithClock replaces wall-clock time and the inter-tick sleep
func WithClock(now func() time.Time, sleep func(ctx context.Context, d time.Duration)) Option {
	return func(s *Simulation) {
		s.now = now
		s.sleep = sleep
	}
}

// New allocates the frames and pool, stamps the scenery and starts the flakes
func New(cfg Config, opts ...Option) (*Simulation, error) {
	var frames [4]*frame.Frame
	for i := range frames {
		f, err := frame.New(cfg.Columns, cfg.Rows)
		if err != nil {
			return nil, errors.Wrap(err, "allocate simulation")
		}
		frames[i] = f
	}

	fps := cfg.FPS
	if fps <= 0 {
		fps = constant.DefaultFrameRate
	}
	fps = math.Min(fps, constant.MaxFrameRate)

	s := &Simulation{
		screen:        frames[0],
		scratch:       frames[1],
		terrain:       frames[2],
		fg:            frames[3],
		pool:          flake.NewPool(cfg.Intensity),
		rng:           rand.New(rand.NewSource(cfg.Seed)),
		keys:          input.DefaultKeyTable(),
		now:           time.Now,
		sleep:         sleepContext,
		tick:          time.Duration(float64(time.Second) / fps),
		temperature:   cfg.Temperature,
		meltThreshold: MeltThreshold(cfg.Columns, cfg.Rows, cfg.Temperature),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Skipped stamps are logged by scenery; a partial scene still runs
	_ = scenery.Stamp(s.terrain, s.rng, cfg.Scenery)

	s.pool.Start(s.rng, cfg.Columns)
	s.notifyDensity()

	log.Printf("sim: %dx%d, %d flakes, tick %v, melt 1/%d at %.1f°C",
		cfg.Columns, cfg.Rows, s.pool.Used(), s.tick, s.meltThreshold, s.temperature)
	return s, nil
}

// MeltThreshold is the inverse per-tick probability of a melt pass
// The base is area/7 at 0°C; colder scales it up by one base per MeltColdScale
// degrees, warmer divides it by 1+temperature. Never below 1.
func MeltThreshold(columns, rows int, temperature float64) int {
	base := float64(columns*rows) / constant.MeltAreaDivisor
	switch {
	case temperature < 0:
		base *= 1 + (-temperature)/constant.MeltColdScale
	case temperature > 0:
		base /= 1 + temperature
	}
	if base < 1 || math.IsNaN(base) {
		return 1
	}
	return int(base)
}

// Snowing reports whether it is cold enough for snow to fall
func (s *Simulation) Snowing() bool {
	return s.temperature <= constant.SnowfallCutoff
}

// Tick advances the simulation by one step and draws the result
func (s *Simulation) Tick() (TickStats, error) {
	var st TickStats

	if err := frame.Copy(s.scratch, s.fg); err != nil {
		return st, err
	}

	if s.Snowing() {
		columns := s.terrain.Columns()
		for i := 0; i < s.pool.Used(); i++ {
			f := s.pool.At(i)
			col := physics.EffectiveColumn(f, columns)
			row := int(math.Floor(f.Row))

			if physics.IsBlocked(s.rng, s.terrain, f, col) {
				f.Falling = false
				row = int(math.Floor(f.Row))
				if f.Row != 0 {
					if err := s.terrain.Put(col, row, f.Shape); err != nil {
						return st, err
					}
					st.Landed++
				}
			}

			if f.Falling {
				if err := s.fg.Put(col, row, f.Shape); err != nil {
					return st, err
				}
				f.Advance()
			} else {
				flake.Init(f, s.rng, columns)
				st.Respawned++
			}
		}
	}

	if s.forceMelt || s.rng.Intn(s.meltThreshold) == 0 {
		s.forceMelt = false
		st.MeltPass = true
		st.Melted = physics.MeltPass(s.terrain)
	}

	if err := frame.Copy(s.screen, s.terrain); err != nil {
		return st, err
	}
	if err := frame.Merge(s.screen, s.fg); err != nil {
		return st, err
	}
	if s.sink != nil {
		if err := s.sink.Draw(s.screen); err != nil {
			return st, errors.Wrap(err, "draw")
		}
	}
	if err := frame.Copy(s.fg, s.scratch); err != nil {
		return st, err
	}
	return st, nil
}

// HandleAction applies a key action; quit moves the loop to StateTerminated
func (s *Simulation) HandleAction(a input.Action) {
	switch a {
	case input.ActionQuit:
		s.state = StateTerminated
	case input.ActionFewer:
		s.setIntensity(s.pool.Used() - 1)
	case input.ActionMore:
		s.setIntensity(s.pool.Used() + 1)
	case input.ActionMelt:
		s.forceMelt = true
		log.Printf("sim: melt forced")
	}
}

func (s *Simulation) setIntensity(n int) {
	prev := s.pool.Used()
	if got := s.pool.SetUsed(n, s.rng, s.terrain.Columns()); got != prev {
		log.Printf("sim: intensity %d -> %d", prev, got)
		s.notifyDensity()
	}
}

func (s *Simulation) notifyDensity() {
	if s.onDensity != nil {
		s.onDensity(s.pool.Used(), s.pool.Cap())
	}
}

// Intensity returns the active flake count
func (s *Simulation) Intensity() int { return s.pool.Used() }

// State returns the loop state
func (s *Simulation) State() State { return s.state }

// TickInterval returns the target time between ticks
func (s *Simulation) TickInterval() time.Duration { return s.tick }

// Terrain returns the settled snow and scenery layer
func (s *Simulation) Terrain() *frame.Frame { return s.terrain }

// Screen returns the last composed frame
func (s *Simulation) Screen() *frame.Frame { return s.screen }

// Foreground returns the in-flight layer; it is blank between ticks
func (s *Simulation) Foreground() *frame.Frame { return s.fg }

// Pool exposes the particle arena
func (s *Simulation) Pool() *flake.Pool { return s.pool }
