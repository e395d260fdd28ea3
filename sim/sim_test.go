package sim

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/constant"
	"github.com/lixenwraith/asnow/flake"
	"github.com/lixenwraith/asnow/frame"
	"github.com/lixenwraith/asnow/input"
	"github.com/lixenwraith/asnow/terminal"
)

// scriptSink serves a batch of events before each draw
type scriptSink struct {
	batches  [][]terminal.Event
	draws    int
	last     string
	resizeAt int // draw count after which a resize is signalled, 0 for never
	resizeCh chan terminal.ResizeEvent
	onDraw   func(n int)
}

func newScriptSink(batches ...[]terminal.Event) *scriptSink {
	return &scriptSink{batches: batches, resizeCh: make(chan terminal.ResizeEvent, 1)}
}

func (ss *scriptSink) Init() error      { return nil }
func (ss *scriptSink) Fini()            {}
func (ss *scriptSink) Size() (int, int) { return 20, 10 }

func (ss *scriptSink) Draw(f *frame.Frame) error {
	ss.draws++
	ss.last = f.String()
	if ss.resizeAt > 0 && ss.draws == ss.resizeAt {
		ss.resizeCh <- terminal.ResizeEvent{Width: 30, Height: 12}
	}
	if ss.onDraw != nil {
		ss.onDraw(ss.draws)
	}
	return nil
}

func (ss *scriptSink) PollEvent() (terminal.Event, bool) {
	if ss.draws >= len(ss.batches) || len(ss.batches[ss.draws]) == 0 {
		return terminal.Event{}, false
	}
	ev := ss.batches[ss.draws][0]
	ss.batches[ss.draws] = ss.batches[ss.draws][1:]
	return ev, true
}

func (ss *scriptSink) ResizeChan() <-chan terminal.ResizeEvent {
	return ss.resizeCh
}

func key(r rune) terminal.Event {
	return terminal.Event{Type: terminal.EventKey, Key: terminal.KeyRune, Rune: r}
}

func noSleep(context.Context, time.Duration) {}

func newSim(t *testing.T, cfg Config, opts ...Option) *Simulation {
	t.Helper()
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNewAllocationError(t *testing.T) {
	for _, cfg := range []Config{
		{Columns: 0, Rows: 10},
		{Columns: 10, Rows: -1},
		{Columns: 1 << 13, Rows: 1 << 13},
	} {
		s, err := New(cfg)
		if s != nil {
			t.Error("Expected nil simulation")
		}
		if errors.Cause(err) != frame.ErrAllocation {
			t.Errorf("Expected ErrAllocation for %dx%d, got %v", cfg.Columns, cfg.Rows, err)
		}
	}
}

func TestNewClampsIntensity(t *testing.T) {
	s := newSim(t, Config{Columns: 10, Rows: 10, Intensity: 500})
	if s.Intensity() != constant.MaxSnow {
		t.Errorf("Expected intensity clamped to %d, got %d", constant.MaxSnow, s.Intensity())
	}
	for i, f := range s.Pool().Active() {
		if !f.Falling || f.Row != 0 {
			t.Fatalf("Expected slot %d started at the top, got %+v", i, f)
		}
	}
	if s.TickInterval() != time.Second/8 {
		t.Errorf("Expected default tick %v, got %v", time.Second/8, s.TickInterval())
	}
}

func TestTickLandsFastFlake(t *testing.T) {
	s := newSim(t, Config{Columns: 10, Rows: 10, Intensity: 1, Seed: 7})

	f := s.Pool().At(0)
	*f = flake.Snowflake{Shape: 'X', Column: 5, Row: 0, Falling: true, Speed: 10, Wobble: 1, Phase: 1}

	st, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if st.Landed != 1 || st.Respawned != 1 {
		t.Errorf("Expected one landing and respawn, got %+v", st)
	}

	landed := 0
	for col := 0; col < 10; col++ {
		if g, _ := s.Terrain().Get(col, 9); g != frame.Blank {
			landed++
			if col < 4 || col > 6 {
				t.Errorf("Expected landing column in [4,6], got %d", col)
			}
		}
	}
	if landed != 1 {
		t.Errorf("Expected exactly one settled glyph on row 9, got %d", landed)
	}

	if !f.Falling || f.Row != 0 {
		t.Errorf("Expected slot reinitialised at the top, got %+v", *f)
	}
}

func TestTickComposesAndRestores(t *testing.T) {
	sink := newScriptSink()
	s := newSim(t, Config{Columns: 20, Rows: 10, Intensity: 3, Seed: 3}, WithSink(sink))

	// Slow flakes in open sky stay in flight for the first tick
	for i := 0; i < 3; i++ {
		f := s.Pool().At(i)
		*f = flake.Snowflake{Shape: '*', Column: float64(3 + 6*i), Row: 2, Falling: true, Speed: 0.5}
	}

	if _, err := s.Tick(); err != nil {
		t.Fatalf("Tick failed: %v", err)
	}

	if n := s.Foreground().Count(frame.Blank); n != s.Foreground().Size() {
		t.Errorf("Expected foreground restored to blank, %d cells remain", s.Foreground().Size()-n)
	}
	if n := s.Screen().Count('*'); n != 3 {
		t.Errorf("Expected 3 flakes on screen, got %d", n)
	}
	if sink.draws != 1 || sink.last != s.Screen().String() {
		t.Errorf("Expected composed screen drawn once, got %d draws", sink.draws)
	}
	if n := s.Terrain().Count('*'); n != 0 {
		t.Errorf("Expected nothing landed, got %d", n)
	}
	for i := 0; i < 3; i++ {
		if got := s.Pool().At(i).Row; got != 2.5 {
			t.Errorf("Expected flake %d advanced to 2.5, got %f", i, got)
		}
	}
}

func TestSnowPilesUp(t *testing.T) {
	s := newSim(t, Config{Columns: 12, Rows: 8, Intensity: 20, Temperature: -40, Seed: 11})

	for i := 0; i < 200; i++ {
		if _, err := s.Tick(); err != nil {
			t.Fatalf("Tick %d failed: %v", i, err)
		}
		if n := s.Foreground().Count(frame.Blank); n != s.Foreground().Size() {
			t.Fatalf("Tick %d: expected blank foreground between ticks", i)
		}
	}

	snow := 0
	for _, g := range flake.Shapes() {
		snow += s.Terrain().Count(g)
	}
	if snow == 0 {
		t.Error("Expected settled snow after 200 ticks")
	}
}

func TestWarmWeatherStopsSnowfall(t *testing.T) {
	s := newSim(t, Config{Columns: 10, Rows: 10, Intensity: 10, Temperature: 3, Seed: 1})
	if s.Snowing() {
		t.Fatal("Expected no snowfall above the cutoff")
	}

	_ = s.Terrain().Put(4, 9, 'X')
	for i := 0; i < 50; i++ {
		st, err := s.Tick()
		if err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
		if st.Landed != 0 || st.Respawned != 0 {
			t.Fatalf("Expected no particle activity, got %+v", st)
		}
	}
	for _, f := range s.Pool().Active() {
		if f.Row != 0 {
			t.Fatalf("Expected flakes held at the top, got row %f", f.Row)
		}
	}
	// A melt pass fires one tick in three at 3°C on 10x10, so the lone flake melts away
	if g, _ := s.Terrain().Get(4, 9); g != frame.Blank {
		t.Errorf("Expected warm weather to melt settled snow, got %q", g)
	}
}

func TestMeltThreshold(t *testing.T) {
	tests := []struct {
		name          string
		columns, rows int
		temperature   float64
		want          int
	}{
		{"freezing point", 70, 10, 0, 100},
		{"cold", 70, 10, -5, 200},
		{"very cold", 70, 10, -50, 1100},
		{"warm", 70, 10, 1, 50},
		{"hot", 70, 10, 400, 1},
		{"tiny frame", 2, 2, 0, 1},
		{"nan", 70, 10, math.NaN(), 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MeltThreshold(tt.columns, tt.rows, tt.temperature); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestHandleAction(t *testing.T) {
	var hooked []int
	s := newSim(t, Config{Columns: 10, Rows: 10, Intensity: 1},
		WithDensityHook(func(used, capacity int) {
			if capacity != constant.MaxSnow {
				t.Errorf("Expected capacity %d, got %d", constant.MaxSnow, capacity)
			}
			hooked = append(hooked, used)
		}))

	s.HandleAction(input.ActionMore)
	s.HandleAction(input.ActionFewer)
	s.HandleAction(input.ActionFewer)
	s.HandleAction(input.ActionFewer) // already zero

	if s.Intensity() != 0 {
		t.Errorf("Expected intensity 0, got %d", s.Intensity())
	}
	want := []int{1, 2, 1, 0}
	if len(hooked) != len(want) {
		t.Fatalf("Expected hook calls %v, got %v", want, hooked)
	}
	for i := range want {
		if hooked[i] != want[i] {
			t.Errorf("Expected hook calls %v, got %v", want, hooked)
			break
		}
	}

	if s.State() != StateRunning {
		t.Fatal("Expected running state")
	}
	s.HandleAction(input.ActionNone)
	s.HandleAction(input.ActionQuit)
	if s.State() != StateTerminated {
		t.Error("Expected quit to terminate")
	}
}

func TestHandleActionMoreClamped(t *testing.T) {
	s := newSim(t, Config{Columns: 10, Rows: 10, Intensity: constant.MaxSnow})
	s.HandleAction(input.ActionMore)
	if s.Intensity() != constant.MaxSnow {
		t.Errorf("Expected intensity held at %d, got %d", constant.MaxSnow, s.Intensity())
	}
}

func TestForcedMelt(t *testing.T) {
	// Very cold and large: a random melt pass is unlikely in one tick
	s := newSim(t, Config{Columns: 100, Rows: 50, Intensity: 0, Temperature: -50, Seed: 5})
	_ = s.Terrain().Put(10, 49, 'X')

	s.HandleAction(input.ActionMelt)
	st, err := s.Tick()
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if !st.MeltPass || st.Melted != 1 {
		t.Errorf("Expected forced melt of one cell, got %+v", st)
	}
	if g, _ := s.Terrain().Get(10, 49); g != 'x' {
		t.Errorf("Expected 'X' melted to 'x', got %q", g)
	}
}

func TestRunQuitKey(t *testing.T) {
	sink := newScriptSink(nil, nil, []terminal.Event{key('.'), key('q')})
	s := newSim(t, Config{Columns: 20, Rows: 10, Intensity: 2}, WithSink(sink), WithClock(time.Now, noSleep))

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome != OutcomeQuit {
		t.Errorf("Expected quit, got %v", outcome)
	}
	if sink.draws != 2 {
		t.Errorf("Expected 2 ticks before quit, got %d", sink.draws)
	}
	if s.Intensity() != 3 {
		t.Errorf("Expected key before quit applied, got intensity %d", s.Intensity())
	}
}

func TestRunCustomKeyTable(t *testing.T) {
	kt := input.MergeKeyTable(input.DefaultKeyTable(), &input.KeyTable{
		Runes: map[rune]input.Action{'x': input.ActionQuit, 'q': input.ActionNone},
	})
	sink := newScriptSink([]terminal.Event{key('q')}, []terminal.Event{key('x')})
	s := newSim(t, Config{Columns: 20, Rows: 10}, WithSink(sink), WithKeyTable(kt), WithClock(time.Now, noSleep))

	if outcome, err := s.Run(context.Background()); err != nil || outcome != OutcomeQuit {
		t.Fatalf("Expected quit, got %v %v", outcome, err)
	}
	if sink.draws != 1 {
		t.Errorf("Expected rebound quit on second tick, got %d draws", sink.draws)
	}
}

func TestRunResize(t *testing.T) {
	sink := newScriptSink()
	sink.resizeAt = 3
	s := newSim(t, Config{Columns: 20, Rows: 10, Intensity: 2}, WithSink(sink), WithClock(time.Now, noSleep))

	outcome, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome != OutcomeResized {
		t.Errorf("Expected resized, got %v", outcome)
	}
	// Resize is noticed at the next tick boundary, never mid-tick
	if sink.draws != 3 {
		t.Errorf("Expected 3 complete ticks, got %d", sink.draws)
	}
	if s.State() != StateTerminated {
		t.Error("Expected terminated state")
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := newScriptSink()
	sink.onDraw = func(n int) {
		if n == 4 {
			cancel()
		}
	}
	s := newSim(t, Config{Columns: 20, Rows: 10}, WithSink(sink), WithClock(time.Now, noSleep))

	outcome, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if outcome != OutcomeCancelled || sink.draws != 4 {
		t.Errorf("Expected cancelled after 4 ticks, got %v after %d", outcome, sink.draws)
	}
}

func TestRunSleepsRemainder(t *testing.T) {
	clock := time.Unix(0, 0)
	now := func() time.Time {
		clock = clock.Add(10 * time.Millisecond)
		return clock
	}

	var slept []time.Duration
	sink := newScriptSink(nil, nil, nil, []terminal.Event{key('q')})
	s := newSim(t, Config{Columns: 20, Rows: 10, FPS: 8}, WithSink(sink),
		WithClock(now, func(_ context.Context, d time.Duration) { slept = append(slept, d) }))

	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(slept) != 3 {
		t.Fatalf("Expected 3 sleeps, got %d", len(slept))
	}
	for _, d := range slept {
		if d != 115*time.Millisecond {
			t.Errorf("Expected tick minus elapsed = 115ms, got %v", d)
		}
	}
}

func TestRunInputErrors(t *testing.T) {
	readErr := errors.New("tty gone")
	sink := newScriptSink([]terminal.Event{{Type: terminal.EventError, Err: readErr}})
	s := newSim(t, Config{Columns: 20, Rows: 10}, WithSink(sink), WithClock(time.Now, noSleep))

	_, err := s.Run(context.Background())
	if errors.Cause(err) != readErr {
		t.Errorf("Expected read error, got %v", err)
	}

	sink = newScriptSink([]terminal.Event{{Type: terminal.EventClosed}})
	s = newSim(t, Config{Columns: 20, Rows: 10}, WithSink(sink), WithClock(time.Now, noSleep))
	if outcome, err := s.Run(context.Background()); err != nil || outcome != OutcomeQuit {
		t.Errorf("Expected clean quit on closed input, got %v %v", outcome, err)
	}
}

func TestRunWithoutSink(t *testing.T) {
	s := newSim(t, Config{Columns: 5, Rows: 5})
	if _, err := s.Run(context.Background()); err != ErrNoSink {
		t.Errorf("Expected ErrNoSink, got %v", err)
	}
}

func TestSleepContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepContext(ctx, time.Hour)
	if time.Since(start) > time.Second {
		t.Error("Expected cancelled context to cut the sleep short")
	}
	sleepContext(context.Background(), -time.Second)
}
