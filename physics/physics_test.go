package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/lixenwraith/asnow/flake"
	"github.com/lixenwraith/asnow/frame"
)

func newTerrain(t *testing.T, columns, rows int) *frame.Frame {
	t.Helper()
	f, err := frame.New(columns, rows)
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}
	return f
}

func TestEffectiveColumn(t *testing.T) {
	tests := []struct {
		name    string
		flake   flake.Snowflake
		columns int
		want    int
	}{
		{"no sway", flake.Snowflake{Column: 4.7, Wobble: 2, Phase: 0}, 10, 4},
		{"sway right", flake.Snowflake{Column: 4.2, Wobble: 2, Phase: math.Pi / 2}, 10, 6},
		{"sway left", flake.Snowflake{Column: 4.2, Wobble: 2, Phase: -math.Pi / 2}, 10, 2},
		{"wrap left edge", flake.Snowflake{Column: 0.5, Wobble: 3, Phase: -math.Pi / 2}, 10, 7},
		{"wrap right edge", flake.Snowflake{Column: 9.5, Wobble: 3, Phase: math.Pi / 2}, 10, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveColumn(&tt.flake, tt.columns); got != tt.want {
				t.Errorf("Expected column %d, got %d", tt.want, got)
			}
		})
	}
}

func TestIsBlockedBottomClamp(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terrain := newTerrain(t, 10, 10)

	for _, row := range []float64{9, 9.4, 12.8} {
		s := flake.Snowflake{Row: row, Speed: 0.5}
		if !IsBlocked(rng, terrain, &s, 3) {
			t.Errorf("Expected row %.1f to be blocked", row)
		}
		if s.Row != 9 {
			t.Errorf("Expected row clamped to 9, got %f", s.Row)
		}
	}
}

func TestIsBlockedObstacleBelow(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terrain := newTerrain(t, 10, 10)
	_ = terrain.Put(3, 6, '#')

	// Obstacle two rows down, inside this tick's fall distance
	s := flake.Snowflake{Row: 4.25, Speed: 1.8}
	if !IsBlocked(rng, terrain, &s, 3) {
		t.Fatal("Expected flake to be blocked by obstacle")
	}
	if s.Row != 5.25 {
		t.Errorf("Expected row advanced to 5.25, got %f", s.Row)
	}

	// Obstacle directly below
	s = flake.Snowflake{Row: 5, Speed: 0.4}
	if !IsBlocked(rng, terrain, &s, 3) {
		t.Fatal("Expected flake to be blocked directly above obstacle")
	}
	if s.Row != 5 {
		t.Errorf("Expected row unchanged at 5, got %f", s.Row)
	}

	// Obstacle beyond the fall distance does not block yet
	s = flake.Snowflake{Row: 1, Speed: 1.0}
	if IsBlocked(rng, terrain, &s, 3) {
		t.Error("Expected distant obstacle not to block")
	}
}

func TestIsBlockedFrameFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	terrain := newTerrain(t, 10, 10)

	// Fast flake whose fall distance reaches past the last row lands on it
	s := flake.Snowflake{Row: 0, Speed: 10}
	if !IsBlocked(rng, terrain, &s, 5) {
		t.Fatal("Expected flake to land on the floor")
	}
	if s.Row != 9 {
		t.Errorf("Expected row 9, got %f", s.Row)
	}
}

func TestIsBlockedOpenSky(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	terrain := newTerrain(t, 20, 30)

	for i := 0; i < 1000; i++ {
		var s flake.Snowflake
		flake.Init(&s, rng, terrain.Columns())
		s.Row = float64(rng.Intn(terrain.Rows() - 3))
		col := EffectiveColumn(&s, terrain.Columns())

		if IsBlocked(rng, terrain, &s, col) {
			t.Fatalf("Expected no block on blank terrain at row %f", s.Row)
		}
	}
}

func TestIsBlockedDiagonalCoinFlip(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	terrain := newTerrain(t, 10, 10)
	_ = terrain.Put(4, 5, '#')

	blocked, free := 0, 0
	for i := 0; i < 400; i++ {
		s := flake.Snowflake{Row: 4, Speed: 1}
		if IsBlocked(rng, terrain, &s, 5) {
			blocked++
		} else {
			free++
		}
		if s.Row != 4 {
			t.Fatalf("Expected diagonal rule to leave row unchanged, got %f", s.Row)
		}
	}
	if blocked == 0 || free == 0 {
		t.Errorf("Expected both outcomes, got blocked=%d free=%d", blocked, free)
	}
}

func TestIsBlockedDiagonalWraps(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	terrain := newTerrain(t, 10, 10)
	_ = terrain.Put(9, 5, '#')

	// Column 0's left neighbour is the last column
	blocked := false
	for i := 0; i < 100 && !blocked; i++ {
		s := flake.Snowflake{Row: 4, Speed: 1}
		blocked = IsBlocked(rng, terrain, &s, 0)
	}
	if !blocked {
		t.Error("Expected wrapped diagonal neighbour to block at least once")
	}
}

func TestIsBlockerTopRow(t *testing.T) {
	terrain := newTerrain(t, 5, 5)
	terrain.Fill('X')

	for col := 0; col < 5; col++ {
		s := flake.Snowflake{Column: float64(col), Row: 0}
		if IsBlocker(terrain, &s) {
			t.Errorf("Expected column %d on row 0 never to be a blocker", col)
		}
	}
}

func TestIsBlocker(t *testing.T) {
	tests := []struct {
		name     string
		above    [2]int // cell to occupy, {-1,-1} for none
		col, row int
		want     bool
	}{
		{"nothing above", [2]int{-1, -1}, 2, 3, false},
		{"directly above", [2]int{2, 2}, 2, 3, true},
		{"diagonal left", [2]int{1, 2}, 2, 3, true},
		{"diagonal right", [2]int{3, 2}, 2, 3, true},
		{"two rows up", [2]int{2, 1}, 2, 3, false},
		{"left edge ignores diagonal", [2]int{1, 2}, 0, 3, false},
		{"right edge ignores diagonal", [2]int{3, 2}, 4, 3, false},
		{"edge still shielded directly", [2]int{4, 2}, 4, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terrain := newTerrain(t, 5, 5)
			_ = terrain.Put(tt.col, tt.row, 'X')
			if tt.above[0] >= 0 {
				_ = terrain.Put(tt.above[0], tt.above[1], '+')
			}
			s := flake.Snowflake{Column: float64(tt.col), Row: float64(tt.row)}
			if got := IsBlocker(terrain, &s); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMeltPassSequence(t *testing.T) {
	terrain := newTerrain(t, 6, 6)
	_ = terrain.Put(3, 5, 'X')

	want := []rune{'x', '*', '+', '.', frame.Blank, frame.Blank, frame.Blank}
	for i, w := range want {
		MeltPass(terrain)
		got, _ := terrain.Get(3, 5)
		if got != w {
			t.Fatalf("Pass %d: expected %q, got %q", i+1, w, got)
		}
	}
	if n := terrain.Count(frame.Blank); n != terrain.Size() {
		t.Errorf("Expected empty terrain, %d non-blank cells remain", terrain.Size()-n)
	}
}

func TestMeltPassShielded(t *testing.T) {
	terrain := newTerrain(t, 5, 5)
	_ = terrain.Put(2, 4, 'X')
	_ = terrain.Put(2, 3, '.')

	if n := MeltPass(terrain); n != 1 {
		t.Errorf("Expected only the top flake to melt, changed %d", n)
	}
	if g, _ := terrain.Get(2, 4); g != 'X' {
		t.Errorf("Expected shielded flake unchanged, got %q", g)
	}
	if g, _ := terrain.Get(2, 3); g != frame.Blank {
		t.Errorf("Expected top flake melted away, got %q", g)
	}

	// Shield gone: the lower flake melts on the next pass
	MeltPass(terrain)
	if g, _ := terrain.Get(2, 4); g != 'x' {
		t.Errorf("Expected exposed flake to melt to 'x', got %q", g)
	}
}

func TestMeltPassKeepsScenery(t *testing.T) {
	terrain := newTerrain(t, 5, 5)
	_, _ = terrain.WriteText(0, 2, "/\\ab")
	_ = terrain.Put(1, 3, '*')

	MeltPass(terrain)

	if got := terrain.Row(2); got != "/\\ab " {
		t.Errorf("Expected scenery untouched, got %q", got)
	}
	if g, _ := terrain.Get(1, 3); g != '*' {
		t.Errorf("Expected flake under scenery shielded, got %q", g)
	}
}
