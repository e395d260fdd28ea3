package scenery

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/constant"
	"github.com/lixenwraith/asnow/flake"
	"github.com/lixenwraith/asnow/frame"
)

func TestStampNothing(t *testing.T) {
	terrain, _ := frame.New(40, 20)
	if err := Stamp(terrain, rand.New(rand.NewSource(1)), Options{}); err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}
	if n := terrain.Count(frame.Blank); n != terrain.Size() {
		t.Errorf("Expected empty terrain, got %d non-blank cells", terrain.Size()-n)
	}
}

func TestStampMessageCentred(t *testing.T) {
	terrain, _ := frame.New(21, 9)
	if err := Stamp(terrain, rand.New(rand.NewSource(1)), Options{Message: "let it snow"}); err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}
	want := "     let it snow     "
	if got := terrain.Row(4); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStampMessageTruncated(t *testing.T) {
	terrain, _ := frame.New(5, 3)
	if err := Stamp(terrain, rand.New(rand.NewSource(1)), Options{Message: "blizzard"}); err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}
	if got := terrain.Row(1); got != "blizz" {
		t.Errorf("Expected truncated message, got %q", got)
	}
	if got := terrain.Row(2); strings.TrimSpace(got) != "" {
		t.Errorf("Expected message not to spill onto next row, got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"tab\there", "tab here"},
		{"雪", "?"},
		{"a\u0301", "a?"}, // combining accent has zero width
	}
	for _, tt := range tests {
		if got := Sanitize(tt.in); got != tt.want {
			t.Errorf("Sanitize(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestStampTrees(t *testing.T) {
	terrain, _ := frame.New(60, 30)
	if err := Stamp(terrain, rand.New(rand.NewSource(3)), Options{Trees: 3}); err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}
	if terrain.Count('|') < 2 {
		t.Error("Expected at least one trunk on the terrain")
	}
	for _, g := range flake.Shapes() {
		if terrain.Count(g) != 0 {
			t.Errorf("Expected no snow glyph %q in scenery", g)
		}
	}
}

func TestStampTreeTooLarge(t *testing.T) {
	terrain, _ := frame.New(6, 4)
	err := Stamp(terrain, rand.New(rand.NewSource(1)), Options{Trees: 1, Message: "hi"})
	if errors.Cause(err) != frame.ErrOutOfBounds {
		t.Errorf("Expected ErrOutOfBounds, got %v", err)
	}
	// Message is still drawn after the tree is skipped
	if !strings.Contains(terrain.Row(2), "hi") {
		t.Errorf("Expected message on row 2, got %q", terrain.Row(2))
	}
}

func TestRidge(t *testing.T) {
	const columns, rows = 80, 24
	ridge := Ridge(11, columns, rows)
	if len(ridge) != columns {
		t.Fatalf("Expected %d columns, got %d", columns, len(ridge))
	}
	for col, top := range ridge {
		h := rows - top
		if h < 1 || h > constant.GroundMaxHeight {
			t.Errorf("Column %d: height %d out of [1,%d]", col, h, constant.GroundMaxHeight)
		}
	}

	again := Ridge(11, columns, rows)
	for i := range ridge {
		if ridge[i] != again[i] {
			t.Fatal("Expected same seed to give the same ridge")
		}
	}
}

func TestStampGroundAndTreesOnRidge(t *testing.T) {
	terrain, _ := frame.New(50, 20)
	if err := Stamp(terrain, rand.New(rand.NewSource(8)), Options{Ground: true, Trees: 2}); err != nil {
		t.Fatalf("Stamp failed: %v", err)
	}

	last := terrain.Rows() - 1
	for col := 0; col < terrain.Columns(); col++ {
		if terrain.IsBlank(col, last) {
			t.Errorf("Expected ground on the last row at column %d", col)
		}
	}
	if terrain.Count(groundTop) == 0 {
		t.Error("Expected a ridge outline")
	}
}

func TestStampMoon(t *testing.T) {
	terrain, _ := frame.New(40, 24)
	_ = Stamp(terrain, rand.New(rand.NewSource(1)), Options{Moon: true})
	if terrain.Count(moonGlyph) == 0 {
		t.Error("Expected moon outline")
	}

	small, _ := frame.New(8, 6)
	_ = Stamp(small, rand.New(rand.NewSource(1)), Options{Moon: true})
	if small.Count(moonGlyph) != 0 {
		t.Error("Expected no moon on a tiny terrain")
	}
}
