// Package physics decides where snowflakes land and how settled snow melts.
package physics

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/asnow/flake"
	"github.com/lixenwraith/asnow/frame"
)

// EffectiveColumn is the drawn column of s after sway, wrapped into [0,columns)
// Collision and drawing both use this column so they agree within a tick
func EffectiveColumn(s *flake.Snowflake, columns int) int {
	col := int(math.Floor(s.Column + s.Wobble*math.Sin(s.Phase)))
	return wrap(col, columns)
}

// IsBlocked reports whether s stops falling this tick over terrain
//
// Rules, first match wins:
//  1. At or past the last row: clamp Row to rows-1, blocked.
//  2. Obstacle directly below within the tick's fall distance: Row advances to
//     just above it, blocked. Cells below the last row count as obstacles.
//  3. Obstacle diagonally below (columns wrap): blocked on a coin flip, which
//     roughens pile edges instead of forming a flat snowline.
func IsBlocked(rng *rand.Rand, terrain *frame.Frame, s *flake.Snowflake, column int) bool {
	rows, columns := terrain.Rows(), terrain.Columns()
	row := int(math.Floor(s.Row))
	step := int(math.Ceil(s.Speed))

	if row >= rows-1 {
		s.Row = float64(rows - 1)
		return true
	}

	left, right := wrap(column-1, columns), wrap(column+1, columns)
	for i := 1; i <= step; i++ {
		below := row + i
		if !terrain.IsBlank(column, below) {
			s.Row += float64(i - 1)
			return true
		}
		if !terrain.IsBlank(left, below) || !terrain.IsBlank(right, below) {
			return rng.Intn(2) == 0
		}
	}
	return false
}

// IsBlocker reports whether a settled flake is shielded from melting
// A flake is shielded while anything sits directly above it or, away from the
// edge columns, diagonally above it. Row 0 is never shielded.
func IsBlocker(terrain *frame.Frame, s *flake.Snowflake) bool {
	col, row := int(s.Column), int(s.Row)
	if row <= 0 {
		return false
	}

	above := row - 1
	if !terrain.IsBlank(col, above) {
		return true
	}
	if col > 0 && col < terrain.Columns()-1 {
		if !terrain.IsBlank(col-1, above) || !terrain.IsBlank(col+1, above) {
			return true
		}
	}
	return false
}

func wrap(col, columns int) int {
	col %= columns
	if col < 0 {
		col += columns
	}
	return col
}
