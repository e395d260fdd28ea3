package physics

import (
	"github.com/lixenwraith/asnow/flake"
	"github.com/lixenwraith/asnow/frame"
)

// MeltPass moves every unshielded snow glyph in terrain one stage lighter
// Shielding is judged on the terrain as it was before the pass, so the result
// does not depend on scan order. Non-snow glyphs never melt but still shield.
// Returns the number of cells changed.
func MeltPass(terrain *frame.Frame) int {
	before := terrain.Clone()
	columns := terrain.Columns()

	changed := 0
	var probe flake.Snowflake
	for pos := 0; pos < before.Size(); pos++ {
		g := before.At(pos)
		if g == frame.Blank {
			continue
		}
		next, ok := flake.Melt(g)
		if !ok {
			continue
		}

		probe.Column = float64(pos % columns)
		probe.Row = float64(pos / columns)
		if IsBlocker(before, &probe) {
			continue
		}

		terrain.SetAt(pos, next)
		changed++
	}
	return changed
}
