package flake

import "github.com/lixenwraith/asnow/frame"

// shapes is ordered lightest to heaviest
var shapes = [...]rune{'.', '+', '*', 'x', 'X'}

// melt maps each shape to the next lighter stage; '.' melts to blank
var melt = map[rune]rune{
	'X': 'x',
	'x': '*',
	'*': '+',
	'+': '.',
	'.': frame.Blank,
}

// Shapes returns the glyph palette, lightest first
func Shapes() []rune {
	out := make([]rune, len(shapes))
	copy(out, shapes[:])
	return out
}

// Melt returns the next lighter stage of glyph
// ok is false for glyphs that are not snow (scenery, text), which never melt
func Melt(glyph rune) (next rune, ok bool) {
	next, ok = melt[glyph]
	return next, ok
}

// IsSnow reports whether glyph belongs to the palette
func IsSnow(glyph rune) bool {
	_, ok := melt[glyph]
	return ok
}
