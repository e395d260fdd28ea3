// Package scenery draws the static terrain the snow settles on.
package scenery

import (
	"log"
	"math/rand"
	"strings"

	"github.com/aquilax/go-perlin"
	"github.com/mattn/go-runewidth"
	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/constant"
	"github.com/lixenwraith/asnow/frame"
)

// Options selects which scenery is stamped
type Options struct {
	Trees   int
	Ground  bool
	Moon    bool
	Message string
}

// Perlin parameters for the ground ridge
const (
	noiseAlpha = 2.0
	noiseBeta  = 2.0
	noiseOct   = 3
	noiseStep  = 0.07
)

// Stamp draws the requested scenery into terrain
// Stamps that do not fit are skipped and logged; the first such error is returned
// after every other stamp has been drawn
func Stamp(terrain *frame.Frame, rng *rand.Rand, opts Options) error {
	var first error
	keep := func(err error) {
		if err == nil {
			return
		}
		log.Printf("scenery: %v", err)
		if first == nil {
			first = err
		}
	}

	var ridge []int
	if opts.Ground {
		ridge = Ridge(rng.Int63(), terrain.Columns(), terrain.Rows())
		drawGround(terrain, ridge)
	}

	if opts.Moon {
		drawMoon(terrain)
	}

	for i := 0; i < opts.Trees; i++ {
		keep(plantTree(terrain, rng, trees[i%len(trees)], ridge))
	}

	if opts.Message != "" {
		keep(writeMessage(terrain, opts.Message))
	}
	return first
}

// Ridge returns the top row of the ground for every column
// Heights vary smoothly between 1 and GroundMaxHeight rows
func Ridge(seed int64, columns, rows int) []int {
	maxHeight := min(constant.GroundMaxHeight, rows/3)
	if maxHeight < 1 {
		maxHeight = 1
	}

	p := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOct, seed)
	ridge := make([]int, columns)
	for col := range ridge {
		n := p.Noise1D(float64(col) * noiseStep) // roughly [-1,1]
		h := 1 + int((n+1)/2*float64(maxHeight))
		h = max(1, min(h, maxHeight))
		ridge[col] = rows - h
	}
	return ridge
}

func drawGround(terrain *frame.Frame, ridge []int) {
	last := terrain.Rows() - 1
	for col, top := range ridge {
		terrain.Line(col, top+1, col, last, groundFill)
		if col > 0 {
			terrain.Line(col-1, ridge[col-1], col, top, groundTop)
		} else {
			_ = terrain.Put(col, top, groundTop)
		}
	}
}

func drawMoon(terrain *frame.Frame) {
	r := constant.MoonRadius
	col := terrain.Columns() - 2*r - 2
	row := r + 1
	if col < r || row+r >= terrain.Rows()/2 {
		log.Printf("scenery: no room for the moon in %dx%d", terrain.Columns(), terrain.Rows())
		return
	}
	terrain.Circle(col, row, r, moonGlyph)
}

// plantTree stands a tree on the ridge, or anywhere when there is no ground
func plantTree(terrain *frame.Frame, rng *rand.Rand, tree []string, ridge []int) error {
	width, height := stampSize(tree)
	if width >= terrain.Columns() || height >= terrain.Rows() {
		return errors.Wrapf(frame.ErrOutOfBounds, "tree %dx%d does not fit %dx%d",
			width, height, terrain.Columns(), terrain.Rows())
	}

	col := rng.Intn(terrain.Columns() - width)
	var row int
	if ridge != nil {
		row = ridge[col+width/2] - height
		row = max(0, row)
	} else {
		row = rng.Intn(terrain.Rows() - height)
	}
	return terrain.WriteShape(col, row, tree)
}

// writeMessage centres text on the middle row
func writeMessage(terrain *frame.Frame, msg string) error {
	msg = Sanitize(msg)
	if runewidth.StringWidth(msg) > terrain.Columns() {
		msg = runewidth.Truncate(msg, terrain.Columns(), "")
	}
	col := (terrain.Columns() - runewidth.StringWidth(msg)) / 2
	_, err := terrain.WriteText(col, terrain.Rows()/2, msg)
	return errors.Wrap(err, "message")
}

// Sanitize makes msg safe for a one-rune-per-cell grid
// Control characters become spaces; runes that are not exactly one cell wide become '?'
func Sanitize(msg string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < ' ' || r == 0x7f:
			return ' '
		case runewidth.RuneWidth(r) != 1:
			return '?'
		}
		return r
	}, msg)
}
