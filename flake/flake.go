// Package flake holds the snowflake particle model and its fixed-capacity pool.
package flake

import (
	"math/rand"

	"github.com/lixenwraith/asnow/constant"
)

// Snowflake is one falling snow particle
// Column and Row are continuous; the drawn cell is their floor after sway
type Snowflake struct {
	Shape   rune
	Column  float64
	Row     float64
	Falling bool
	Speed   float64 // rows per tick
	Phase   float64 // sway phase, radians
	Freq    float64 // phase advance per tick
	Wobble  float64 // sway amplitude, columns
}

// Init resets s to a new falling flake at the top of a frame of the given width
func Init(s *Snowflake, rng *rand.Rand, columns int) {
	s.Shape = shapes[rng.Intn(len(shapes))]
	s.Column = rng.Float64() * float64(columns)
	s.Row = 0
	s.Falling = true
	s.Speed = constant.FlakeSpeedMin + rng.Float64()*constant.FlakeSpeedSpan
	s.Phase = rng.Float64() * constant.FlakePhaseSpan
	s.Freq = rng.Float64() * constant.FlakeFreqSpan
	s.Wobble = constant.FlakeWobbleMin + rng.Float64()*constant.FlakeWobbleSpan
}

// Advance moves a falling flake one tick along its trajectory
func (s *Snowflake) Advance() {
	s.Row += s.Speed
	s.Phase += s.Freq
}
