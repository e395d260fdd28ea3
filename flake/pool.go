package flake

import (
	"math/rand"

	"github.com/lixenwraith/asnow/constant"
)

// Pool is a fixed arena of snowflake slots
// Slots [0,Used) are active; releasing a flake reinitialises its slot in place
type Pool struct {
	flakes [constant.MaxSnow]Snowflake
	used   int
}

// NewPool returns a pool with used slots active, clamped to [0,MaxSnow]
func NewPool(used int) *Pool {
	return &Pool{used: clampUsed(used)}
}

// Start initialises every active slot for a frame of the given width
func (p *Pool) Start(rng *rand.Rand, columns int) {
	for i := 0; i < p.used; i++ {
		Init(&p.flakes[i], rng, columns)
	}
}

// Cap returns the pool capacity
func (p *Pool) Cap() int {
	return len(p.flakes)
}

// Used returns the number of active slots
func (p *Pool) Used() int {
	return p.used
}

// SetUsed changes the active count, clamped to [0,MaxSnow]
// Newly activated slots are initialised; deactivated slots keep stale state
// and are reinitialised when reactivated. Returns the applied count.
func (p *Pool) SetUsed(n int, rng *rand.Rand, columns int) int {
	n = clampUsed(n)
	for i := p.used; i < n; i++ {
		Init(&p.flakes[i], rng, columns)
	}
	p.used = n
	return n
}

// At returns the slot at index i, nil outside [0,Used)
func (p *Pool) At(i int) *Snowflake {
	if i < 0 || i >= p.used {
		return nil
	}
	return &p.flakes[i]
}

// Active returns the active slots; the slice aliases pool storage
func (p *Pool) Active() []Snowflake {
	return p.flakes[:p.used]
}

func clampUsed(n int) int {
	return max(0, min(n, constant.MaxSnow))
}
