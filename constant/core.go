package constant

import "time"

// Loop Timing
const (
	// DefaultFrameRate is the number of simulation ticks per second
	DefaultFrameRate = 8.0

	// MaxFrameRate caps the tick rate; higher rates only burn CPU on a character grid
	MaxFrameRate = 60.0

	// MinTickInterval is the shortest sleep budget a tick can be given
	MinTickInterval = time.Second / time.Duration(MaxFrameRate)
)

// Resource Limits
const (
	// MaxSnow is the fixed capacity of the snowflake pool
	MaxSnow = 100

	// DefaultIntensity is the number of simultaneously falling flakes at start
	DefaultIntensity = 5

	// MaxCells bounds a single frame allocation (columns*rows)
	// 4096x4096 is far beyond any real terminal
	MaxCells = 1 << 24
)

// Scenery
const (
	// DefaultTrees is the number of tree stamps placed on the terrain
	DefaultTrees = 3

	// GroundMaxHeight is the tallest ridge the ground generator produces, in rows
	GroundMaxHeight = 4

	// MoonRadius is the radius of the optional moon outline, in cells
	MoonRadius = 3
)
