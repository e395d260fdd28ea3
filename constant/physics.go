package constant

import "math"

// Snowflake Spawn Parameters
// Ranges are [Min, Min+Span)
const (
	FlakeSpeedMin  = 0.3
	FlakeSpeedSpan = 1.2

	FlakePhaseSpan = 2 * math.Pi

	FlakeFreqSpan = 0.2

	FlakeWobbleMin  = 0.5
	FlakeWobbleSpan = 3.5
)

// Melt Scheduling
const (
	// MeltAreaDivisor turns frame area into the base melt threshold at 0°C
	// A melt pass fires with probability 1/threshold per tick
	MeltAreaDivisor = 7

	// MeltColdScale is the number of degrees below zero that adds one more base threshold
	MeltColdScale = 5.0

	// DefaultTemperature in degrees Celsius
	DefaultTemperature = -5.0

	// SnowfallCutoff is the temperature above which no snow falls
	SnowfallCutoff = 0.5
)
