package audio

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/asnow/constant"
)

// Wind is an endless streamer of low-passed noise with a slow gust swell
// Its loudness follows a target gain that can be changed from any goroutine
type Wind struct {
	rng    *rand.Rand
	rate   beep.SampleRate
	low    float64 // filter state
	phase  float64 // gust cycle position in [0,1)
	step   float64
	gain   float64
	target atomic.Uint64 // float64 bits
}

// NewWind creates a silent wind streamer; raise it with SetIntensity
func NewWind(rate beep.SampleRate, rng *rand.Rand) *Wind {
	return &Wind{
		rng:  rng,
		rate: rate,
		step: 1 / (float64(rate) * constant.WindGustPeriod.Seconds()),
	}
}

// SetIntensity maps active flakes to a target gain
func (w *Wind) SetIntensity(used, capacity int) {
	level := 0.0
	if capacity > 0 {
		level = float64(max(0, min(used, capacity))) / float64(capacity)
	}
	w.target.Store(math.Float64bits(level * constant.WindMaxGain))
}

// Target returns the gain the stream is moving toward
func (w *Wind) Target() float64 {
	return math.Float64frombits(w.target.Load())
}

func (w *Wind) Stream(samples [][2]float64) (n int, ok bool) {
	target := w.Target()
	for i := range samples {
		white := w.rng.Float64()*2 - 1
		w.low = constant.WindSmoothing*w.low + (1-constant.WindSmoothing)*white

		// Gust swells between 0.5 and 1.0 of the current gain
		gust := 0.75 + 0.25*math.Sin(2*math.Pi*w.phase)
		w.phase += w.step
		w.phase -= math.Floor(w.phase)

		switch {
		case w.gain < target:
			w.gain = math.Min(target, w.gain+constant.WindGainSlew)
		case w.gain > target:
			w.gain = math.Max(target, w.gain-constant.WindGainSlew)
		}

		// The filter attenuates noise heavily; rescale toward full range
		val := clamp(w.low*8*gust*w.gain, -1, 1)
		samples[i][0] = val
		samples[i][1] = val
	}
	return len(samples), true
}

func (w *Wind) Err() error { return nil }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
