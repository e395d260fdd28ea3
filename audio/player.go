package audio

import (
	"math"
	"math/rand"
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/constant"
)

// Player owns the speaker and plays wind whose loudness follows snowfall
type Player struct {
	mu          sync.Mutex
	wind        *Wind
	ctrl        *beep.Ctrl
	mixer       *beep.Mixer
	rate        beep.SampleRate
	initialized bool
}

// NewPlayer creates a player; nothing is audible until Start
func NewPlayer(seed int64, volume float64) *Player {
	rate := beep.SampleRate(constant.WindSampleRate)
	wind := NewWind(rate, rand.New(rand.NewSource(seed)))
	ctrl := &beep.Ctrl{Streamer: wind}
	mixer := &beep.Mixer{}
	mixer.Add(newVolume(ctrl, volume))

	return &Player{
		wind:  wind,
		ctrl:  ctrl,
		mixer: mixer,
		rate:  rate,
	}
}

// Start initialises the speaker and begins playback
func (p *Player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(p.rate, p.rate.N(constant.WindBufferDuration)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// SetIntensity forwards the active flake count to the wind
func (p *Player) SetIntensity(used, capacity int) {
	p.wind.SetIntensity(used, capacity)
}

// Close stops playback and releases the speaker
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}

// newVolume wraps s with a linear gain
// math.Log2(0) is -Inf, so zero volume is made silent instead
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
