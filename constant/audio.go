package constant

import "time"

// Wind Ambience
const (
	// WindSampleRate is the speaker sample rate in Hz
	WindSampleRate = 44100

	// WindBufferDuration is the speaker buffer length; longer is steadier, shorter reacts faster
	WindBufferDuration = 100 * time.Millisecond

	// WindSmoothing is the one-pole low-pass coefficient applied to white noise (0..1, higher is darker)
	WindSmoothing = 0.985

	// WindGustPeriod is the length of one slow gust cycle
	WindGustPeriod = 7 * time.Second

	// WindMaxGain is the linear gain at full intensity
	WindMaxGain = 0.6

	// WindGainSlew is the per-sample step the gain takes toward its target
	WindGainSlew = 0.00002
)
