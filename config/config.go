// Package config resolves runtime settings from defaults, a TOML file, the
// environment, ASNOW_OPTS and command-line flags, in increasing precedence.
package config

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/constant"
	"github.com/lixenwraith/asnow/toml"
)

// ErrInvalid is returned when a setting is outside its accepted range
var ErrInvalid = errors.New("config: invalid setting")

// Screen sink names
const (
	ScreenRaw   = "raw"
	ScreenTcell = "tcell"
)

// Temperature limits in degrees Celsius
const (
	minTemperature = -50.0
	maxTemperature = 50.0
)

// Config holds every runtime setting
type Config struct {
	Intensity   int     `toml:"intensity" env:"ASNOW_INTENSITY"`
	FPS         float64 `toml:"fps" env:"ASNOW_FPS"`
	Temperature float64 `toml:"temperature" env:"ASNOW_TEMPERATURE"`
	Trees       int     `toml:"trees" env:"ASNOW_TREES"`
	Ground      bool    `toml:"ground" env:"ASNOW_GROUND"`
	Moon        bool    `toml:"moon" env:"ASNOW_MOON"`
	Seed        int64   `toml:"seed" env:"ASNOW_SEED"` // 0 picks a time-based seed
	Message     string  `toml:"message" env:"ASNOW_MESSAGE"`
	Screen      string  `toml:"screen" env:"ASNOW_SCREEN"`
	Sound       bool    `toml:"sound" env:"ASNOW_SOUND"`
	Volume      float64 `toml:"volume" env:"ASNOW_VOLUME"`
	Debug       bool    `toml:"debug" env:"ASNOW_DEBUG"`

	// Key overrides: action names by rune or terminal key name
	Runes map[string]string `toml:"runes,omitempty"`
	Keys  map[string]string `toml:"keys,omitempty"`

	// Command-line only
	ConfigPath  string `toml:"-"`
	Force       bool   `toml:"-"`
	PrintConfig bool   `toml:"-"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Intensity:   constant.DefaultIntensity,
		FPS:         constant.DefaultFrameRate,
		Temperature: constant.DefaultTemperature,
		Trees:       constant.DefaultTrees,
		Screen:      ScreenRaw,
		Volume:      1.0,
	}
}

// Validate rejects out-of-range settings
func (c *Config) Validate() error {
	switch {
	case c.Intensity < 0 || c.Intensity > constant.MaxSnow:
		return errors.Wrapf(ErrInvalid, "intensity %d not in [0,%d]", c.Intensity, constant.MaxSnow)
	case math.IsNaN(c.FPS) || c.FPS <= 0 || c.FPS > constant.MaxFrameRate:
		return errors.Wrapf(ErrInvalid, "fps %v not in (0,%v]", c.FPS, constant.MaxFrameRate)
	case math.IsNaN(c.Temperature) || c.Temperature < minTemperature || c.Temperature > maxTemperature:
		return errors.Wrapf(ErrInvalid, "temperature %v not in [%v,%v]", c.Temperature, minTemperature, maxTemperature)
	case c.Trees < 0:
		return errors.Wrapf(ErrInvalid, "trees %d is negative", c.Trees)
	case c.Screen != ScreenRaw && c.Screen != ScreenTcell:
		return errors.Wrapf(ErrInvalid, "screen %q is not %q or %q", c.Screen, ScreenRaw, ScreenTcell)
	case math.IsNaN(c.Volume) || c.Volume < 0 || c.Volume > 1:
		return errors.Wrapf(ErrInvalid, "volume %v not in [0,1]", c.Volume)
	}
	return nil
}

// TOML renders the file-backed settings
func (c *Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}
