package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/toml"
)

// OptsEnv holds default command-line options, split like a shell would
const OptsEnv = "ASNOW_OPTS"

// Sources are the inputs Load reads
type Sources struct {
	// Args are command-line arguments without the program name
	Args []string

	// Environ is the environment; nil means the process environment
	Environ map[string]string
}

// Load resolves settings in order: defaults, file, environment, ASNOW_OPTS, flags
// The first positional argument, if any, replaces the message
func Load(src Sources) (*Config, error) {
	environ := src.Environ
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}

	words, err := shellwords.Parse(environ[OptsEnv])
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "%s: %v", OptsEnv, err)
	}
	fromOpts, _, err := scan(words)
	if err != nil {
		return nil, errors.Wrap(err, OptsEnv)
	}
	fromArgs, positional, err := scan(src.Args)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	path, explicit := configPath(environ, fromOpts, fromArgs)
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
			path = ""
		}
	}

	if err := ParseEnv(cfg, environ); err != nil {
		return nil, errors.Wrapf(ErrInvalid, "%v", err)
	}

	if err := apply(cfg, fromOpts); err != nil {
		return nil, err
	}
	if err := apply(cfg, fromArgs); err != nil {
		return nil, err
	}
	if len(positional) > 0 {
		cfg.Message = positional[0]
	}
	cfg.ConfigPath = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML file over cfg
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(ErrInvalid, "%s: %v", path, err)
	}
	return nil
}

// ParseEnv loads ASNOW_* variables from environ over cfg
func ParseEnv(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// configPath picks the file to read; explicit reports whether it was requested
func configPath(environ map[string]string, fromOpts, fromArgs map[string]string) (string, bool) {
	if p := fromArgs["config"]; p != "" {
		return p, true
	}
	if p := fromOpts["config"]; p != "" {
		return p, true
	}
	if p := environ["ASNOW_CONFIG"]; p != "" {
		return p, true
	}

	base := environ["XDG_CONFIG_HOME"]
	if base == "" {
		home := environ["HOME"]
		if home == "" {
			return "", false
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "asnow", "asnow.toml"), false
}

// scan parses words against the flag set and returns the flags that were set
func scan(words []string) (map[string]string, []string, error) {
	fs := newFlagSet(Default())
	fs.SetOutput(io.Discard)
	if err := fs.Parse(words); err != nil {
		return nil, nil, err
	}
	set := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = f.Value.String()
	})
	return set, fs.Args(), nil
}

// apply replays scanned flags onto cfg
func apply(cfg *Config, set map[string]string) error {
	fs := newFlagSet(cfg)
	for name, value := range set {
		if err := fs.Set(name, value); err != nil {
			return errors.Wrapf(ErrInvalid, "-%s: %v", name, err)
		}
	}
	return nil
}

func newFlagSet(c *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("asnow", flag.ContinueOnError)
	fs.IntVar(&c.Intensity, "intensity", c.Intensity, "number of falling snowflakes")
	fs.Float64Var(&c.FPS, "fps", c.FPS, "frames per second")
	fs.Float64Var(&c.Temperature, "temperature", c.Temperature, "air temperature in °C; warmer melts faster, above 0.5 no snow falls")
	fs.IntVar(&c.Trees, "trees", c.Trees, "number of trees")
	fs.BoolVar(&c.Ground, "ground", c.Ground, "draw a rolling ground ridge")
	fs.BoolVar(&c.Moon, "moon", c.Moon, "draw the moon")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed, 0 for time-based")
	fs.StringVar(&c.Message, "message", c.Message, "text centred on the screen")
	fs.StringVar(&c.Screen, "screen", c.Screen, "output: raw or tcell")
	fs.BoolVar(&c.Sound, "sound", c.Sound, "play wind ambience")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "wind volume in [0,1]")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "write logs to logs/asnow.log")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "TOML config file")
	fs.BoolVar(&c.Force, "force", c.Force, "run even when stdout is not a terminal")
	fs.BoolVar(&c.PrintConfig, "print-config", c.PrintConfig, "print the resolved config as TOML and exit")
	return fs
}

// Usage writes flag help to w
func Usage(w io.Writer) {
	fs := newFlagSet(Default())
	fs.SetOutput(w)
	fmt.Fprintf(w, "Usage: asnow [flags] [message]\n\nDefault flags may also be given in %s.\n\n", OptsEnv)
	fs.PrintDefaults()
}

// IsHelp reports whether err came from -h or -help
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
