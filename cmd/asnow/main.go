package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/audio"
	"github.com/lixenwraith/asnow/config"
	"github.com/lixenwraith/asnow/frame"
	"github.com/lixenwraith/asnow/input"
	"github.com/lixenwraith/asnow/render"
	"github.com/lixenwraith/asnow/scenery"
	"github.com/lixenwraith/asnow/sim"
	"github.com/lixenwraith/asnow/terminal"
)

const (
	logDir      = "logs"
	logFileName = "asnow.log"
	maxLogSize  = 10 * 1024 * 1024
)

// setupLogging sends log output to logs/asnow.log when debug is set, else discards it
// stdout carries the frames, so logs never go there
// Files above maxLogSize are rotated aside with a timestamp
func setupLogging(debug bool) *os.File {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	logPath := filepath.Join(logDir, logFileName)
	if info, err := os.Stat(logPath); err == nil && info.Size() > maxLogSize {
		rotated := filepath.Join(logDir, fmt.Sprintf("asnow-%s.log", time.Now().Format("20060102-150405")))
		_ = os.Rename(logPath, rotated)
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.SetOutput(io.Discard)
		return nil
	}
	log.SetOutput(f)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f
}

func main() {
	// Panic Recovery: Ensure terminal is reset even if the simulation crashes
	defer func() {
		if r := recover(); r != nil {
			terminal.EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\nASNOW CRASHED: %v\r\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	cfg, err := config.Load(config.Sources{Args: os.Args[1:]})
	if err != nil {
		if config.IsHelp(err) {
			config.Usage(os.Stdout)
			return
		}
		fmt.Fprintf(os.Stderr, "asnow: %v\n", err)
		os.Exit(2)
	}

	if logFile := setupLogging(cfg.Debug); logFile != nil {
		defer logFile.Close()
	}

	if cfg.PrintConfig {
		data, err := cfg.TOML()
		if err != nil {
			fmt.Fprintf(os.Stderr, "asnow: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(data)
		return
	}

	if cfg.Screen == config.ScreenRaw && !cfg.Force && !terminal.IsTTY(os.Stdout) {
		fmt.Fprintln(os.Stderr, "asnow: stdout is not a terminal (use -force to draw anyway)")
		os.Exit(1)
	}

	override, err := input.LoadBindings(cfg.Runes, cfg.Keys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "asnow: %v\n", err)
		os.Exit(2)
	}
	keys := input.MergeKeyTable(input.DefaultKeyTable(), override)

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := run(cfg, keys); err != nil {
		if errors.Cause(err) == frame.ErrAllocation {
			log.Printf("allocation: %v", err)
			fmt.Fprintln(os.Stderr, "no snow forecast today.")
		} else {
			fmt.Fprintf(os.Stderr, "asnow: %v\n", err)
		}
		os.Exit(1)
	}
}

// run owns the sink and restarts the simulation whenever the display is resized
func run(cfg *config.Config, keys *input.KeyTable) error {
	sink, err := newSink(cfg.Screen)
	if err != nil {
		return err
	}
	if err := sink.Init(); err != nil {
		return err
	}
	defer sink.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []sim.Option{sim.WithSink(sink), sim.WithKeyTable(keys)}
	if cfg.Sound {
		player := audio.NewPlayer(cfg.Seed, cfg.Volume)
		if err := player.Start(); err != nil {
			log.Printf("audio: %v (continuing without sound)", err)
		} else {
			defer player.Close()
			opts = append(opts, sim.WithDensityHook(player.SetIntensity))
		}
	}

	intensity := cfg.Intensity
	for seed := cfg.Seed; ; seed++ {
		columns, rows := sink.Size()
		s, err := sim.New(sim.Config{
			Columns:     columns,
			Rows:        rows,
			Intensity:   intensity,
			FPS:         cfg.FPS,
			Temperature: cfg.Temperature,
			Seed:        seed,
			Scenery: scenery.Options{
				Trees:   cfg.Trees,
				Ground:  cfg.Ground,
				Moon:    cfg.Moon,
				Message: cfg.Message,
			},
		}, opts...)
		if err != nil {
			return err
		}

		outcome, err := s.Run(ctx)
		if err != nil {
			return err
		}
		log.Printf("main: run ended: %v", outcome)
		if outcome != sim.OutcomeResized {
			return nil
		}
		intensity = s.Intensity()
	}
}

func newSink(screen string) (render.Sink, error) {
	if screen == config.ScreenTcell {
		s, err := render.NewScreen(nil)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return render.NewStream(terminal.New(true), true), nil
}
