package sim

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/terminal"
)

// ErrNoSink is returned by Run when the simulation has nowhere to draw
var ErrNoSink = errors.New("sim: no sink")

// Outcome is why Run returned
type Outcome uint8

const (
	OutcomeQuit      Outcome = iota // quit key or closed input
	OutcomeResized                  // display size changed; restart with new dimensions
	OutcomeCancelled                // context cancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeQuit:
		return "quit"
	case OutcomeResized:
		return "resized"
	case OutcomeCancelled:
		return "cancelled"
	}
	return "unknown"
}

type sleeper func(ctx context.Context, d time.Duration)

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Run ticks until quit, cancellation or resize
// Input and resize are only observed between ticks, never mid-tick
func (s *Simulation) Run(ctx context.Context) (Outcome, error) {
	if s.sink == nil {
		return OutcomeQuit, ErrNoSink
	}

	for {
		select {
		case <-ctx.Done():
			s.state = StateTerminated
			return OutcomeCancelled, nil
		default:
		}

		select {
		case ev := <-s.sink.ResizeChan():
			log.Printf("sim: resize to %dx%d", ev.Width, ev.Height)
			s.state = StateTerminated
			return OutcomeResized, nil
		default:
		}

		if err := s.drainInput(); err != nil {
			s.state = StateTerminated
			return OutcomeQuit, err
		}
		if s.state == StateTerminated {
			return OutcomeQuit, nil
		}

		start := s.now()
		if _, err := s.Tick(); err != nil {
			s.state = StateTerminated
			return OutcomeQuit, err
		}
		s.sleep(ctx, s.tick-s.now().Sub(start))
	}
}

// drainInput applies every pending key without blocking
func (s *Simulation) drainInput() error {
	for s.state == StateRunning {
		ev, ok := s.sink.PollEvent()
		if !ok {
			return nil
		}
		switch ev.Type {
		case terminal.EventClosed:
			log.Printf("sim: input closed")
			s.state = StateTerminated
		case terminal.EventError:
			return errors.Wrap(ev.Err, "read input")
		case terminal.EventKey:
			s.HandleAction(s.keys.Resolve(ev))
		}
	}
	return nil
}
