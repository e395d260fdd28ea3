package render

import (
	"log"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/frame"
	"github.com/lixenwraith/asnow/terminal"
)

// eventBuffer bounds keypresses queued between ticks
const eventBuffer = 100

// Screen draws frames through tcell and converts its events
type Screen struct {
	screen   tcell.Screen
	events   chan terminal.Event
	resizeCh chan terminal.ResizeEvent
	done     chan struct{}
	once     sync.Once
}

// NewScreen creates a sink on the given tcell screen, or the real terminal when nil
func NewScreen(s tcell.Screen) (*Screen, error) {
	if s == nil {
		var err error
		s, err = tcell.NewScreen()
		if err != nil {
			return nil, errors.Wrap(err, "create tcell screen")
		}
	}
	return &Screen{
		screen:   s,
		events:   make(chan terminal.Event, eventBuffer),
		resizeCh: make(chan terminal.ResizeEvent, 1),
		done:     make(chan struct{}),
	}, nil
}

// Init starts the screen and the event pump
func (s *Screen) Init() error {
	if err := s.screen.Init(); err != nil {
		return errors.Wrap(err, "init tcell screen")
	}
	s.screen.HideCursor()
	s.screen.Clear()

	// tcell reports the initial size as a resize; the simulation already sized itself
	w, h := s.screen.Size()
	initial := true

	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				nw, nh := ev.Size()
				if initial && nw == w && nh == h {
					initial = false
					continue
				}
				initial = false
				s.pushResize(terminal.ResizeEvent{Width: nw, Height: nh})
			case *tcell.EventKey:
				s.pushKey(convertKey(ev))
			}
		}
	}()
	return nil
}

// Fini stops the screen; safe to call more than once
func (s *Screen) Fini() {
	s.once.Do(func() {
		close(s.done)
		s.screen.Fini()
	})
}

func (s *Screen) Size() (int, int) {
	return s.screen.Size()
}

// Draw copies the frame into the screen, clipped to the smaller of the two
func (s *Screen) Draw(f *frame.Frame) error {
	w, h := s.screen.Size()
	cols, rows := min(w, f.Columns()), min(h, f.Rows())
	for row := 0; row < rows; row++ {
		base := row * f.Columns()
		for col := 0; col < cols; col++ {
			s.screen.SetContent(col, row, f.At(base+col), nil, tcell.StyleDefault)
		}
	}
	s.screen.Show()
	return nil
}

func (s *Screen) PollEvent() (terminal.Event, bool) {
	select {
	case ev := <-s.events:
		return ev, true
	default:
		return terminal.Event{}, false
	}
}

func (s *Screen) ResizeChan() <-chan terminal.ResizeEvent {
	return s.resizeCh
}

func (s *Screen) pushKey(ev terminal.Event) {
	if ev.Key == terminal.KeyNone {
		return
	}
	select {
	case s.events <- ev:
	case <-s.done:
	default:
		log.Printf("render: dropped key event, queue full")
	}
}

// pushResize keeps only the latest size pending
func (s *Screen) pushResize(ev terminal.ResizeEvent) {
	for {
		select {
		case s.resizeCh <- ev:
			return
		default:
		}
		select {
		case <-s.resizeCh:
		default:
		}
	}
}

// convertKey maps a tcell key event onto terminal.Event
// Unmapped keys come back with KeyNone
func convertKey(ev *tcell.EventKey) terminal.Event {
	out := terminal.Event{Type: terminal.EventKey}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		out.Modifiers = terminal.ModAlt
	}

	switch k := ev.Key(); {
	case k == tcell.KeyRune:
		out.Key = terminal.KeyRune
		out.Rune = ev.Rune()
	case k == tcell.KeyEscape:
		out.Key = terminal.KeyEscape
	case k == tcell.KeyEnter:
		out.Key = terminal.KeyEnter
	case k == tcell.KeyTab:
		out.Key = terminal.KeyTab
	case k == tcell.KeyBackspace || k == tcell.KeyBackspace2:
		out.Key = terminal.KeyBackspace
	case k == tcell.KeyUp:
		out.Key = terminal.KeyUp
	case k == tcell.KeyDown:
		out.Key = terminal.KeyDown
	case k == tcell.KeyLeft:
		out.Key = terminal.KeyLeft
	case k == tcell.KeyRight:
		out.Key = terminal.KeyRight
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		out.Key = terminal.KeyCtrlA + terminal.Key(k-tcell.KeyCtrlA)
	}
	return out
}
