package render

import (
	"bufio"

	"github.com/pkg/errors"

	"github.com/lixenwraith/asnow/frame"
	"github.com/lixenwraith/asnow/terminal"
)

// rawTerminal is the subset of terminal.Terminal used by Stream
type rawTerminal interface {
	Init() error
	Fini()
	Size() (int, int)
	Writer() *bufio.Writer
	PollEvent() (terminal.Event, bool)
	ResizeChan() <-chan terminal.ResizeEvent
}

// Stream writes frames as a raw cell sequence followed by a carriage return
type Stream struct {
	term rawTerminal
	home bool
}

// NewStream wraps a raw-mode terminal
// With home set, the cursor is sent to the top-left cell before every frame
func NewStream(t rawTerminal, home bool) *Stream {
	return &Stream{term: t, home: home}
}

func (s *Stream) Init() error {
	return errors.Wrap(s.term.Init(), "init terminal")
}

func (s *Stream) Fini() {
	s.term.Fini()
}

func (s *Stream) Size() (int, int) {
	return s.term.Size()
}

// Draw renders f through the terminal's buffered writer
func (s *Stream) Draw(f *frame.Frame) error {
	w := s.term.Writer()
	if s.home {
		if _, err := w.Write(terminal.HomeSequence()); err != nil {
			return errors.Wrap(err, "write home")
		}
	}
	return f.Render(w)
}

func (s *Stream) PollEvent() (terminal.Event, bool) {
	return s.term.PollEvent()
}

func (s *Stream) ResizeChan() <-chan terminal.ResizeEvent {
	return s.term.ResizeChan()
}
