package terminal

import (
	"bufio"
	"errors"
	"io"
	"os"
	"sync"
)

// ErrClosed is returned when terminal input reaches end of file
var ErrClosed = errors.New("terminal: input closed")

// Terminal owns raw mode, buffered output, key polling and resize events
type Terminal struct {
	backend  Backend
	out      *bufio.Writer
	parser   *inputParser
	pending  []Event
	resizeCh chan ResizeEvent

	mu          sync.Mutex
	initialized bool
	finalized   bool
	altScreen   bool
}

// New creates a terminal on stdin/stdout
// altScreen switches to the alternate screen so the shell is intact on exit
func New(altScreen bool) *Terminal {
	return newTerminal(newBackend(), altScreen)
}

func newTerminal(b Backend, altScreen bool) *Terminal {
	return &Terminal{
		backend:   b,
		out:       bufio.NewWriterSize(backendWriter{b}, 64*1024),
		parser:    newInputParser(),
		resizeCh:  make(chan ResizeEvent, 1),
		altScreen: altScreen,
	}
}

// Init enters raw mode and prepares the screen
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.initialized {
		return nil
	}

	if err := t.backend.Init(); err != nil {
		return err
	}

	t.backend.SetResizeHandler(func(w, h int) {
		// Non-blocking send; drain and replace so only the latest size is pending
		select {
		case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
		default:
			select {
			case <-t.resizeCh:
			default:
			}
			select {
			case t.resizeCh <- ResizeEvent{Width: w, Height: h}:
			default:
			}
		}
	})

	if t.altScreen {
		t.out.Write(csiAltScreenEnter)
	}
	t.out.Write(csiCursorHide)
	t.out.Write(csiClear)
	t.out.Flush()

	t.initialized = true
	return nil
}

// Fini restores terminal state. Safe to call multiple times
func (t *Terminal) Fini() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized || t.finalized {
		return
	}

	t.out.Write(csiSGR0)
	t.out.Write(csiCursorShow)
	if t.altScreen {
		t.out.Write(csiAltScreenExit)
	} else {
		t.out.Write(csiClear)
	}
	t.out.Flush()

	t.backend.Fini()
	t.finalized = true
}

// Size returns current terminal dimensions
func (t *Terminal) Size() (int, int) {
	return t.backend.Size()
}

// Writer returns the buffered output; callers flush after each frame
func (t *Terminal) Writer() *bufio.Writer {
	return t.out
}

// ResizeChan returns the channel that receives resize events
func (t *Terminal) ResizeChan() <-chan ResizeEvent {
	return t.resizeCh
}

// PollEvent returns the next pending key event without blocking
func (t *Terminal) PollEvent() (Event, bool) {
	if len(t.pending) == 0 {
		data, err := t.backend.Poll(0)
		if err != nil {
			if errors.Is(err, ErrClosed) {
				return Event{Type: EventClosed}, true
			}
			return Event{Type: EventError, Err: err}, true
		}
		if len(data) == 0 {
			return Event{}, false
		}
		t.pending = append(t.pending, t.parser.feed(data)...)
		if len(t.pending) == 0 {
			return Event{}, false
		}
	}

	ev := t.pending[0]
	t.pending = t.pending[1:]
	return ev, true
}

// backendWriter adapts Backend.Write to io.Writer
type backendWriter struct {
	b Backend
}

func (w backendWriter) Write(p []byte) (int, error) {
	if err := w.b.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// EmergencyReset restores a sane terminal from a crash path
// Writes directly, bypassing any buffered output
func EmergencyReset(w io.Writer) {
	w.Write(csiCursorShow)
	w.Write(csiAltScreenExit)
	w.Write(csiSGR0)
	w.Write(csiRIS)

	if f, ok := w.(*os.File); ok {
		f.Sync()
	}

	// Escape sequences alone don't restore termios
	resetTerminalMode()
}
