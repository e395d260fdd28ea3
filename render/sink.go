// Package render delivers composed frames to an output device.
//
// Two sinks exist: Stream writes the raw cell sequence to a terminal in raw
// mode, Screen draws through a tcell screen. Both also surface keypresses and
// resize notifications so the simulation loop does not care which is active.
package render

import (
	"github.com/lixenwraith/asnow/frame"
	"github.com/lixenwraith/asnow/terminal"
)

// Sink displays frames and supplies input
type Sink interface {
	Init() error
	Fini()

	// Size returns columns and rows of the display
	Size() (int, int)

	// Draw presents one frame
	Draw(f *frame.Frame) error

	// PollEvent returns the next pending input event without blocking
	PollEvent() (terminal.Event, bool)

	// ResizeChan delivers the latest display size after a resize
	ResizeChan() <-chan terminal.ResizeEvent
}
