package terminal

import "time"

// Backend abstracts platform-specific terminal operations
type Backend interface {
	// Lifecycle
	Init() error
	Fini()

	// Capabilities
	Size() (width, height int)

	// I/O
	// Write writes raw bytes to the terminal output
	Write(p []byte) error

	// Poll returns input available within timeout; a zero timeout never blocks
	// Returns nil data when nothing is pending
	Poll(timeout time.Duration) ([]byte, error)

	// Callbacks
	// SetResizeHandler registers a callback for terminal resize events
	SetResizeHandler(handler func(width, height int))
}
