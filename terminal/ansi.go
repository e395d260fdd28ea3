package terminal

// Terminal setup sequences; frames themselves carry no escape sequences
var (
	csiClear      = []byte("\x1b[2J\x1b[H")
	csiHome       = []byte("\x1b[H")
	csiRIS        = []byte("\x1bc") // Reset to Initial State (emergency)
	csiSGR0       = []byte("\x1b[0m")
	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")
)

// HomeSequence moves the cursor to the top-left cell
// Stream sinks write it before each frame so a full-screen frame never scrolls
func HomeSequence() []byte {
	return csiHome
}
