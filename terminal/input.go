package terminal

import (
	"unicode/utf8"
)

// inputParser turns raw stdin bytes into key events
// Incomplete UTF-8 and escape sequences are held until the next feed
type inputParser struct {
	buf []byte
}

func newInputParser() *inputParser {
	return &inputParser{buf: make([]byte, 0, 64)}
}

// feed appends data and returns every complete event it contains
// A lone ESC at the end of a read is a real Escape key press: terminals send
// escape sequences in a single write, so nothing follows it in the same read
func (p *inputParser) feed(data []byte) []Event {
	p.buf = append(p.buf, data...)
	var events []Event

	i := 0
	n := len(p.buf)
	for i < n {
		b := p.buf[i]

		switch {
		// Fast path: printable ASCII
		case b >= 0x20 && b < 0x7f:
			events = append(events, Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++

		case b == 0x1b:
			if i+1 >= n {
				events = append(events, Event{Type: EventKey, Key: KeyEscape})
				i++
				continue
			}
			consumed, ev := parseEscape(p.buf[i:])
			if consumed == 0 {
				// Incomplete CSI, wait for more data
				p.compact(i)
				return events
			}
			if ev.Key != KeyNone {
				events = append(events, ev)
			}
			i += consumed

		case b == 0x7f:
			events = append(events, Event{Type: EventKey, Key: KeyBackspace})
			i++

		case b < 0x20:
			events = append(events, parseControl(b))
			i++

		default:
			if !utf8.FullRune(p.buf[i:]) {
				p.compact(i)
				return events
			}
			r, size := utf8.DecodeRune(p.buf[i:])
			if r != utf8.RuneError {
				events = append(events, Event{Type: EventKey, Key: KeyRune, Rune: r})
			}
			i += size
		}
	}

	p.buf = p.buf[:0]
	return events
}

// compact drops the first consumed bytes, keeping the incomplete tail
func (p *inputParser) compact(consumed int) {
	copy(p.buf, p.buf[consumed:])
	p.buf = p.buf[:len(p.buf)-consumed]
}

// parseControl maps C0 control bytes
func parseControl(b byte) Event {
	switch b {
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0d, 0x0a:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x08:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x00:
		return Event{Type: EventKey, Key: KeyRune, Rune: ' '}
	}
	if b >= 0x01 && b <= 0x1a {
		return Event{Type: EventKey, Key: KeyCtrlA + Key(b-0x01)}
	}
	return Event{Type: EventKey, Key: KeyNone}
}

// parseEscape parses a sequence starting with ESC; data has at least 2 bytes
// Returns 0 consumed when the sequence is incomplete
// Unknown sequences are consumed and reported as KeyNone
func parseEscape(data []byte) (int, Event) {
	switch data[1] {
	case '[':
		// CSI: parameters 0x30-0x3F, intermediates 0x20-0x2F, final 0x40-0x7E
		for j := 2; j < len(data); j++ {
			c := data[j]
			if c >= 0x40 && c <= 0x7e {
				return j + 1, Event{Type: EventKey, Key: arrowKey(c)}
			}
			if c < 0x20 || c > 0x3f {
				// Malformed, drop what we have
				return j, Event{Type: EventKey, Key: KeyNone}
			}
		}
		return 0, Event{}

	case 'O':
		// SS3: single final byte
		if len(data) < 3 {
			return 0, Event{}
		}
		return 3, Event{Type: EventKey, Key: arrowKey(data[2])}

	case 0x1b:
		// Double ESC: first one is a key press of its own
		return 1, Event{Type: EventKey, Key: KeyEscape}
	}

	// Alt+key
	if data[1] >= 0x20 && data[1] < 0x7f {
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}
	}
	return 1, Event{Type: EventKey, Key: KeyEscape}
}

func arrowKey(final byte) Key {
	switch final {
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	}
	return KeyNone
}
