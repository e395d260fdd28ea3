package input

import "github.com/lixenwraith/asnow/terminal"

// KeyTable maps keys to actions
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, Esc)
	Keys map[terminal.Key]Action

	// Printable rune bindings
	Runes map[rune]Action
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		Keys: map[terminal.Key]Action{
			terminal.KeyEscape: ActionQuit,
			terminal.KeyCtrlC:  ActionQuit,
			terminal.KeyUp:     ActionMore,
			terminal.KeyDown:   ActionFewer,
		},
		Runes: map[rune]Action{
			'q': ActionQuit,
			',': ActionFewer,
			'<': ActionFewer,
			'.': ActionMore,
			'>': ActionMore,
			'm': ActionMelt,
			'M': ActionMelt,
		},
	}
}

// Resolve maps an input event to an action
// Alt-modified runes are not bound
func (kt *KeyTable) Resolve(ev terminal.Event) Action {
	if ev.Type != terminal.EventKey {
		return ActionNone
	}
	if ev.Key == terminal.KeyRune {
		if ev.Modifiers&terminal.ModAlt != 0 {
			return ActionNone
		}
		return kt.Runes[ev.Rune]
	}
	return kt.Keys[ev.Key]
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	c := &KeyTable{
		Keys:  make(map[terminal.Key]Action, len(kt.Keys)),
		Runes: make(map[rune]Action, len(kt.Runes)),
	}
	for k, v := range kt.Keys {
		c.Keys[k] = v
	}
	for r, v := range kt.Runes {
		c.Runes[r] = v
	}
	return c
}
