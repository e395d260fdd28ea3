package terminal

// keyToName maps Key constants to canonical config string names
var keyToName = map[Key]string{
	KeyEscape:    "escape",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",

	KeyUp:    "up",
	KeyDown:  "down",
	KeyLeft:  "left",
	KeyRight: "right",
}

// nameToKey is the reverse lookup, built at init
var nameToKey map[string]Key

func init() {
	for k := KeyCtrlA; k <= KeyCtrlZ; k++ {
		keyToName[k] = "ctrl_" + string(rune('a'+int(k-KeyCtrlA)))
	}

	nameToKey = make(map[string]Key, len(keyToName)+1)
	for k, name := range keyToName {
		nameToKey[name] = k
	}
	nameToKey["esc"] = KeyEscape
}

// KeyByName returns the Key for a config name such as "escape" or "ctrl_c"
func KeyByName(name string) (Key, bool) {
	k, ok := nameToKey[name]
	return k, ok
}

// KeyName returns the config name for k, empty for KeyNone and KeyRune
func KeyName(k Key) string {
	return keyToName[k]
}
