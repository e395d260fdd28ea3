package input

// Action is what a keypress asks the simulation to do
type Action uint8

const (
	ActionNone  Action = iota
	ActionQuit         // q, Esc, Ctrl+C
	ActionFewer        // , < Down
	ActionMore         // . > Up
	ActionMelt         // m M
)

// actionRegistry maps config action names to actions
// "none" unbinds a key when merged over the defaults
var actionRegistry = map[string]Action{
	"none":  ActionNone,
	"quit":  ActionQuit,
	"fewer": ActionFewer,
	"more":  ActionMore,
	"melt":  ActionMelt,
}

// ActionByName resolves a config action name
func ActionByName(name string) (Action, bool) {
	a, ok := actionRegistry[name]
	return a, ok
}

func (a Action) String() string {
	for name, v := range actionRegistry {
		if v == a {
			return name
		}
	}
	return "unknown"
}
