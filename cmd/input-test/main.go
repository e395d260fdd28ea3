// input-test echoes keypresses with the action each resolves to under the
// current key configuration. Ctrl+C exits.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lixenwraith/asnow/config"
	"github.com/lixenwraith/asnow/input"
	"github.com/lixenwraith/asnow/terminal"
)

func main() {
	cfg, err := config.Load(config.Sources{Args: os.Args[1:]})
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	override, err := input.LoadBindings(cfg.Runes, cfg.Keys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keys: %v\n", err)
		os.Exit(2)
	}
	keys := input.MergeKeyTable(input.DefaultKeyTable(), override)

	term := terminal.New(false)
	if err := term.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer term.Fini()

	out := term.Writer()
	w, h := term.Size()
	// Raw mode: every line needs an explicit carriage return
	fmt.Fprintf(out, "Input Test %dx%d - press keys, Ctrl+C to quit\r\n", w, h)
	out.Flush()

	for {
		select {
		case ev := <-term.ResizeChan():
			fmt.Fprintf(out, "RESIZE: %dx%d\r\n", ev.Width, ev.Height)
			out.Flush()
		default:
		}

		ev, ok := term.PollEvent()
		if !ok {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		switch ev.Type {
		case terminal.EventKey:
			fmt.Fprintf(out, "KEY: %-12s -> %s\r\n", formatKey(ev), keys.Resolve(ev))
			out.Flush()
			if ev.Key == terminal.KeyCtrlC {
				return
			}
		case terminal.EventError:
			fmt.Fprintf(out, "ERROR: %v\r\n", ev.Err)
			out.Flush()
		case terminal.EventClosed:
			return
		}
	}
}

func formatKey(ev terminal.Event) string {
	mods := ""
	if ev.Modifiers&terminal.ModAlt != 0 {
		mods = "alt+"
	}
	if ev.Key != terminal.KeyRune {
		return mods + terminal.KeyName(ev.Key)
	}
	if ev.Rune >= 0x20 && ev.Rune < 0x7f {
		return fmt.Sprintf("%s'%c'", mods, ev.Rune)
	}
	return fmt.Sprintf("%sU+%04X", mods, ev.Rune)
}
