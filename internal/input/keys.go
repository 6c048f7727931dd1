package input

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// KeyString names a key event the way keymaps spell it, e.g. "ctrl+d",
// "shift+tab", "del" or a bare rune.
func KeyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	switch ev.Key() {
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		if mods&tcell.ModShift != 0 {
			return "shift+enter"
		}
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyRune:
		r := ev.Rune()
		prefix := ""
		if mods&(tcell.ModCtrl|tcell.ModMeta) != 0 {
			prefix += "ctrl+"
		}
		if mods&tcell.ModAlt != 0 {
			prefix += "alt+"
		}
		if r == ' ' {
			return prefix + "space"
		}
		if prefix != "" {
			return prefix + strings.ToLower(string(r))
		}
		return string(r)
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	name, ok := namedKeys[ev.Key()]
	if !ok {
		return ""
	}
	return modPrefix(mods) + name
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyUp:     "up",
	tcell.KeyDown:   "down",
	tcell.KeyLeft:   "left",
	tcell.KeyRight:  "right",
	tcell.KeyPgUp:   "pgup",
	tcell.KeyPgDn:   "pgdn",
	tcell.KeyHome:   "home",
	tcell.KeyEnd:    "end",
	tcell.KeyDelete: "del",
	tcell.KeyF2:     "f2",
}

func modPrefix(mods tcell.ModMask) string {
	var b strings.Builder
	if mods&(tcell.ModCtrl|tcell.ModMeta) != 0 {
		b.WriteString("ctrl+")
	}
	if mods&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if mods&tcell.ModShift != 0 {
		b.WriteString("shift+")
	}
	return b.String()
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}
