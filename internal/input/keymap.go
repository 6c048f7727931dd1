// Package input turns terminal events into selection commands and host
// actions.
package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qgrid/internal/selection"
)

type Action string

const (
	ActionNone       Action = ""
	ActionQuit       Action = "quit"
	ActionFillDown   Action = "fill_down"
	ActionClearCells Action = "clear_cells"
	ActionSave       Action = "save"
	ActionSortAsc    Action = "sort_ascending"
	ActionSortDesc   Action = "sort_descending"
	ActionWiden      Action = "widen_column"
	ActionNarrow     Action = "narrow_column"
	ActionMoveUp     Action = "move_up"
	ActionMoveDown   Action = "move_down"
	ActionMoveLeft   Action = "move_left"
	ActionMoveRight  Action = "move_right"
	ActionStartEdit  Action = "start_edit"
	ActionCancel     Action = "cancel"
)

// aliases are actions that stand for a key the selection machine knows.
var aliases = map[Action]selection.Key{
	ActionMoveUp:    selection.KeyUp,
	ActionMoveDown:  selection.KeyDown,
	ActionMoveLeft:  selection.KeyLeft,
	ActionMoveRight: selection.KeyRight,
	ActionStartEdit: selection.KeyF2,
	ActionCancel:    selection.KeyEscape,
}

var machineKeys = map[tcell.Key]selection.Key{
	tcell.KeyEnter:   selection.KeyEnter,
	tcell.KeyF2:      selection.KeyF2,
	tcell.KeyEscape:  selection.KeyEscape,
	tcell.KeyTab:     selection.KeyTab,
	tcell.KeyBacktab: selection.KeyTab,
	tcell.KeyUp:      selection.KeyUp,
	tcell.KeyDown:    selection.KeyDown,
	tcell.KeyLeft:    selection.KeyLeft,
	tcell.KeyRight:   selection.KeyRight,
	tcell.KeyHome:    selection.KeyHome,
	tcell.KeyEnd:     selection.KeyEnd,
}

// editKeys are the machine keys that leave edit mode. Everything else
// typed while editing belongs to the cell editor.
var editKeys = map[selection.Key]bool{
	selection.KeyEnter:  true,
	selection.KeyTab:    true,
	selection.KeyEscape: true,
}

// Keymap binds key strings to actions, separately for selecting and
// editing.
type Keymap struct {
	Select map[string]Action
	Edit   map[string]Action
}

func NewKeymap(sel, edit map[string]string) Keymap {
	k := Keymap{Select: map[string]Action{}, Edit: map[string]Action{}}
	for key, a := range sel {
		k.Select[key] = Action(a)
	}
	for key, a := range edit {
		k.Edit[key] = Action(a)
	}
	return k
}

// Translation is what a key event means. At most one of Command and
// Action is set; neither means the event belongs to the cell editor (when
// editing) or is ignored.
type Translation struct {
	Command selection.Command
	Action  Action
	Key     string
}

func (k Keymap) Translate(ev *tcell.EventKey, editing bool) Translation {
	name := KeyString(ev)
	out := Translation{Key: name}
	binds := k.Select
	if editing {
		binds = k.Edit
	}
	if a, ok := binds[name]; ok && a != ActionNone {
		if key, ok := aliases[a]; ok {
			out.Command = selection.KeyStroke{Key: key}
			return out
		}
		out.Action = a
		return out
	}

	mods := Mods(ev.Modifiers())
	if ev.Key() == tcell.KeyBacktab {
		mods |= selection.ModShift
	}
	if key, ok := machineKeys[ev.Key()]; ok {
		if editing && !editKeys[key] {
			return out
		}
		out.Command = selection.KeyStroke{Key: key, Mods: mods}
		return out
	}
	if editing || ev.Key() != tcell.KeyRune {
		return out
	}
	if mods.Has(selection.ModCtrl) || mods.Has(selection.ModAlt) || !unicode.IsPrint(ev.Rune()) {
		return out
	}
	out.Command = selection.KeyPress{Char: ev.Rune()}
	return out
}

func Mods(m tcell.ModMask) selection.Mods {
	var out selection.Mods
	if m&tcell.ModShift != 0 {
		out |= selection.ModShift
	}
	if m&(tcell.ModCtrl|tcell.ModMeta) != 0 {
		out |= selection.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= selection.ModAlt
	}
	return out
}
