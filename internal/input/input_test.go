package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qgrid/internal/grid"
	"github.com/kobzarvs/qgrid/internal/selection"
)

func testKeymap() Keymap {
	return NewKeymap(
		map[string]string{"ctrl+d": "fill_down", "del": "clear_cells", "ctrl+q": "quit", "J": "move_down"},
		map[string]string{"ctrl+g": "cancel"},
	)
}

func TestKeyString(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', 0), "a"},
		{tcell.NewEventKey(tcell.KeyRune, ' ', 0), "space"},
		{tcell.NewEventKey(tcell.KeyTab, 0, 0), "tab"},
		{tcell.NewEventKey(tcell.KeyBacktab, 0, 0), "shift+tab"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, 0), "enter"},
		{tcell.NewEventKey(tcell.KeyDelete, 0, 0), "del"},
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift), "shift+up"},
		{tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModCtrl), "ctrl+home"},
		{tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl), "ctrl+d"},
		{tcell.NewEventKey(tcell.KeyEscape, 0, 0), "esc"},
	}
	for _, tc := range cases {
		if got := KeyString(tc.ev); got != tc.want {
			t.Fatalf("KeyString = %q, want %q", got, tc.want)
		}
	}
}

func TestTranslateSelect(t *testing.T) {
	k := testKeymap()

	tr := k.Translate(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModShift), false)
	kd, ok := tr.Command.(selection.KeyStroke)
	if !ok || kd.Key != selection.KeyDown || !kd.Mods.Has(selection.ModShift) {
		t.Fatalf("shift+down = %+v", tr)
	}

	tr = k.Translate(tcell.NewEventKey(tcell.KeyRune, 'x', 0), false)
	if kp, ok := tr.Command.(selection.KeyPress); !ok || kp.Char != 'x' {
		t.Fatalf("x = %+v, want key press", tr)
	}

	tr = k.Translate(tcell.NewEventKey(tcell.KeyRune, 'J', 0), false)
	if kd, ok := tr.Command.(selection.KeyStroke); !ok || kd.Key != selection.KeyDown {
		t.Fatalf("J = %+v, want move down", tr)
	}

	if tr := k.Translate(tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl), false); tr.Action != ActionFillDown {
		t.Fatalf("ctrl+d = %+v, want fill_down", tr)
	}
	if tr := k.Translate(tcell.NewEventKey(tcell.KeyDelete, 0, 0), false); tr.Action != ActionClearCells {
		t.Fatalf("del = %+v, want clear_cells", tr)
	}

	tr = k.Translate(tcell.NewEventKey(tcell.KeyBacktab, 0, 0), false)
	if kd, ok := tr.Command.(selection.KeyStroke); !ok || kd.Key != selection.KeyTab || !kd.Mods.Has(selection.ModShift) {
		t.Fatalf("backtab = %+v, want shift+tab", tr)
	}
}

func TestTranslateEdit(t *testing.T) {
	k := testKeymap()

	if tr := k.Translate(tcell.NewEventKey(tcell.KeyRune, 'J', 0), true); tr.Command != nil || tr.Action != ActionNone {
		t.Fatalf("typing while editing = %+v, want editor input", tr)
	}
	if tr := k.Translate(tcell.NewEventKey(tcell.KeyLeft, 0, 0), true); tr.Command != nil {
		t.Fatalf("left while editing = %+v, want editor input", tr)
	}
	tr := k.Translate(tcell.NewEventKey(tcell.KeyEnter, 0, 0), true)
	if kd, ok := tr.Command.(selection.KeyStroke); !ok || kd.Key != selection.KeyEnter {
		t.Fatalf("enter while editing = %+v", tr)
	}
	tr = k.Translate(tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl), true)
	if kd, ok := tr.Command.(selection.KeyStroke); !ok || kd.Key != selection.KeyEscape {
		t.Fatalf("ctrl+g while editing = %+v, want escape", tr)
	}
}

type cells struct{}

// HitTest maps column x/10 and row y-1; row 0 of the screen is the header
// and x < 5 is the row header.
func (cells) HitTest(x, y int) (selection.Target, grid.Coord, bool) {
	if y < 1 {
		return 0, grid.Coord{}, false
	}
	if x < 5 {
		return selection.TargetRowHeader, grid.RowHeaderAt(y - 1), true
	}
	return selection.TargetCell, grid.At(y-1, (x-5)/10), true
}

func TestMouseDrag(t *testing.T) {
	m := NewMouse(cells{})
	var got []selection.Command
	got = append(got, m.Translate(tcell.NewEventMouse(6, 1, tcell.Button1, tcell.ModShift))...)
	got = append(got, m.Translate(tcell.NewEventMouse(7, 1, tcell.Button1, 0))...)
	got = append(got, m.Translate(tcell.NewEventMouse(16, 2, tcell.Button1, 0))...)
	got = append(got, m.Translate(tcell.NewEventMouse(16, 2, tcell.ButtonNone, 0))...)

	if len(got) != 3 {
		t.Fatalf("commands = %#v, want down, enter, up", got)
	}
	down, ok := got[0].(selection.PointerDown)
	if !ok || down.Cell != grid.At(0, 0) || !down.Mods.Has(selection.ModShift) {
		t.Fatalf("down = %#v", got[0])
	}
	if enter, ok := got[1].(selection.PointerEnter); !ok || enter.Cell != grid.At(1, 1) {
		t.Fatalf("enter = %#v", got[1])
	}
	if up, ok := got[2].(selection.PointerUp); !ok || up.Cell != grid.At(1, 1) {
		t.Fatalf("up = %#v", got[2])
	}
}

func TestMouseReleaseWithoutPressIgnored(t *testing.T) {
	m := NewMouse(cells{})
	if got := m.Translate(tcell.NewEventMouse(6, 1, tcell.ButtonNone, 0)); len(got) != 0 {
		t.Fatalf("commands = %#v, want none", got)
	}
}

func TestWheel(t *testing.T) {
	if Wheel(tcell.NewEventMouse(0, 0, tcell.WheelDown, 0)) != 1 {
		t.Fatalf("wheel down != 1")
	}
	if Wheel(tcell.NewEventMouse(0, 0, tcell.WheelUp, 0)) != -1 {
		t.Fatalf("wheel up != -1")
	}
}
