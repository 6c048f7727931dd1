package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qgrid/internal/grid"
	"github.com/kobzarvs/qgrid/internal/selection"
)

// HitTester maps a screen position to what is drawn there.
type HitTester interface {
	HitTest(x, y int) (selection.Target, grid.Coord, bool)
}

// Mouse tracks the primary button to turn terminal mouse reports into
// pointer down, enter and up commands. Terminals report drags as motion
// with the button held.
type Mouse struct {
	hits   HitTester
	down   bool
	target selection.Target
	last   grid.Coord
	seen   bool
}

func NewMouse(h HitTester) *Mouse {
	return &Mouse{hits: h}
}

func (m *Mouse) Translate(ev *tcell.EventMouse) []selection.Command {
	x, y := ev.Position()
	target, cell, ok := m.hits.HitTest(x, y)
	pressed := ev.Buttons()&tcell.Button1 != 0

	switch {
	case pressed && !m.down:
		m.down = true
		m.seen = ok
		if !ok {
			return nil
		}
		m.target, m.last = target, cell
		return []selection.Command{selection.PointerDown{Target: target, Cell: cell, Mods: Mods(ev.Modifiers())}}
	case pressed:
		if !ok || (m.seen && cell == m.last && target == m.target) {
			return nil
		}
		m.seen = true
		m.target, m.last = target, cell
		return []selection.Command{selection.PointerEnter{Target: target, Cell: cell}}
	case m.down:
		m.down = false
		up := m.last
		if ok {
			up = cell
		}
		return []selection.Command{selection.PointerUp{Cell: up}}
	}
	return nil
}

// Wheel returns -1 or 1 for a wheel scroll and 0 otherwise.
func Wheel(ev *tcell.EventMouse) int {
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		return -1
	case ev.Buttons()&tcell.WheelDown != 0:
		return 1
	}
	return 0
}
