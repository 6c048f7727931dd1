package view

import (
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qgrid/internal/grid"
)

// CellEditor is the single-line text buffer of the cell being edited.
type CellEditor struct {
	Cell   grid.Coord
	text   []rune
	cursor int
}

func NewCellEditor(c grid.Coord, text string) *CellEditor {
	r := []rune(text)
	return &CellEditor{Cell: c, text: r, cursor: len(r)}
}

func (e *CellEditor) Text() string { return string(e.text) }

func (e *CellEditor) Cursor() int { return e.cursor }

// HandleKey applies an editing key and reports whether the text changed.
func (e *CellEditor) HandleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyLeft:
		e.cursor = max(0, e.cursor-1)
	case tcell.KeyRight:
		e.cursor = min(len(e.text), e.cursor+1)
	case tcell.KeyHome:
		e.cursor = 0
	case tcell.KeyEnd:
		e.cursor = len(e.text)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if e.cursor == 0 {
			return false
		}
		e.text = append(e.text[:e.cursor-1], e.text[e.cursor:]...)
		e.cursor--
		return true
	case tcell.KeyDelete:
		if e.cursor >= len(e.text) {
			return false
		}
		e.text = append(e.text[:e.cursor], e.text[e.cursor+1:]...)
		return true
	case tcell.KeyRune:
		r := ev.Rune()
		if !unicode.IsPrint(r) || ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) != 0 {
			return false
		}
		e.text = append(e.text[:e.cursor], append([]rune{r}, e.text[e.cursor:]...)...)
		e.cursor++
		return true
	}
	return false
}
