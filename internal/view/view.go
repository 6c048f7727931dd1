// Package view draws the grid on a tcell screen and maps screen positions
// back to cells.
package view

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qgrid/internal/engine"
	"github.com/kobzarvs/qgrid/internal/grid"
	"github.com/kobzarvs/qgrid/internal/layout"
	"github.com/kobzarvs/qgrid/internal/selection"
	"github.com/kobzarvs/qgrid/internal/table"
)

const fillHandle = '■'

type column struct {
	index int
	x     int
	width int
}

// View renders an engine. It owns the scroll position and the cell
// editor; everything else is read from the engine on each draw.
type View struct {
	eng       *engine.Engine
	styles    Styles
	rowHeader int
	title     string

	width, height int
	top, left     int
	cols          []column

	Editor *CellEditor
}

func New(e *engine.Engine, styles Styles, rowHeaderWidth int) *View {
	if rowHeaderWidth < 1 {
		rowHeaderWidth = 1
	}
	return &View{eng: e, styles: styles, rowHeader: rowHeaderWidth}
}

func (v *View) SetTitle(s string) { v.title = s }

// GridWidth is the width available to data columns for a screen width.
func (v *View) GridWidth(screenWidth int) int {
	return max(0, screenWidth-v.rowHeader)
}

func (v *View) Scroll() (top, left int) { return v.top, v.left }

func (v *View) SetScroll(top, left int) {
	v.top, v.left = max(0, top), max(0, left)
}

// ScrollBy moves the viewport by delta rows.
func (v *View) ScrollBy(delta int) {
	v.top = max(0, min(v.top+delta, v.eng.Table().MaxRowIndex()))
}

func (v *View) visibleRows() int {
	return max(0, v.height-2)
}

// EnsureVisible scrolls so that c is on screen.
func (v *View) EnsureVisible(c grid.Coord) {
	if n := v.visibleRows(); n > 0 {
		if c.Row < v.top {
			v.top = c.Row
		} else if c.Row >= v.top+n {
			v.top = c.Row - n + 1
		}
	}
	if c.Col < v.left {
		v.left = c.Col
		return
	}
	widths := layout.Cells(v.eng.Widths())
	avail := v.GridWidth(v.width)
	for v.left < c.Col {
		used := 0
		for i := v.left; i <= c.Col && i < len(widths); i++ {
			used += widths[i]
		}
		if used <= avail {
			break
		}
		v.left++
	}
}

func (v *View) layoutColumns() {
	widths := layout.Cells(v.eng.Widths())
	v.cols = v.cols[:0]
	x := v.rowHeader
	for i := v.left; i < len(widths) && x < v.width; i++ {
		w := min(widths[i], v.width-x)
		if w > 0 {
			v.cols = append(v.cols, column{index: i, x: x, width: w})
		}
		x += widths[i]
	}
}

func (v *View) Draw(s tcell.Screen) {
	v.width, v.height = s.Size()
	v.layoutColumns()
	s.Fill(' ', v.styles.Main)
	v.drawHeader(s)
	v.drawRows(s)
	v.drawStatus(s)
	s.HideCursor()
	if v.Editor != nil {
		if x, y, ok := v.cellOrigin(v.Editor.Cell); ok {
			s.ShowCursor(x+runewidth.StringWidth(string([]rune(v.Editor.Text())[:v.Editor.Cursor()])), y)
		}
	}
}

func (v *View) drawHeader(s tcell.Screen) {
	t := v.eng.Table()
	drawText(s, 0, 0, v.rowHeader, "#", v.styles.Header)
	for _, c := range v.cols {
		drawText(s, c.x, 0, c.width, t.Column(c.index).Header, v.styles.Header)
	}
}

func (v *View) drawRows(s tcell.Screen) {
	t := v.eng.Table()
	st := v.eng.State()
	handle, hasHandle := v.fillHandle()
	for y := 1; y <= v.visibleRows(); y++ {
		row := v.top + y - 1
		if row > t.MaxRowIndex() {
			break
		}
		label := fmt.Sprintf("%d", row+1)
		if t.IsFooter(row) {
			label = "+"
		}
		drawText(s, 0, y, v.rowHeader, label, v.styles.Header)
		for _, col := range v.cols {
			c := grid.At(row, col.index)
			text, style := v.cell(c, st)
			drawText(s, col.x, y, col.width, text, style)
			if hasHandle && handle == c {
				s.SetContent(col.x+col.width-1, y, fillHandle, nil, v.styles.Primary)
			}
		}
	}
}

func (v *View) cell(c grid.Coord, st selection.State) (string, tcell.Style) {
	t := v.eng.Table()
	style := v.styles.Main
	if t.IsFooter(c.Row) {
		style = v.styles.Footer
	}
	switch {
	case st.Primary != nil && *st.Primary == grid.MapToSpanAnchor(c, t.RowSpan(c)):
		style = v.styles.Primary
	case st.Fill != nil && st.Fill.Contains(c):
		style = v.styles.Fill
	case st.IsSelected(c):
		style = v.styles.Selection
	}

	if v.Editor != nil && v.Editor.Cell == c {
		return v.Editor.Text(), v.styles.Primary
	}
	if span := t.RowSpan(c); span > 1 && c.Row%span != 0 {
		return "", style
	}
	if p, ok := v.eng.Pending(c); ok {
		return table.Text{}.Render(p.Value), style
	}
	return t.Display(c), style
}

// fillHandle is the cell whose last column shows the fill handle: the
// bottom right of the selection, drawn only while a fill can start.
func (v *View) fillHandle() (grid.Coord, bool) {
	st := v.eng.State()
	if !v.eng.CanFill() {
		return grid.Coord{}, false
	}
	r := st.Selections[0]
	_, r1 := r.RowRange()
	_, c1 := r.ColRange()
	t := v.eng.Table()
	end := min(r1+t.RowSpan(grid.At(r1, c1))-1, t.MaxRowIndex())
	return grid.At(end, c1), true
}

func (v *View) drawStatus(s tcell.Screen) {
	y := v.height - 1
	if y < 1 {
		return
	}
	st := v.eng.State()
	left := fmt.Sprintf(" %s ", st.Mode)
	if v.title != "" {
		left += v.title + " "
	}
	if st.Primary != nil {
		left += st.Primary.String()
	}
	if r, ok := st.Active(); ok && !r.IsSingleCell() {
		left += fmt.Sprintf(" %dR x %dC", r.RowCount(), r.ColCount())
	}
	if n := len(st.Selections); n > 1 {
		left += fmt.Sprintf(" (%d regions)", n)
	}
	drawText(s, 0, y, v.width, left, v.styles.Status)
	if res, ok := v.eng.Validation(); ok {
		msg := fmt.Sprintf(" %s: %s ", res.Edit.ColumnID, res.Message)
		w := min(runewidth.StringWidth(msg), v.width)
		drawText(s, v.width-w, y, w, msg, v.styles.Error)
	}
}

// HitTest maps a screen position to the cell, row header or fill handle
// drawn there.
func (v *View) HitTest(x, y int) (selection.Target, grid.Coord, bool) {
	if y < 1 || y > v.visibleRows() || x < 0 || x >= v.width {
		return 0, grid.Coord{}, false
	}
	row := v.top + y - 1
	if row > v.eng.Table().MaxRowIndex() {
		return 0, grid.Coord{}, false
	}
	if x < v.rowHeader {
		return selection.TargetRowHeader, grid.RowHeaderAt(row), true
	}
	for _, col := range v.cols {
		if x < col.x || x >= col.x+col.width {
			continue
		}
		c := grid.At(row, col.index)
		if h, ok := v.fillHandle(); ok && h == c && x == col.x+col.width-1 {
			return selection.TargetFillHandle, c, true
		}
		return selection.TargetCell, c, true
	}
	return 0, grid.Coord{}, false
}

// HeaderAt returns the column whose header is drawn at x on the top line.
func (v *View) HeaderAt(x, y int) (int, bool) {
	if y != 0 {
		return 0, false
	}
	for _, col := range v.cols {
		if x >= col.x && x < col.x+col.width {
			return col.index, true
		}
	}
	return 0, false
}

func (v *View) cellOrigin(c grid.Coord) (int, int, bool) {
	y := c.Row - v.top + 1
	if y < 1 || y > v.visibleRows() {
		return 0, 0, false
	}
	for _, col := range v.cols {
		if col.index == c.Col {
			return col.x, y, true
		}
	}
	return 0, 0, false
}

// drawText writes s into width cells at x,y, truncating and padding. The
// last cell is left blank as a column gap when there is room.
func drawText(s tcell.Screen, x, y, width int, text string, style tcell.Style) {
	if width <= 0 {
		return
	}
	room := width
	if width > 1 {
		room = width - 1
	}
	if runewidth.StringWidth(text) > room {
		text = runewidth.Truncate(text, room, "…")
	}
	text = runewidth.FillRight(text, width)
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col += max(runewidth.RuneWidth(r), 1)
	}
}
