package selection

import (
	"unicode"

	"github.com/kobzarvs/qgrid/internal/grid"
)

// Capabilities are the host queries the machine consults. The machine
// never reads grid data itself.
type Capabilities interface {
	IsCellEditable(c grid.Coord) bool
	IsColumnSelectable(col int) bool
	MaxRowIndex() int
	MaxColumnIndex() int
	MinSelectableColumnIndex() int
	MaxSelectableColumnIndex() int
	RowSpan(c grid.Coord) int
}

type machine struct {
	cur  State
	opts Options
	caps Capabilities
}

// Reduce computes the state that follows cmd. It never modifies cur; when
// nothing changes the result carries cur itself with Changed false.
func Reduce(cur State, cmd Command, opts Options, caps Capabilities) Result {
	if opts.Selection == SelectionNone || caps.MaxRowIndex() < 0 || caps.MinSelectableColumnIndex() < 0 {
		return Result{State: cur}
	}
	m := machine{cur: cur, opts: opts, caps: caps}
	var res Result
	switch c := cmd.(type) {
	case PointerDown:
		res = m.pointerDown(c)
	case PointerEnter:
		res = m.pointerEnter(c)
	case PointerUp:
		res = m.pointerUp()
	case KeyStroke:
		res = m.keyDown(c)
	case KeyPress:
		res = m.keyPress(c)
	default:
		res = m.unchanged()
	}
	res.Changed = !res.State.Equal(cur)
	return res
}

func (m machine) unchanged() Result {
	return Result{State: m.cur}
}

func (m machine) to(s State) Result {
	return Result{State: s}
}

func (m machine) pointerDown(cmd PointerDown) Result {
	switch cmd.Target {
	case TargetFillHandle:
		if m.cur.Mode != ModeSelect {
			return m.unchanged()
		}
		return m.beginFill()
	case TargetRowHeader:
		if cmd.Cell.Row > m.caps.MaxRowIndex() {
			return m.unchanged()
		}
		c := m.anchor(grid.At(cmd.Cell.Row, m.caps.MinSelectableColumnIndex()))
		return m.press(c, cmd.Mods, true)
	}
	c := cmd.Cell
	if c.IsHeader() || c.Row > m.caps.MaxRowIndex() || !m.caps.IsColumnSelectable(c.Col) {
		return m.unchanged()
	}
	return m.press(m.anchor(c), cmd.Mods, false)
}

func (m machine) press(c grid.Coord, mods Mods, wholeRow bool) Result {
	var commit *grid.Coord
	switch m.cur.Mode {
	case ModeNone, ModeSelect:
	case ModeEdit:
		if m.cur.Primary != nil && *m.cur.Primary == c {
			return m.unchanged()
		}
		commit = m.cur.Primary
	default:
		return m.unchanged()
	}

	next := State{Mode: ModeSelecting, Primary: ptr(c)}
	active := m.cur.ActiveIndex()
	multiple := m.opts.Selection.Multiple() && m.cur.Mode == ModeSelect
	switch {
	case multiple && mods.Has(ModShift) && active >= 0:
		r := m.cur.Selections[active]
		next.Primary = m.cur.Primary
		next.Selections = withRegion(m.cur.Selections, active, r.WithSecondary(m.extent(c, wholeRow)))
	case multiple && mods.Has(ModCtrl):
		next.Selections = appendRegion(m.cur.Selections, m.region(c, c, wholeRow))
	default:
		next.Selections = []grid.Region{m.region(c, c, wholeRow)}
	}

	res := m.to(next)
	if commit != nil {
		res.Signal = SignalCommitEdit
		res.EditCell = *commit
	}
	return res
}

func (m machine) pointerEnter(cmd PointerEnter) Result {
	switch m.cur.Mode {
	case ModeSelecting:
		active := m.cur.ActiveIndex()
		if active < 0 {
			return m.unchanged()
		}
		var ext grid.Coord
		switch cmd.Target {
		case TargetRowHeader:
			if cmd.Cell.Row > m.caps.MaxRowIndex() {
				return m.unchanged()
			}
			ext = m.extent(grid.At(cmd.Cell.Row, m.caps.MaxSelectableColumnIndex()), true)
		case TargetCell:
			c := cmd.Cell
			if c.IsHeader() || c.Row > m.caps.MaxRowIndex() || !m.caps.IsColumnSelectable(c.Col) {
				return m.unchanged()
			}
			ext = m.extent(m.anchor(c), false)
		default:
			return m.unchanged()
		}
		r := m.cur.Selections[active]
		if r.Secondary == ext {
			return m.unchanged()
		}
		next := m.cur
		next.Selections = withRegion(m.cur.Selections, active, r.WithSecondary(ext))
		next.Moved = true
		return m.to(next)
	case ModeFilling:
		if cmd.Target == TargetFillHandle {
			return m.unchanged()
		}
		return m.updateFill(cmd.Cell.Row)
	}
	return m.unchanged()
}

func (m machine) pointerUp() Result {
	switch m.cur.Mode {
	case ModeSelecting:
		next := m.cur
		next.Mode = ModeSelect
		next.Moved = false
		// A drag that returned to its start still ends in Select.
		if len(m.cur.Selections) == 1 && m.cur.Primary != nil && !m.cur.Moved {
			r := m.cur.Selections[0]
			p := *m.cur.Primary
			if r.IsSingleCell() && r.Contains(p) && m.caps.IsCellEditable(p) {
				next.Mode = ModeEdit
				res := m.to(next)
				res.Signal = SignalBeginEdit
				res.EditCell = p
				return res
			}
		}
		return m.to(next)
	case ModeFilling:
		return m.completeFill()
	}
	return m.unchanged()
}

func (m machine) keyPress(cmd KeyPress) Result {
	if m.cur.Mode != ModeSelect || m.cur.Primary == nil || !unicode.IsPrint(cmd.Char) {
		return m.unchanged()
	}
	p := *m.cur.Primary
	if !m.caps.IsCellEditable(p) {
		return m.unchanged()
	}
	next := m.cur
	next.Mode = ModeEdit
	res := m.to(next)
	res.Signal = SignalBeginEdit
	res.EditCell = p
	res.Seed = cmd.Char
	return res
}

func (m machine) keyDown(cmd KeyStroke) Result {
	switch m.cur.Mode {
	case ModeNone:
		return m.keyFromNone(cmd)
	case ModeSelecting:
		if cmd.Key == KeyEscape {
			next := m.cur
			next.Mode = ModeSelect
			next.Moved = false
			return m.to(next)
		}
	case ModeFilling:
		if cmd.Key == KeyEscape {
			next := m.cur
			next.Mode = ModeSelect
			next.Fill = nil
			return m.to(next)
		}
	case ModeEdit:
		return m.keyInEdit(cmd)
	case ModeSelect:
		return m.keyInSelect(cmd)
	}
	return m.unchanged()
}

// keyFromNone lets navigation keys pick the first cell of an untouched grid.
func (m machine) keyFromNone(cmd KeyStroke) Result {
	switch cmd.Key {
	case KeyUp, KeyDown, KeyLeft, KeyRight, KeyHome, KeyEnd, KeyTab:
		c := m.anchor(grid.At(0, m.caps.MinSelectableColumnIndex()))
		return m.to(m.single(c))
	}
	return m.unchanged()
}

func (m machine) keyInEdit(cmd KeyStroke) Result {
	if m.cur.Primary == nil {
		return m.unchanged()
	}
	p := *m.cur.Primary
	var dest grid.Coord
	switch cmd.Key {
	case KeyEscape:
		next := m.cur
		next.Mode = ModeSelect
		res := m.to(next)
		res.Signal = SignalCancelEdit
		res.EditCell = p
		return res
	case KeyEnter:
		if cmd.Mods.Has(ModShift) {
			dest = m.stepRow(p, -1)
		} else {
			dest = m.stepRow(p, 1)
		}
	case KeyTab:
		dir := 1
		if cmd.Mods.Has(ModShift) {
			dir = -1
		}
		dest = p
		if col, ok := m.nextSelectableCol(p.Col, dir); ok {
			dest = m.anchor(grid.At(p.Row, col))
		}
	default:
		return m.unchanged()
	}
	res := m.to(m.single(dest))
	res.Signal = SignalCommitEdit
	res.EditCell = p
	return res
}

func (m machine) keyInSelect(cmd KeyStroke) Result {
	if m.cur.Primary == nil {
		return m.unchanged()
	}
	p := *m.cur.Primary
	switch cmd.Key {
	case KeyEscape:
		if len(m.cur.Selections) == 0 {
			return m.to(Empty())
		}
		if m.cur.Fill != nil {
			next := m.cur
			next.Fill = nil
			return m.to(next)
		}
		return m.unchanged()
	case KeyEnter, KeyF2:
		if !m.caps.IsCellEditable(p) {
			return m.unchanged()
		}
		next := m.cur
		next.Mode = ModeEdit
		res := m.to(next)
		res.Signal = SignalBeginEdit
		res.EditCell = p
		return res
	case KeyTab:
		key := KeyRight
		if cmd.Mods.Has(ModShift) {
			key = KeyLeft
		}
		return m.navigate(key, 0)
	}
	return m.navigate(cmd.Key, cmd.Mods)
}

// navigate moves the primary cell, or with shift in a multiple mode moves
// the active region's far corner.
func (m machine) navigate(key Key, mods Mods) Result {
	p := *m.cur.Primary
	active := m.cur.ActiveIndex()
	extend := mods.Has(ModShift) && m.opts.Selection.Multiple() && active >= 0
	base := p
	if extend {
		base = m.cur.Selections[active].Secondary
	}
	jump := mods.Has(ModCtrl)

	dest := base
	switch key {
	case KeyUp:
		if jump {
			dest = grid.At(0, base.Col)
		} else {
			dest = m.stepRow(base, -1)
		}
	case KeyDown:
		if jump {
			dest = grid.At(m.caps.MaxRowIndex(), base.Col)
		} else {
			dest = m.stepRow(base, 1)
		}
	case KeyLeft, KeyRight:
		dir := 1
		if key == KeyLeft {
			dir = -1
		}
		if jump {
			dest.Col = m.boundCol(dir)
		} else {
			col, ok := m.nextSelectableCol(base.Col, dir)
			if !ok {
				return m.unchanged()
			}
			dest.Col = col
		}
	case KeyHome:
		dest.Col = m.caps.MinSelectableColumnIndex()
		if jump {
			dest.Row = 0
		}
	case KeyEnd:
		dest.Col = m.caps.MaxSelectableColumnIndex()
		if jump {
			dest.Row = m.caps.MaxRowIndex()
		}
	default:
		return m.unchanged()
	}
	dest = m.anchor(dest)

	if extend {
		r := m.cur.Selections[active]
		ext := m.extent(dest, false)
		if r.Secondary == ext {
			return m.unchanged()
		}
		next := m.cur
		next.Selections = withRegion(m.cur.Selections, active, r.WithSecondary(ext))
		return m.to(next)
	}
	return m.to(m.single(dest))
}

// CanFill reports whether the selection of s may act as a fill source:
// fill enabled, one region, every cell editable and one row span across
// its columns.
func CanFill(s State, opts Options, caps Capabilities) bool {
	if s.Mode != ModeSelect || !opts.Fill || len(s.Selections) != 1 || s.Primary == nil {
		return false
	}
	return machine{cur: s, opts: opts, caps: caps}.fillable(s.Selections[0])
}

func (m machine) beginFill() Result {
	if !CanFill(m.cur, m.opts, m.caps) {
		return m.unchanged()
	}
	src := m.cur.Selections[0]
	next := m.cur
	next.Mode = ModeFilling
	next.Fill = ptr(m.fillEdge(src))
	return m.to(next)
}

// fillable requires every cell of r to be editable and every column of r
// to share one row span.
func (m machine) fillable(r grid.Region) bool {
	r0, _ := r.RowRange()
	c0, c1 := r.ColRange()
	span := m.caps.RowSpan(grid.At(r0, c0))
	for col := c0 + 1; col <= c1; col++ {
		if m.caps.RowSpan(grid.At(r0, col)) != span {
			return false
		}
	}
	for c := range r.Cells() {
		if !m.caps.IsCellEditable(c) {
			return false
		}
	}
	return true
}

// fillEdge is the degenerate fill region on the source's bottom edge,
// where the handle sits before the pointer moves.
func (m machine) fillEdge(src grid.Region) grid.Region {
	_, r1 := src.RowRange()
	c0, c1 := src.ColRange()
	return grid.NewRegion(grid.At(r1, c0), grid.At(r1, c1))
}

func (m machine) updateFill(row int) Result {
	if len(m.cur.Selections) != 1 {
		return m.unchanged()
	}
	src := m.cur.Selections[0]
	r0, r1 := src.RowRange()
	c0, c1 := src.ColRange()
	span := m.caps.RowSpan(grid.At(r0, c0))
	row = m.clampRow(row)

	var fill grid.Region
	switch {
	case row > r1:
		end := grid.MapToSpanAnchor(grid.At(row, c0), span).Row + max(span, 1) - 1
		end = min(end, m.caps.MaxRowIndex())
		fill = grid.NewRegion(grid.At(r1+1, c0), grid.At(end, c1))
	case row < r0:
		start := grid.MapToSpanAnchor(grid.At(row, c0), span).Row
		fill = grid.NewRegion(grid.At(r0-1, c0), grid.At(start, c1))
	default:
		fill = m.fillEdge(src)
	}
	if m.cur.Fill != nil && *m.cur.Fill == fill {
		return m.unchanged()
	}
	next := m.cur
	next.Fill = ptr(fill)
	return m.to(next)
}

func (m machine) completeFill() Result {
	next := m.cur
	next.Mode = ModeSelect
	next.Fill = nil
	if m.cur.Fill == nil || len(m.cur.Selections) != 1 {
		return m.to(next)
	}
	src := m.cur.Selections[0]
	fill := *m.cur.Fill
	s0, s1 := src.RowRange()
	f0, f1 := fill.RowRange()
	if f0 >= s0 && f1 <= s1 {
		return m.to(next)
	}
	c0, c1 := src.ColRange()
	merged := grid.NewRegion(grid.At(min(s0, f0), c0), grid.At(max(s1, f1), c1))
	next.Selections = []grid.Region{merged}
	res := m.to(next)
	res.Signal = SignalFillCompleted
	res.FillSource = src.Normalized()
	res.FillTarget = grid.NewRegion(grid.At(f0, c0), grid.At(f1, c1))
	return res
}

// single is the Select state with one region at c.
func (m machine) single(c grid.Coord) State {
	return State{
		Mode:       ModeSelect,
		Primary:    ptr(c),
		Selections: []grid.Region{m.region(c, c, false)},
	}
}

// region builds a region honouring row-wise selection modes.
func (m machine) region(anchor, extent grid.Coord, wholeRow bool) grid.Region {
	if wholeRow || m.opts.Selection.RowWise() {
		anchor = grid.At(anchor.Row, m.caps.MinSelectableColumnIndex())
	}
	return grid.NewRegion(anchor, m.extent(extent, wholeRow))
}

func (m machine) extent(c grid.Coord, wholeRow bool) grid.Coord {
	if wholeRow || m.opts.Selection.RowWise() {
		return grid.At(c.Row, m.caps.MaxSelectableColumnIndex())
	}
	return c
}

func (m machine) anchor(c grid.Coord) grid.Coord {
	return grid.MapToSpanAnchor(c, m.caps.RowSpan(c))
}

// stepRow moves one logical row, skipping the rest of a spanned block
// when moving down, and clamps to the grid.
func (m machine) stepRow(c grid.Coord, dir int) grid.Coord {
	row := c.Row - 1
	if dir > 0 {
		row = c.Row + max(m.caps.RowSpan(c), 1)
	}
	if dir > 0 && row > m.caps.MaxRowIndex() {
		return c
	}
	return m.anchor(grid.At(m.clampRow(row), c.Col))
}

func (m machine) clampRow(row int) int {
	return max(0, min(row, m.caps.MaxRowIndex()))
}

func (m machine) nextSelectableCol(col, dir int) (int, bool) {
	for c := col + dir; c >= 0 && c <= m.caps.MaxColumnIndex(); c += dir {
		if m.caps.IsColumnSelectable(c) {
			return c, true
		}
	}
	return col, false
}

func (m machine) boundCol(dir int) int {
	if dir < 0 {
		return m.caps.MinSelectableColumnIndex()
	}
	return m.caps.MaxSelectableColumnIndex()
}
