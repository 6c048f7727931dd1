package selection

import (
	"github.com/kobzarvs/qgrid/internal/grid"
)

// Clamp fits s to the current grid bounds after the data or the column
// set changed. Regions wholly past the last row or column are dropped and
// regions partly past it shrink. If the primary cell's region is dropped,
// the primary moves to the anchor of the region before it, or to the last
// surviving region, or the state becomes empty when nothing survives.
// An in-progress edit or fill falls back to Select.
func Clamp(s State, caps Capabilities) State {
	if s.Primary == nil && len(s.Selections) == 0 {
		return s
	}
	maxRow, maxCol := caps.MaxRowIndex(), caps.MaxColumnIndex()
	if maxRow < 0 || maxCol < 0 {
		return Empty()
	}

	active := s.ActiveIndex()
	kept := make([]grid.Region, 0, len(s.Selections))
	newActive := -1
	fallback := -1
	for i, r := range s.Selections {
		r0, _ := r.RowRange()
		c0, _ := r.ColRange()
		if r0 > maxRow || c0 > maxCol {
			if i == active {
				fallback = len(kept) - 1
			}
			continue
		}
		if i == active {
			newActive = len(kept)
		}
		kept = append(kept, shrink(r, maxRow, maxCol))
	}
	if len(kept) == 0 {
		return Empty()
	}

	next := State{Mode: s.Mode, Selections: kept, Fill: s.Fill, Moved: s.Moved}
	switch {
	case newActive >= 0:
		p := fitCoord(*s.Primary, maxRow, maxCol)
		p = grid.MapToSpanAnchor(p, caps.RowSpan(p))
		if !kept[newActive].Contains(p) {
			p = kept[newActive].Primary
		}
		next.Primary = ptr(p)
	case fallback >= 0:
		next.Primary = ptr(kept[fallback].Primary)
	default:
		// The active region was dropped and nothing precedes it; keep the
		// selection and move to the last surviving region.
		next.Primary = ptr(kept[len(kept)-1].Primary)
	}
	if next.Mode == ModeNone {
		next.Mode = ModeSelect
	}

	if next.Equal(s) {
		return s
	}
	if next.Mode == ModeEdit || next.Mode == ModeFilling || next.Mode == ModeSelecting {
		next.Mode = ModeSelect
	}
	next.Fill = nil
	next.Moved = false
	return next
}

func shrink(r grid.Region, maxRow, maxCol int) grid.Region {
	return grid.NewRegion(fitCoord(r.Primary, maxRow, maxCol), fitCoord(r.Secondary, maxRow, maxCol))
}

func fitCoord(c grid.Coord, maxRow, maxCol int) grid.Coord {
	return grid.At(min(c.Row, maxRow), min(c.Col, maxCol))
}

// ChangePrimaryCell selects the single cell c, as a host-driven jump.
func ChangePrimaryCell(s State, c grid.Coord, opts Options, caps Capabilities) State {
	if opts.Selection == SelectionNone || c.IsHeader() {
		return s
	}
	m := machine{cur: s, opts: opts, caps: caps}
	c = fitCoord(c, caps.MaxRowIndex(), caps.MaxColumnIndex())
	next := m.single(m.anchor(c))
	if next.Equal(s) {
		return s
	}
	return next
}

// ChangeSelection replaces the regions wholesale. Single selection modes
// keep only the last region. The primary cell becomes the last region's
// anchor.
func ChangeSelection(s State, regions []grid.Region, opts Options, caps Capabilities) State {
	if opts.Selection == SelectionNone {
		return s
	}
	if len(regions) == 0 {
		return Empty()
	}
	if !opts.Selection.Multiple() {
		regions = regions[len(regions)-1:]
	}
	m := machine{opts: opts, caps: caps}
	out := make([]grid.Region, 0, len(regions))
	for _, r := range regions {
		out = append(out, m.region(r.Primary, r.Secondary, false))
	}
	next := State{
		Mode:       ModeSelect,
		Primary:    ptr(out[len(out)-1].Primary),
		Selections: out,
	}
	next = Clamp(next, caps)
	if next.Equal(s) {
		return s
	}
	return next
}
