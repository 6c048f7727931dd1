// Package fill maps the rows of a fill target back onto its source so that
// a drag-fill repeats the source rows in order.
package fill

import (
	"github.com/kobzarvs/qgrid/internal/grid"
)

// Assignment copies the value at Source into Target.
type Assignment struct {
	Target grid.Coord
	Source grid.Coord
}

// SourceRow returns the source row that target row feeds from. Filling
// down cycles from the top of the source; filling up cycles from its
// bottom so the source order is kept when the pattern wraps.
func SourceRow(source, target grid.Region, row int) int {
	s0, s1 := source.RowRange()
	t0, t1 := target.RowRange()
	n := s1 - s0 + 1
	if t0 > s0 {
		return s0 + mod(row-t0, n)
	}
	return s1 - mod(t1-row, n)
}

// Plan lists the copies a fill performs, row-major over target. Columns of
// target outside source's column range are skipped. For spanned columns
// only block anchors are written, read from the anchor of the source block.
func Plan(source, target grid.Region, spanOf func(col int) int) []Assignment {
	c0, c1 := source.ColRange()
	var out []Assignment
	for c := range target.Cells() {
		if c.Col < c0 || c.Col > c1 {
			continue
		}
		span := 1
		if spanOf != nil {
			span = spanOf(c.Col)
		}
		if grid.MapToSpanAnchor(c, span) != c {
			continue
		}
		src := grid.At(SourceRow(source, target, c.Row), c.Col)
		out = append(out, Assignment{Target: c, Source: grid.MapToSpanAnchor(src, span)})
	}
	return out
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
