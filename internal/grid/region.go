package grid

import (
	"fmt"
	"iter"
)

// Region is a rectangle of cells spanned by an anchor (Primary, where the
// interaction began) and a far corner (Secondary, its current extent).
// Two regions with the same bounding box but different anchors are distinct.
type Region struct {
	Primary   Coord
	Secondary Coord
}

func NewRegion(anchor, extent Coord) Region {
	mustIndex(anchor.Row, anchor.Col)
	mustIndex(extent.Row, extent.Col)
	return Region{Primary: anchor, Secondary: extent}
}

// CellRegion is the single-cell region at c.
func CellRegion(c Coord) Region {
	return NewRegion(c, c)
}

func (r Region) WithPrimary(c Coord) Region {
	return NewRegion(c, r.Secondary)
}

func (r Region) WithSecondary(c Coord) Region {
	return NewRegion(r.Primary, c)
}

// RowRange returns the inclusive [lo, hi] row bounds.
func (r Region) RowRange() (int, int) {
	return minmax(r.Primary.Row, r.Secondary.Row)
}

// ColRange returns the inclusive [lo, hi] column bounds.
func (r Region) ColRange() (int, int) {
	return minmax(r.Primary.Col, r.Secondary.Col)
}

func (r Region) RowCount() int {
	lo, hi := r.RowRange()
	return hi - lo + 1
}

func (r Region) ColCount() int {
	lo, hi := r.ColRange()
	return hi - lo + 1
}

func (r Region) IsSingleCell() bool {
	return r.RowCount() == 1 && r.ColCount() == 1
}

func (r Region) Contains(c Coord) bool {
	if c.IsHeader() {
		return false
	}
	r0, r1 := r.RowRange()
	c0, c1 := r.ColRange()
	return c.Row >= r0 && c.Row <= r1 && c.Col >= c0 && c.Col <= c1
}

// Cells yields every coordinate of the rectangle in row-major order.
// The sequence is finite and can be ranged over any number of times.
func (r Region) Cells() iter.Seq[Coord] {
	r0, r1 := r.RowRange()
	c0, c1 := r.ColRange()
	return func(yield func(Coord) bool) {
		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				if !yield(Coord{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}

// Normalized returns the same rectangle anchored at its top-left corner.
func (r Region) Normalized() Region {
	r0, r1 := r.RowRange()
	c0, c1 := r.ColRange()
	return Region{Primary: Coord{Row: r0, Col: c0}, Secondary: Coord{Row: r1, Col: c1}}
}

func (r Region) String() string {
	return fmt.Sprintf("[%s..%s]", r.Primary, r.Secondary)
}

func minmax(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}
