package grid

import "fmt"

// Coord addresses a single cell. Header cells are flagged rather than
// encoded with negative indices, so Row and Col are always >= 0.
type Coord struct {
	Row          int
	Col          int
	ColumnHeader bool
	RowHeader    bool
}

func At(row, col int) Coord {
	mustIndex(row, col)
	return Coord{Row: row, Col: col}
}

// ColumnHeaderAt returns the header cell above column col.
func ColumnHeaderAt(col int) Coord {
	mustIndex(0, col)
	return Coord{Col: col, ColumnHeader: true}
}

// RowHeaderAt returns the header cell left of row.
func RowHeaderAt(row int) Coord {
	mustIndex(row, 0)
	return Coord{Row: row, RowHeader: true}
}

func (c Coord) Equal(o Coord) bool {
	return c == o
}

func (c Coord) IsHeader() bool {
	return c.ColumnHeader || c.RowHeader
}

func (c Coord) String() string {
	switch {
	case c.ColumnHeader:
		return fmt.Sprintf("(hdr,%d)", c.Col)
	case c.RowHeader:
		return fmt.Sprintf("(%d,hdr)", c.Row)
	}
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// MapToSpanAnchor collapses c onto the top row of the row-span block it
// falls in. A span of 1 or less leaves c unchanged.
func MapToSpanAnchor(c Coord, span int) Coord {
	if span <= 1 || c.IsHeader() {
		return c
	}
	c.Row -= c.Row % span
	return c
}

// SpanAnchor is MapToSpanAnchor with the span looked up per column.
func SpanAnchor(c Coord, spanOf func(col int) int) Coord {
	if spanOf == nil {
		return c
	}
	return MapToSpanAnchor(c, spanOf(c.Col))
}

func mustIndex(row, col int) {
	if row < 0 || col < 0 {
		panic(fmt.Sprintf("grid: negative coordinate (%d,%d)", row, col))
	}
}
