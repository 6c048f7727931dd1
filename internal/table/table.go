package table

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kobzarvs/qgrid/internal/grid"
)

// FooterKey identifies the synthetic trailing row used to enter new records.
const FooterKey = "\x00footer"

const defaultCacheSize = 4096

type Options struct {
	// Footer appends an editable "new record" row after the data rows.
	Footer   bool
	Handlers Handlers
	// CacheSize bounds the rendered-cell memo; 0 picks a default.
	CacheSize int
}

type cellKey struct {
	row string
	col string
}

// Table is the host data seen through its column declarations. It answers
// the capability queries the selection machine and edit pipeline need.
type Table struct {
	columns []Column
	index   map[string]int
	rows    []Row
	key     KeyFunc
	opts    Options
	cache   *lru.Cache[cellKey, string]
}

func New(cols []Column, rows []Row, key KeyFunc, opts Options) (*Table, error) {
	if err := ValidateColumns(cols, opts.Handlers); err != nil {
		return nil, err
	}
	if key == nil {
		return nil, fmt.Errorf("table: key function is required")
	}
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[cellKey, string](size)
	if err != nil {
		return nil, err
	}
	t := &Table{
		columns: append([]Column(nil), cols...),
		index:   make(map[string]int, len(cols)),
		rows:    rows,
		key:     key,
		opts:    opts,
		cache:   cache,
	}
	for i, c := range cols {
		t.index[c.ID] = i
	}
	return t, nil
}

func (t *Table) Columns() []Column { return t.columns }

func (t *Table) Column(col int) Column {
	t.mustCol(col)
	return t.columns[col]
}

func (t *Table) ColumnIndex(id string) (int, bool) {
	i, ok := t.index[id]
	return i, ok
}

func (t *Table) Rows() []Row { return t.rows }

// RowCount is the number of data rows, excluding the footer.
func (t *Table) RowCount() int { return len(t.rows) }

func (t *Table) HasFooter() bool { return t.opts.Footer }

func (t *Table) IsFooter(row int) bool {
	return t.opts.Footer && row == len(t.rows)
}

// Row returns the data row at index; the footer row has a nil handle.
func (t *Table) Row(row int) Row {
	t.mustRow(row)
	if t.IsFooter(row) {
		return nil
	}
	return t.rows[row]
}

func (t *Table) RowKey(row int) string {
	t.mustRow(row)
	if t.IsFooter(row) {
		return FooterKey
	}
	return t.key(t.rows[row])
}

// CellKey is the stable identifier of a cell across reorderings.
func (t *Table) CellKey(c grid.Coord) string {
	return CellKey(t.RowKey(c.Row), t.Column(c.Col).ID)
}

func CellKey(rowKey, columnID string) string {
	return rowKey + "\x1f" + columnID
}

func (t *Table) Value(c grid.Coord) any {
	return t.Column(c.Col).value(t.Row(c.Row))
}

// Display renders a cell through its cell type, memoized per
// (row key, column id).
func (t *Table) Display(c grid.Coord) string {
	if t.IsFooter(c.Row) {
		return ""
	}
	k := cellKey{row: t.RowKey(c.Row), col: t.Column(c.Col).ID}
	if s, ok := t.cache.Get(k); ok {
		return s
	}
	col := t.Column(c.Col)
	s := col.Type.Render(col.value(t.rows[c.Row]))
	t.cache.Add(k, s)
	return s
}

// SetRows swaps the data set. The row identity set may have changed, so
// every memoized cell is dropped.
func (t *Table) SetRows(rows []Row) {
	t.rows = rows
	t.cache.Purge()
}

// Invalidate drops memoized cells of the given rows after their values changed.
func (t *Table) Invalidate(rowKeys ...string) {
	if len(rowKeys) == 0 {
		return
	}
	drop := make(map[string]bool, len(rowKeys))
	for _, k := range rowKeys {
		drop[k] = true
	}
	for _, k := range t.cache.Keys() {
		if drop[k.row] {
			t.cache.Remove(k)
		}
	}
}

// ResizeCache bounds the memo to roughly what is on screen.
func (t *Table) ResizeCache(size int) {
	if size < 1 {
		size = 1
	}
	t.cache.Resize(size)
}

func (t *Table) CacheLen() int { return t.cache.Len() }

// Capability queries.

func (t *Table) IsCellEditable(c grid.Coord) bool {
	if c.IsHeader() || c.Col >= len(t.columns) || c.Row > t.MaxRowIndex() {
		return false
	}
	return t.columns[c.Col].Editable
}

func (t *Table) IsColumnEditable(col int) bool {
	return col >= 0 && col < len(t.columns) && t.columns[col].Editable
}

func (t *Table) IsColumnSelectable(col int) bool {
	return col >= 0 && col < len(t.columns) && t.columns[col].Selectable
}

// MaxRowIndex is the last navigable row, the footer included; -1 when empty.
func (t *Table) MaxRowIndex() int {
	n := len(t.rows)
	if t.opts.Footer {
		n++
	}
	return n - 1
}

func (t *Table) MaxColumnIndex() int { return len(t.columns) - 1 }

func (t *Table) MinSelectableColumnIndex() int {
	for i := range t.columns {
		if t.columns[i].Selectable {
			return i
		}
	}
	return -1
}

func (t *Table) MaxSelectableColumnIndex() int {
	for i := len(t.columns) - 1; i >= 0; i-- {
		if t.columns[i].Selectable {
			return i
		}
	}
	return -1
}

func (t *Table) RowSpan(c grid.Coord) int {
	if c.Col < 0 || c.Col >= len(t.columns) {
		return 1
	}
	return t.columns[c.Col].span()
}

// Widths returns every column's width declaration.
func (t *Table) Widths() []string {
	out := make([]string, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Width
	}
	return out
}

func (t *Table) String() string {
	ids := make([]string, len(t.columns))
	for i, c := range t.columns {
		ids[i] = c.ID
	}
	return fmt.Sprintf("table(%d rows; %s)", len(t.rows), strings.Join(ids, ","))
}

func (t *Table) mustRow(row int) {
	if row < 0 || row > t.MaxRowIndex() {
		panic(fmt.Sprintf("table: row %d out of range [0,%d]", row, t.MaxRowIndex()))
	}
}

func (t *Table) mustCol(col int) {
	if col < 0 || col >= len(t.columns) {
		panic(fmt.Sprintf("table: column %d out of range [0,%d)", col, len(t.columns)))
	}
}
