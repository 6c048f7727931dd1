package table

import (
	"errors"
	"fmt"
)

// Row is one record of host data. Columns read it either by property name
// or through an accessor.
type Row map[string]any

type KeyFunc func(Row) string

// Validator rejects a parsed cell value with a user-facing message.
type Validator func(v any) error

type Column struct {
	ID       string
	Header   string
	Property string
	Accessor func(Row) any
	Type     CellType

	Editable   bool
	Selectable bool
	Sortable   bool
	Resizable  bool

	// RowSpan > 1 makes each cell cover that many consecutive rows.
	RowSpan int
	// Width is a layout declaration: "120", "120px", "*" or "2*".
	Width string

	// Validators run after the cell type's own validation, in order.
	Validators []Validator
}

// Handlers are the host callbacks some column features depend on.
type Handlers struct {
	OnSort   func(columnID string, ascending bool)
	OnResize func(columnID string, width float64)
}

var (
	ErrMissingID            = errors.New("column id is required")
	ErrDuplicateID          = errors.New("duplicate column id")
	ErrMissingHeader        = errors.New("column header is required")
	ErrMissingCellType      = errors.New("column cell type is required")
	ErrAccessor             = errors.New("exactly one of accessor or property is required")
	ErrSortWithoutHandler   = errors.New("sortable column needs a sort handler")
	ErrResizeWithoutHandler = errors.New("resizable column needs a resize handler")
	ErrNotEditable          = errors.New("editable column needs an editable cell type")
	ErrNotSortable          = errors.New("sortable column needs a sortable cell type")
)

// ValidateColumns checks column declarations against the host handlers and
// returns the first contract violation.
func ValidateColumns(cols []Column, h Handlers) error {
	seen := make(map[string]int, len(cols))
	for i, c := range cols {
		if c.ID == "" {
			return fmt.Errorf("column %d: %w", i, ErrMissingID)
		}
		if prev, ok := seen[c.ID]; ok {
			return fmt.Errorf("column %d %q (first at %d): %w", i, c.ID, prev, ErrDuplicateID)
		}
		seen[c.ID] = i
		if c.Header == "" {
			return fmt.Errorf("column %d %q: %w", i, c.ID, ErrMissingHeader)
		}
		if c.Type == nil {
			return fmt.Errorf("column %d %q: %w", i, c.ID, ErrMissingCellType)
		}
		if (c.Accessor == nil) == (c.Property == "") {
			return fmt.Errorf("column %d %q: %w", i, c.ID, ErrAccessor)
		}
		if c.Sortable {
			if h.OnSort == nil {
				return fmt.Errorf("column %d %q: %w", i, c.ID, ErrSortWithoutHandler)
			}
			if _, ok := c.Type.(Sortable); !ok {
				return fmt.Errorf("column %d %q: %w", i, c.ID, ErrNotSortable)
			}
		}
		if c.Resizable && h.OnResize == nil {
			return fmt.Errorf("column %d %q: %w", i, c.ID, ErrResizeWithoutHandler)
		}
		if c.Editable {
			if _, ok := c.Type.(Editable); !ok {
				return fmt.Errorf("column %d %q: %w", i, c.ID, ErrNotEditable)
			}
		}
	}
	return nil
}

func (c Column) value(r Row) any {
	if r == nil {
		return nil
	}
	if c.Accessor != nil {
		return c.Accessor(r)
	}
	return r[c.Property]
}

func (c Column) span() int {
	if c.RowSpan < 1 {
		return 1
	}
	return c.RowSpan
}
