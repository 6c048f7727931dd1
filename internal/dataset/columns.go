package dataset

import (
	"fmt"

	"github.com/kobzarvs/qgrid/internal/config"
	"github.com/kobzarvs/qgrid/internal/table"
)

// Columns turns declared column specs into grid columns. A spec without
// a property edits the field named by its id.
func Columns(specs []config.ColumnSpec) ([]table.Column, error) {
	cols := make([]table.Column, 0, len(specs))
	for _, s := range specs {
		ct, err := table.CellTypeByName(s.Type)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", s.ID, err)
		}
		col := table.Column{
			ID:         s.ID,
			Header:     s.Header,
			Property:   s.Property,
			Type:       ct,
			Editable:   s.Editable,
			Selectable: s.IsSelectable(),
			Sortable:   s.Sortable,
			Resizable:  s.Resizable,
			RowSpan:    s.RowSpan,
			Width:      s.Width,
		}
		if col.Property == "" {
			col.Property = s.ID
		}
		if col.Header == "" {
			col.Header = s.ID
		}
		for _, v := range s.Validators {
			fn, err := table.ParseValidator(v)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", s.ID, err)
			}
			col.Validators = append(col.Validators, fn)
		}
		cols = append(cols, col)
	}
	return cols, nil
}

// FieldOf maps column ids to the row fields they edit.
func FieldOf(cols []table.Column) func(string) string {
	m := make(map[string]string, len(cols))
	for _, c := range cols {
		m[c.ID] = c.Property
		if c.Property == "" {
			m[c.ID] = c.ID
		}
	}
	return func(id string) string {
		if f, ok := m[id]; ok {
			return f
		}
		return id
	}
}
