// Package edit holds speculative cell edits and commits them in
// all-or-nothing batches.
package edit

import (
	"github.com/kobzarvs/qgrid/internal/grid"
	"github.com/kobzarvs/qgrid/internal/logger"
	"github.com/kobzarvs/qgrid/internal/table"
)

// PendingEdit is an uncommitted value for one cell.
type PendingEdit struct {
	CellKey  string
	Row      table.Row
	ColumnID string
	Value    any
}

type ValidationResult struct {
	Valid   bool
	Message string
	Edit    PendingEdit
	Cell    grid.Coord
}

// DataUpdate is one committed row: column id to new value.
type DataUpdate struct {
	Key     string
	Row     table.Row
	Updates map[string]any
}

// CellValue is a value committed without a prior UpdateValue, as a fill
// or a clear does.
type CellValue struct {
	Cell  grid.Coord
	Value any
}

type Hooks struct {
	// OnCommit receives every row of a successful batch in one call.
	OnCommit func([]DataUpdate)
	// OnRowAdded receives the non-empty values entered into the footer row.
	OnRowAdded func(values map[string]any)
}

type Pipeline struct {
	table   *table.Table
	hooks   Hooks
	pending map[string]PendingEdit
}

func New(t *table.Table, hooks Hooks) *Pipeline {
	return &Pipeline{table: t, hooks: hooks, pending: make(map[string]PendingEdit)}
}

// UpdateValue stores raw as the pending value of c, replacing any earlier
// one. Nothing is validated until commit.
func (p *Pipeline) UpdateValue(c grid.Coord, raw any) {
	e := p.newEdit(c, raw)
	p.pending[e.CellKey] = e
}

func (p *Pipeline) Pending(c grid.Coord) (PendingEdit, bool) {
	e, ok := p.pending[p.table.CellKey(c)]
	return e, ok
}

func (p *Pipeline) PendingCount() int { return len(p.pending) }

// Cancel discards the pending edit of c and reports whether there was one.
func (p *Pipeline) Cancel(c grid.Coord) bool {
	k := p.table.CellKey(c)
	_, ok := p.pending[k]
	delete(p.pending, k)
	return ok
}

// Reset drops every pending edit.
func (p *Pipeline) Reset() {
	clear(p.pending)
}

// Commit commits the pending edits of coords. Cells without a pending
// edit are skipped.
func (p *Pipeline) Commit(coords ...grid.Coord) ValidationResult {
	var batch []item
	for _, c := range coords {
		if e, ok := p.pending[p.table.CellKey(c)]; ok {
			batch = append(batch, item{cell: c, edit: e})
		}
	}
	return p.commit(batch)
}

// CommitValues commits values directly, bypassing pending state. Pending
// edits on the same cells are cleared on success.
func (p *Pipeline) CommitValues(values []CellValue) ValidationResult {
	batch := make([]item, 0, len(values))
	for _, v := range values {
		batch = append(batch, item{cell: v.Cell, edit: p.newEdit(v.Cell, v.Value)})
	}
	return p.commit(batch)
}

type item struct {
	cell   grid.Coord
	edit   PendingEdit
	parsed any
}

func (p *Pipeline) newEdit(c grid.Coord, v any) PendingEdit {
	return PendingEdit{
		CellKey:  p.table.CellKey(c),
		Row:      p.table.Row(c.Row),
		ColumnID: p.table.Column(c.Col).ID,
		Value:    v,
	}
}

func (p *Pipeline) commit(batch []item) ValidationResult {
	if len(batch) == 0 {
		return ValidationResult{Valid: true}
	}
	kept := make([]item, 0, len(batch))
	var dropped []string
	for _, it := range batch {
		col := p.table.Column(it.cell.Col)
		parsed := p.parse(col, it.cell, it.edit.Value)
		// Blank footer cells are not part of the new record.
		if p.table.IsFooter(it.cell.Row) && table.IsEmpty(parsed) {
			dropped = append(dropped, it.edit.CellKey)
			continue
		}
		if err := p.validate(col, parsed); err != nil {
			logger.Warn("validation failed", "cell", it.cell.String(), "column", col.ID, "message", err.Error())
			return ValidationResult{Message: err.Error(), Edit: it.edit, Cell: it.cell}
		}
		it.parsed = parsed
		kept = append(kept, it)
	}
	for _, k := range dropped {
		delete(p.pending, k)
	}
	batch = kept

	var updates []DataUpdate
	byRow := make(map[string]int)
	added := make(map[string]any)
	for _, it := range batch {
		delete(p.pending, it.edit.CellKey)
		if p.table.IsFooter(it.cell.Row) {
			added[it.edit.ColumnID] = it.parsed
			continue
		}
		key := p.table.RowKey(it.cell.Row)
		i, ok := byRow[key]
		if !ok {
			i = len(updates)
			byRow[key] = i
			updates = append(updates, DataUpdate{Key: key, Row: it.edit.Row, Updates: map[string]any{}})
		}
		updates[i].Updates[it.edit.ColumnID] = it.parsed
	}

	if len(updates) > 0 {
		logger.Info("commit", "rows", len(updates), "cells", len(batch))
		if p.hooks.OnCommit != nil {
			p.hooks.OnCommit(updates)
		}
	}
	if len(added) > 0 {
		logger.Info("row added", "columns", len(added))
		if p.hooks.OnRowAdded != nil {
			p.hooks.OnRowAdded(added)
		}
	}
	return ValidationResult{Valid: true}
}

// parse converts raw input through the cell type.
func (p *Pipeline) parse(col table.Column, c grid.Coord, raw any) any {
	if ed, ok := col.Type.(table.Editable); ok {
		return ed.ParseRawInput(p.table.Value(c), raw)
	}
	return raw
}

// validate runs the cell type's validator then the column's, stopping at
// the first failure.
func (p *Pipeline) validate(col table.Column, v any) error {
	if ed, ok := col.Type.(table.Editable); ok {
		if err := ed.Validate(v); err != nil {
			return err
		}
	}
	for _, check := range col.Validators {
		if err := check(v); err != nil {
			return err
		}
	}
	return nil
}
