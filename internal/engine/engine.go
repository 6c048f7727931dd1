// Package engine is the host-facing facade over the selection machine, the
// edit pipeline, the fill planner and the layout engine.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/kobzarvs/qgrid/internal/edit"
	"github.com/kobzarvs/qgrid/internal/fill"
	"github.com/kobzarvs/qgrid/internal/grid"
	"github.com/kobzarvs/qgrid/internal/layout"
	"github.com/kobzarvs/qgrid/internal/logger"
	"github.com/kobzarvs/qgrid/internal/sched"
	"github.com/kobzarvs/qgrid/internal/selection"
	"github.com/kobzarvs/qgrid/internal/table"
)

var (
	ErrNotSortable  = errors.New("column is not sortable")
	ErrNotResizable = errors.New("column is not resizable")
)

type Options struct {
	Selection selection.Options
	Table     table.Options

	// ErrorDisplay is how long a failed validation stays visible.
	ErrorDisplay time.Duration
	// ResizeDelay coalesces bursts of Resize calls.
	ResizeDelay time.Duration

	Scheduler sched.Scheduler
	// Post runs timer callbacks on the host's event loop.
	Post func(func())
}

type Hooks struct {
	OnCommit   func([]edit.DataUpdate)
	OnRowAdded func(values map[string]any)
	// OnChange fires when something the host displays changed outside of a
	// direct call: an error expired or a coalesced layout pass ran.
	OnChange func()
}

// Engine is not safe for concurrent use; the host drives it from one
// goroutine and routes timer callbacks there through Options.Post.
type Engine struct {
	table    *table.Table
	opts     Options
	hooks    Hooks
	state    selection.State
	pipeline *edit.Pipeline
	errs     *edit.ErrorDisplay
	layout   *layout.Engine
	sizes    []layout.Size
}

func New(cols []table.Column, rows []table.Row, key table.KeyFunc, opts Options, hooks Hooks) (*Engine, error) {
	t, err := table.New(cols, rows, key, opts.Table)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e := &Engine{
		table: t,
		opts:  opts,
		hooks: hooks,
		state: selection.Empty(),
	}
	e.pipeline = edit.New(t, edit.Hooks{OnCommit: e.onCommit, OnRowAdded: e.onRowAdded})
	e.errs = edit.NewErrorDisplay(opts.Scheduler, opts.ErrorDisplay, opts.Post)
	e.errs.OnChange(e.notify)
	e.layout = layout.NewEngine(opts.Scheduler, opts.ResizeDelay, opts.Post)
	e.sizes = layout.ParseSizes(t.Widths())
	e.layout.SetColumns(e.sizes)
	e.layout.OnChange(func([]float64) { e.notify() })
	return e, nil
}

func (e *Engine) Table() *table.Table { return e.table }

func (e *Engine) State() selection.State { return e.state }

func (e *Engine) Options() Options { return e.opts }

// Dispatch feeds one command through the selection machine and carries
// out the side effect the transition signals.
func (e *Engine) Dispatch(cmd selection.Command) selection.Result {
	prev := e.state
	res := selection.Reduce(e.state, cmd, e.opts.Selection, e.table)
	if !res.Changed && res.Signal == selection.SignalNone {
		return res
	}
	e.state = res.State

	switch res.Signal {
	case selection.SignalBeginEdit:
		e.errs.Clear()
		if res.Seed != 0 {
			e.pipeline.UpdateValue(res.EditCell, string(res.Seed))
		}
	case selection.SignalCommitEdit:
		e.commitEdit(res.EditCell)
	case selection.SignalCancelEdit:
		e.pipeline.Cancel(res.EditCell)
	case selection.SignalFillCompleted:
		e.runFill(res.FillSource, res.FillTarget)
	}

	logger.Debug("transition",
		"from", prev.Mode.String(),
		"to", e.state.Mode.String(),
		"command", fmt.Sprintf("%T", cmd),
		"signal", res.Signal.String(),
	)
	res.State = e.state
	res.Changed = !e.state.Equal(prev)
	return res
}

// commitEdit commits the cell being left. On failure the primary cell
// goes back to the failing cell and its pending value is kept.
func (e *Engine) commitEdit(c grid.Coord) {
	if !e.report(e.pipeline.Commit(c)) {
		e.state = selection.ChangePrimaryCell(e.state, c, e.opts.Selection, e.table)
	}
}

func (e *Engine) report(r edit.ValidationResult) bool {
	if r.Valid {
		e.errs.Clear()
		return true
	}
	e.errs.Show(r)
	return false
}

func (e *Engine) onCommit(updates []edit.DataUpdate) {
	keys := make([]string, len(updates))
	for i, u := range updates {
		keys[i] = u.Key
	}
	if e.hooks.OnCommit != nil {
		e.hooks.OnCommit(updates)
	}
	e.table.Invalidate(keys...)
}

func (e *Engine) onRowAdded(values map[string]any) {
	if e.hooks.OnRowAdded != nil {
		e.hooks.OnRowAdded(values)
	}
}

func (e *Engine) notify() {
	if e.hooks.OnChange != nil {
		e.hooks.OnChange()
	}
}

// UpdateValue records editor input for c without committing it.
func (e *Engine) UpdateValue(c grid.Coord, raw any) {
	e.pipeline.UpdateValue(c, raw)
}

// EditText is what an editor opened on c starts with: the pending value
// when there is one, otherwise the rendered cell.
func (e *Engine) EditText(c grid.Coord) string {
	if p, ok := e.pipeline.Pending(c); ok {
		return table.Text{}.Render(p.Value)
	}
	return e.table.Display(c)
}

func (e *Engine) Pending(c grid.Coord) (edit.PendingEdit, bool) {
	return e.pipeline.Pending(c)
}

// Validation returns the failure currently on display.
func (e *Engine) Validation() (edit.ValidationResult, bool) {
	return e.errs.Active()
}

// DataInSelection returns the distinct data rows touched by the selection,
// in selection order. The footer row is never included.
func (e *Engine) DataInSelection() []table.Row {
	seen := make(map[string]bool)
	var out []table.Row
	for _, r := range e.state.Selections {
		r0, r1 := r.RowRange()
		for row := r0; row <= r1 && row < e.table.RowCount(); row++ {
			k := e.table.RowKey(row)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, e.table.Row(row))
		}
	}
	return out
}

func (e *Engine) ChangePrimaryCell(c grid.Coord) {
	e.set(selection.ChangePrimaryCell(e.state, c, e.opts.Selection, e.table))
}

func (e *Engine) ChangeSelection(regions []grid.Region) {
	e.set(selection.ChangeSelection(e.state, regions, e.opts.Selection, e.table))
}

func (e *Engine) set(s selection.State) {
	if s.Equal(e.state) {
		return
	}
	if e.state.Mode == selection.ModeEdit && e.state.Primary != nil {
		e.pipeline.Cancel(*e.state.Primary)
	}
	logger.Debug("selection set", "from", e.state.Mode.String(), "to", s.Mode.String())
	e.state = s
}

// SetRows swaps the data and fits the selection to the new bounds.
func (e *Engine) SetRows(rows []table.Row) {
	e.table.SetRows(rows)
	next := selection.Clamp(e.state, e.table)
	if !next.Equal(e.state) {
		logger.Debug("bounds recomputed", "rows", len(rows), "regions", len(next.Selections))
	}
	e.set(next)
}

// Resize reports a new available width. Bursts are coalesced.
func (e *Engine) Resize(width float64) {
	e.layout.Resize(width)
}

func (e *Engine) Widths() []float64 {
	return e.layout.Widths()
}

// ResizeColumn fixes column col at width pixels and tells the host.
func (e *Engine) ResizeColumn(col int, width float64) error {
	c := e.table.Column(col)
	if !c.Resizable {
		return fmt.Errorf("%s: %w", c.ID, ErrNotResizable)
	}
	e.sizes[col] = layout.Px(max(width, 0))
	e.layout.SetColumns(e.sizes)
	e.opts.Table.Handlers.OnResize(c.ID, width)
	return nil
}

// Sort asks the host to reorder rows by col.
func (e *Engine) Sort(col int, ascending bool) error {
	c := e.table.Column(col)
	if !c.Sortable {
		return fmt.Errorf("%s: %w", c.ID, ErrNotSortable)
	}
	e.opts.Table.Handlers.OnSort(c.ID, ascending)
	return nil
}

// CanFill reports whether the current selection can be a fill source.
func (e *Engine) CanFill() bool {
	return selection.CanFill(e.state, e.opts.Selection, e.table)
}

// FillDown copies the first row (or spanned block) of the active region
// down through the rest of it.
func (e *Engine) FillDown() bool {
	if !e.CanFill() {
		return false
	}
	r := e.state.Selections[0]
	r0, r1 := r.RowRange()
	c0, c1 := r.ColRange()
	span := e.table.RowSpan(grid.At(r0, c0))
	if r1 < r0+span {
		return false
	}
	src := grid.NewRegion(grid.At(r0, c0), grid.At(r0+span-1, c1))
	dst := grid.NewRegion(grid.At(r0+span, c0), grid.At(r1, c1))
	return e.runFill(src, dst)
}

// runFill commits the copies of a fill as one batch. Target rows past the
// data, such as the footer, are left alone.
func (e *Engine) runFill(source, target grid.Region) bool {
	t0, t1 := target.RowRange()
	last := e.table.RowCount() - 1
	if t0 > last {
		return false
	}
	if t1 > last {
		c0, c1 := target.ColRange()
		target = grid.NewRegion(grid.At(t0, c0), grid.At(last, c1))
	}
	plan := fill.Plan(source, target, func(col int) int {
		return e.table.RowSpan(grid.At(0, col))
	})
	values := make([]edit.CellValue, 0, len(plan))
	for _, a := range plan {
		values = append(values, edit.CellValue{Cell: a.Target, Value: e.table.Value(a.Source)})
	}
	logger.Debug("fill", "source", source.String(), "target", target.String(), "cells", len(values))
	return e.report(e.pipeline.CommitValues(values))
}

// ClearCells commits an empty value to every editable data cell in the
// selection as one batch.
func (e *Engine) ClearCells() bool {
	if e.state.Mode != selection.ModeSelect {
		return false
	}
	seen := make(map[grid.Coord]bool)
	var values []edit.CellValue
	for _, r := range e.state.Selections {
		for c := range r.Cells() {
			c = grid.MapToSpanAnchor(c, e.table.RowSpan(c))
			if seen[c] || e.table.IsFooter(c.Row) || !e.table.IsCellEditable(c) {
				continue
			}
			seen[c] = true
			values = append(values, edit.CellValue{Cell: c, Value: ""})
		}
	}
	if len(values) == 0 {
		return false
	}
	return e.report(e.pipeline.CommitValues(values))
}
