package app

import (
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qgrid/internal/config"
	"github.com/kobzarvs/qgrid/internal/dataset"
	"github.com/kobzarvs/qgrid/internal/edit"
	"github.com/kobzarvs/qgrid/internal/engine"
	"github.com/kobzarvs/qgrid/internal/gitinfo"
	"github.com/kobzarvs/qgrid/internal/grid"
	"github.com/kobzarvs/qgrid/internal/input"
	"github.com/kobzarvs/qgrid/internal/logger"
	"github.com/kobzarvs/qgrid/internal/sched"
	"github.com/kobzarvs/qgrid/internal/selection"
	"github.com/kobzarvs/qgrid/internal/session"
	"github.com/kobzarvs/qgrid/internal/table"
	"github.com/kobzarvs/qgrid/internal/view"
)

const (
	wheelStep   = 3
	widthStep   = 2
	minColWidth = 3
)

type Options struct {
	Path  string
	Sheet string
}

// App is the top-level runtime for qgrid.
type App struct {
	opts Options
}

func New(opts Options) *App {
	return &App{opts: opts}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	formats, err := config.LoadFormats()
	if err != nil {
		return err
	}

	sm, err := session.NewManager()
	if err != nil {
		logger.Warn("session unavailable", "err", err)
		sm = nil
	}
	if sm != nil {
		defer func() { _ = sm.Stop() }()
	}

	abs, err := filepath.Abs(a.opts.Path)
	if err != nil {
		return err
	}
	var saved session.FileState
	found := false
	if sm != nil {
		saved, found = sm.FileState(abs)
	}
	sheet := a.opts.Sheet
	if sheet == "" {
		sheet = saved.Sheet
	}
	ds, err := dataset.Open(abs, formats, sheet)
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()

	g, err := newGrid(s, cfg, ds, sched.Wall{})
	if err != nil {
		return err
	}
	if found {
		g.restore(saved)
	}

	g.draw()
	for {
		if g.handle(s.PollEvent()) {
			break
		}
		g.draw()
	}
	if sm != nil {
		sm.SetFileState(abs, g.fileState())
	}
	return nil
}

// gridView is one open data file on a screen.
type gridView struct {
	screen tcell.Screen
	cfg    config.Config
	data   *dataset.Dataset
	eng    *engine.Engine
	view   *view.View
	keys   input.Keymap
	mouse  *input.Mouse
	cols   []table.Column
	field  func(string) string

	rowsChanged bool
	headerDown  bool
	sortColumn  string
	sortAsc     bool
	widths      map[string]float64
	message     string
	// vcs labels the repository state of the file, empty outside git
	vcs         string
}

func newGrid(s tcell.Screen, cfg config.Config, ds *dataset.Dataset, sc sched.Scheduler) (*gridView, error) {
	specs, err := config.LoadColumns(ds.Path)
	if err != nil {
		return nil, err
	}
	if len(specs.Columns) == 0 {
		specs.Columns = ds.DefaultColumns(cfg.Grid.DefaultColumnWidth)
	}
	cols, err := dataset.Columns(specs.Columns)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ColumnsPath(ds.Path), err)
	}
	mode, err := selection.ParseSelectionMode(cfg.Grid.SelectionMode)
	if err != nil {
		return nil, err
	}

	g := &gridView{
		screen: s,
		cfg:    cfg,
		data:   ds,
		keys:   input.NewKeymap(cfg.Keymap.Select, cfg.Keymap.Edit),
		cols:   cols,
		field:  dataset.FieldOf(cols),
		widths: make(map[string]float64),
	}
	opts := engine.Options{
		Selection: selection.Options{Selection: mode, Fill: cfg.Grid.FillEnabled()},
		Table: table.Options{
			Footer: cfg.Grid.FooterRowEnabled(),
			Handlers: table.Handlers{
				OnSort:   g.onSort,
				OnResize: g.onResize,
			},
		},
		ErrorDisplay: time.Duration(cfg.Grid.ErrorDisplayMS) * time.Millisecond,
		ResizeDelay:  time.Duration(cfg.Grid.ResizeDebounceMS) * time.Millisecond,
		Scheduler:    sc,
		Post: func(fn func()) {
			_ = s.PostEvent(tcell.NewEventInterrupt(fn))
		},
	}
	hooks := engine.Hooks{
		OnCommit:   g.onCommit,
		OnRowAdded: g.onRowAdded,
	}
	g.eng, err = engine.New(cols, ds.Rows(), dataset.Key, opts, hooks)
	if err != nil {
		return nil, err
	}
	g.view = view.New(g.eng, view.NewStyles(cfg.Theme), cfg.Grid.RowHeaderWidth)
	g.mouse = input.NewMouse(g.view)
	g.vcs = gitinfo.Describe(ds.Path)
	w, _ := s.Size()
	g.eng.Resize(float64(g.view.GridWidth(w)))
	g.updateTitle()
	return g, nil
}

func (g *gridView) onCommit(updates []edit.DataUpdate) {
	g.data.Apply(updates, g.field)
	logger.Debug("rows updated", "count", len(updates))
}

// onRowAdded runs inside a commit, so the engine is told about the new
// row once the commit has returned.
func (g *gridView) onRowAdded(values map[string]any) {
	g.data.AppendRow(values, g.field)
	g.rowsChanged = true
}

func (g *gridView) onSort(columnID string, ascending bool) {
	for _, c := range g.cols {
		if c.ID != columnID {
			continue
		}
		compare := table.Text{}.Compare
		if s, ok := c.Type.(table.Sortable); ok {
			compare = s.Compare
		}
		g.data.Sort(c.Property, compare, ascending)
		g.sortColumn, g.sortAsc = columnID, ascending
		g.rowsChanged = true
		return
	}
}

func (g *gridView) onResize(columnID string, width float64) {
	g.widths[columnID] = width
}

func (g *gridView) sync() {
	if g.rowsChanged {
		g.rowsChanged = false
		g.eng.SetRows(g.data.Rows())
	}
	st := g.eng.State()
	if st.Mode == selection.ModeEdit && st.Primary != nil {
		if g.view.Editor == nil || g.view.Editor.Cell != *st.Primary {
			g.view.Editor = view.NewCellEditor(*st.Primary, g.eng.EditText(*st.Primary))
		}
	} else {
		g.view.Editor = nil
	}
	g.updateTitle()
}

func (g *gridView) updateTitle() {
	title := filepath.Base(g.data.Path)
	if g.data.Sheet != "" {
		title += ":" + g.data.Sheet
	}
	if g.data.Dirty() {
		title += " [+]"
	}
	if g.vcs != "" {
		title += " (" + g.vcs + ")"
	}
	if g.message != "" {
		title += " " + g.message
	}
	g.view.SetTitle(title)
}

func (g *gridView) draw() {
	g.view.Draw(g.screen)
	g.screen.Show()
}

// handle processes one event and reports whether qgrid should exit.
func (g *gridView) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.message = ""
		if g.handleKey(ev) {
			return true
		}
	case *tcell.EventMouse:
		g.handleMouse(ev)
	case *tcell.EventResize:
		g.screen.Sync()
		w, _ := g.screen.Size()
		g.eng.Resize(float64(g.view.GridWidth(w)))
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
	case nil:
		return true
	}
	g.sync()
	return false
}

func (g *gridView) dispatch(cmd selection.Command) {
	res := g.eng.Dispatch(cmd)
	if res.Changed && res.State.Primary != nil {
		if _, ok := cmd.(selection.KeyStroke); ok {
			g.view.EnsureVisible(*res.State.Primary)
		}
	}
}

func (g *gridView) handleKey(ev *tcell.EventKey) bool {
	editing := g.eng.State().Mode == selection.ModeEdit
	tr := g.keys.Translate(ev, editing)
	switch {
	case tr.Action != input.ActionNone:
		return g.runAction(tr.Action)
	case tr.Command != nil:
		g.dispatch(tr.Command)
		g.sync()
	case editing && g.view.Editor != nil:
		if g.view.Editor.HandleKey(ev) {
			g.eng.UpdateValue(g.view.Editor.Cell, g.view.Editor.Text())
		}
	}
	return false
}

func (g *gridView) handleMouse(ev *tcell.EventMouse) {
	if d := input.Wheel(ev); d != 0 {
		g.view.ScrollBy(d * wheelStep)
		return
	}
	pressed := ev.Buttons()&tcell.Button1 != 0
	if pressed && !g.headerDown {
		g.headerDown = true
		x, y := ev.Position()
		if col, ok := g.view.HeaderAt(x, y); ok && g.cols[col].Sortable {
			asc := g.sortColumn != g.cols[col].ID || !g.sortAsc
			g.sort(col, asc)
		}
	} else if !pressed {
		g.headerDown = false
	}
	for _, cmd := range g.mouse.Translate(ev) {
		g.dispatch(cmd)
	}
}

func (g *gridView) primaryColumn() (int, bool) {
	p := g.eng.State().Primary
	if p == nil {
		return 0, false
	}
	return p.Col, true
}

func (g *gridView) sort(col int, ascending bool) {
	if err := g.eng.Sort(col, ascending); err != nil {
		g.message = err.Error()
	}
}

func (g *gridView) runAction(a input.Action) bool {
	switch a {
	case input.ActionQuit:
		return true
	case input.ActionFillDown:
		g.eng.FillDown()
	case input.ActionClearCells:
		g.eng.ClearCells()
	case input.ActionSave:
		if err := g.data.Save(); err != nil {
			logger.Error("save failed", "path", g.data.Path, "err", err)
			g.message = err.Error()
		} else {
			g.message = "saved"
			g.vcs = gitinfo.Describe(g.data.Path)
		}
	case input.ActionSortAsc, input.ActionSortDesc:
		if col, ok := g.primaryColumn(); ok {
			g.sort(col, a == input.ActionSortAsc)
		}
	case input.ActionWiden, input.ActionNarrow:
		col, ok := g.primaryColumn()
		if !ok {
			break
		}
		delta := float64(widthStep)
		if a == input.ActionNarrow {
			delta = -delta
		}
		w := max(g.eng.Widths()[col]+delta, minColWidth)
		if err := g.eng.ResizeColumn(col, w); err != nil {
			g.message = err.Error()
		}
	default:
		logger.Warn("unknown action", "action", string(a))
	}
	g.sync()
	return false
}

// restore applies the state saved for this file.
func (g *gridView) restore(st session.FileState) {
	if st.SortColumn != "" {
		for i, c := range g.cols {
			if c.ID == st.SortColumn && c.Sortable {
				g.sort(i, st.SortAscending)
				break
			}
		}
	}
	for i, c := range g.cols {
		if w, ok := st.Widths[c.ID]; ok && c.Resizable {
			_ = g.eng.ResizeColumn(i, w)
		}
	}
	if g.eng.Table().MaxRowIndex() >= 0 {
		g.eng.ChangePrimaryCell(grid.At(st.PrimaryRow, st.PrimaryCol))
	}
	g.view.SetScroll(st.ScrollRow, st.ScrollCol)
	g.sync()
}

func (g *gridView) fileState() session.FileState {
	st := session.FileState{
		Sheet:         g.data.Sheet,
		SortColumn:    g.sortColumn,
		SortAscending: g.sortAsc,
	}
	if len(g.widths) > 0 {
		st.Widths = g.widths
	}
	if p := g.eng.State().Primary; p != nil {
		st.PrimaryRow, st.PrimaryCol = p.Row, p.Col
	}
	st.ScrollRow, st.ScrollCol = g.view.Scroll()
	return st
}
