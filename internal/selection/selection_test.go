package selection

import (
	"testing"

	"github.com/kobzarvs/qgrid/internal/grid"
)

type fakeGrid struct {
	rows, cols   int
	readOnly     map[int]bool
	unselectable map[int]bool
	spans        map[int]int
}

func newFakeGrid(rows, cols int) *fakeGrid {
	return &fakeGrid{rows: rows, cols: cols, readOnly: map[int]bool{}, unselectable: map[int]bool{}, spans: map[int]int{}}
}

func (g *fakeGrid) IsCellEditable(c grid.Coord) bool {
	return !c.IsHeader() && !g.readOnly[c.Col] && !g.unselectable[c.Col]
}
func (g *fakeGrid) IsColumnSelectable(col int) bool { return col >= 0 && col < g.cols && !g.unselectable[col] }
func (g *fakeGrid) MaxRowIndex() int                 { return g.rows - 1 }
func (g *fakeGrid) MaxColumnIndex() int              { return g.cols - 1 }

func (g *fakeGrid) MinSelectableColumnIndex() int {
	for c := 0; c < g.cols; c++ {
		if g.IsColumnSelectable(c) {
			return c
		}
	}
	return -1
}

func (g *fakeGrid) MaxSelectableColumnIndex() int {
	for c := g.cols - 1; c >= 0; c-- {
		if g.IsColumnSelectable(c) {
			return c
		}
	}
	return -1
}

func (g *fakeGrid) RowSpan(c grid.Coord) int {
	if s, ok := g.spans[c.Col]; ok {
		return s
	}
	return 1
}

var multi = Options{Selection: MultipleCell, Fill: true}

func run(t *testing.T, s State, opts Options, caps Capabilities, cmds ...Command) (State, Result) {
	t.Helper()
	var res Result
	for _, c := range cmds {
		res = Reduce(s, c, opts, caps)
		s = res.State
	}
	return s, res
}

func selectAt(row, col int) State {
	c := grid.At(row, col)
	return State{Mode: ModeSelect, Primary: &c, Selections: []grid.Region{grid.CellRegion(c)}}
}

func down(c grid.Coord) PointerDown { return PointerDown{Target: TargetCell, Cell: c} }
func enter(c grid.Coord) PointerEnter {
	return PointerEnter{Target: TargetCell, Cell: c}
}
func key(k Key, mods Mods) KeyStroke { return KeyStroke{Key: k, Mods: mods} }

func TestClickSameCellEntersEdit(t *testing.T) {
	g := newFakeGrid(5, 3)
	c := grid.At(1, 1)
	s, _ := run(t, selectAt(1, 1), multi, g, down(c))
	if s.Mode != ModeSelecting {
		t.Fatalf("mode after down = %v, want selecting", s.Mode)
	}
	s, res := run(t, s, multi, g, PointerUp{Cell: c})
	if s.Mode != ModeEdit {
		t.Fatalf("mode = %v, want edit", s.Mode)
	}
	if res.Signal != SignalBeginEdit || res.EditCell != c {
		t.Fatalf("signal = %v at %v, want begin-edit at %v", res.Signal, res.EditCell, c)
	}
}

func TestDragEndsInSelect(t *testing.T) {
	g := newFakeGrid(5, 3)
	s, res := run(t, selectAt(1, 1), multi, g, down(grid.At(1, 1)), enter(grid.At(2, 2)), PointerUp{Cell: grid.At(2, 2)})
	if s.Mode != ModeSelect {
		t.Fatalf("mode = %v, want select", s.Mode)
	}
	if res.Signal != SignalNone {
		t.Fatalf("signal = %v, want none", res.Signal)
	}
	want := grid.NewRegion(grid.At(1, 1), grid.At(2, 2))
	if len(s.Selections) != 1 || s.Selections[0] != want {
		t.Fatalf("selections = %v, want [%v]", s.Selections, want)
	}
	if *s.Primary != grid.At(1, 1) {
		t.Fatalf("primary = %v, want (1,1)", *s.Primary)
	}
}

func TestDragBackToStartEndsInSelect(t *testing.T) {
	g := newFakeGrid(5, 3)
	s, res := run(t, selectAt(0, 0), multi, g,
		down(grid.At(1, 1)), enter(grid.At(2, 2)), enter(grid.At(1, 1)), PointerUp{Cell: grid.At(1, 1)})
	if s.Mode != ModeSelect || res.Signal != SignalNone {
		t.Fatalf("mode = %v signal = %v, want select none", s.Mode, res.Signal)
	}
	if s.Moved {
		t.Fatalf("moved flag survived pointer up")
	}
	if len(s.Selections) != 1 || !s.Selections[0].IsSingleCell() {
		t.Fatalf("selections = %v, want single cell", s.Selections)
	}
}

func TestClickReadOnlyCellStaysInSelect(t *testing.T) {
	g := newFakeGrid(5, 3)
	g.readOnly[0] = true
	s, res := run(t, Empty(), multi, g, down(grid.At(2, 0)), PointerUp{Cell: grid.At(2, 0)})
	if s.Mode != ModeSelect || res.Signal != SignalNone {
		t.Fatalf("mode = %v signal = %v, want select none", s.Mode, res.Signal)
	}
}

func TestPointerDownOnUnselectableColumnIgnored(t *testing.T) {
	g := newFakeGrid(5, 3)
	g.unselectable[1] = true
	res := Reduce(Empty(), down(grid.At(0, 1)), multi, g)
	if res.Changed {
		t.Fatalf("changed = true, want no change")
	}
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	g := newFakeGrid(5, 3)
	cur := selectAt(1, 1)
	cur.Selections = append(cur.Selections, grid.CellRegion(grid.At(3, 2)))
	cur.Primary = &cur.Selections[1].Primary
	snapshot := State{Mode: cur.Mode, Primary: cur.Primary, Selections: append([]grid.Region(nil), cur.Selections...)}
	Reduce(cur, key(KeyDown, ModShift), multi, g)
	if !cur.Equal(snapshot) {
		t.Fatalf("input state mutated: %+v", cur)
	}
}

func TestSelectionModeNoneIgnoresEverything(t *testing.T) {
	g := newFakeGrid(5, 3)
	opts := Options{Selection: SelectionNone}
	for _, cmd := range []Command{down(grid.At(0, 0)), key(KeyDown, 0), KeyPress{Char: 'x'}, PointerUp{}} {
		if res := Reduce(Empty(), cmd, opts, g); res.Changed {
			t.Fatalf("%T changed state in selection mode none", cmd)
		}
	}
}

func TestArrowClampAtLastRow(t *testing.T) {
	g := newFakeGrid(4, 2)
	s := selectAt(2, 0)
	for range 5 {
		s = Reduce(s, key(KeyDown, 0), multi, g).State
		if s.Primary.Row >= 4 {
			t.Fatalf("primary row = %d, past last row", s.Primary.Row)
		}
	}
	if s.Primary.Row != 3 {
		t.Fatalf("primary row = %d, want 3", s.Primary.Row)
	}
	res := Reduce(s, key(KeyDown, 0), multi, g)
	if res.Changed {
		t.Fatalf("move past last row reported a change")
	}
}

func TestArrowSkipsUnselectableColumns(t *testing.T) {
	g := newFakeGrid(3, 4)
	g.unselectable[1] = true
	g.unselectable[3] = true
	s := Reduce(selectAt(0, 0), key(KeyRight, 0), multi, g).State
	if *s.Primary != grid.At(0, 2) {
		t.Fatalf("primary = %v, want (0,2)", *s.Primary)
	}
	res := Reduce(s, key(KeyRight, 0), multi, g)
	if res.Changed {
		t.Fatalf("move right with no selectable column should be a no-op")
	}
}

func TestShiftArrowExtendsInMultipleMode(t *testing.T) {
	g := newFakeGrid(5, 5)
	s, _ := run(t, selectAt(1, 1), multi, g, key(KeyDown, ModShift), key(KeyRight, ModShift))
	want := grid.NewRegion(grid.At(1, 1), grid.At(2, 2))
	if len(s.Selections) != 1 || s.Selections[0] != want {
		t.Fatalf("selections = %v, want [%v]", s.Selections, want)
	}
	if *s.Primary != grid.At(1, 1) {
		t.Fatalf("primary moved to %v", *s.Primary)
	}
}

func TestShiftArrowMovesInSingleMode(t *testing.T) {
	g := newFakeGrid(5, 5)
	opts := Options{Selection: SingleCell}
	s := Reduce(selectAt(1, 1), key(KeyDown, ModShift), opts, g).State
	if *s.Primary != grid.At(2, 1) || !s.Selections[0].IsSingleCell() {
		t.Fatalf("state = %+v, want single cell at (2,1)", s)
	}
}

func TestCtrlClickAppendsOnlyInMultipleMode(t *testing.T) {
	g := newFakeGrid(5, 5)
	ctrl := PointerDown{Target: TargetCell, Cell: grid.At(3, 3), Mods: ModCtrl}

	s, _ := run(t, selectAt(0, 0), multi, g, ctrl, PointerUp{Cell: grid.At(3, 3)})
	if len(s.Selections) != 2 {
		t.Fatalf("multiple mode regions = %d, want 2", len(s.Selections))
	}
	if i := s.ActiveIndex(); i != 1 {
		t.Fatalf("active index = %d, want 1", i)
	}

	s, _ = run(t, selectAt(0, 0), Options{Selection: SingleCell}, g, ctrl)
	if len(s.Selections) != 1 {
		t.Fatalf("single mode regions = %d, want 1", len(s.Selections))
	}
}

func TestRowModesCoverSelectableColumns(t *testing.T) {
	g := newFakeGrid(5, 4)
	g.unselectable[0] = true
	opts := Options{Selection: MultipleRow}
	s, _ := run(t, Empty(), opts, g, down(grid.At(2, 2)), enter(grid.At(3, 2)))
	want := grid.NewRegion(grid.At(2, 1), grid.At(3, 3))
	if s.Selections[0] != want {
		t.Fatalf("region = %v, want %v", s.Selections[0], want)
	}
}

func TestRowHeaderSelectsWholeRow(t *testing.T) {
	g := newFakeGrid(5, 3)
	s, _ := run(t, Empty(), multi, g,
		PointerDown{Target: TargetRowHeader, Cell: grid.RowHeaderAt(1)},
		PointerEnter{Target: TargetRowHeader, Cell: grid.RowHeaderAt(2)},
		PointerUp{})
	want := grid.NewRegion(grid.At(1, 0), grid.At(2, 2))
	if s.Mode != ModeSelect || s.Selections[0] != want {
		t.Fatalf("state = %+v, want select %v", s, want)
	}
}

func TestTypingStartsEditWithSeed(t *testing.T) {
	g := newFakeGrid(3, 3)
	res := Reduce(selectAt(1, 1), KeyPress{Char: 'q'}, multi, g)
	if res.State.Mode != ModeEdit || res.Signal != SignalBeginEdit || res.Seed != 'q' {
		t.Fatalf("result = %+v, want edit seeded with q", res)
	}
	g.readOnly[1] = true
	if res := Reduce(selectAt(1, 1), KeyPress{Char: 'q'}, multi, g); res.Changed {
		t.Fatalf("typing on read-only cell changed state")
	}
}

func TestEditKeys(t *testing.T) {
	g := newFakeGrid(5, 4)
	g.unselectable[2] = true
	edit := selectAt(2, 1)
	edit.Mode = ModeEdit

	cases := []struct {
		name   string
		cmd    KeyStroke
		want   grid.Coord
		signal Signal
	}{
		{"enter", key(KeyEnter, 0), grid.At(3, 1), SignalCommitEdit},
		{"shift enter", key(KeyEnter, ModShift), grid.At(1, 1), SignalCommitEdit},
		{"tab", key(KeyTab, 0), grid.At(2, 3), SignalCommitEdit},
		{"shift tab", key(KeyTab, ModShift), grid.At(2, 0), SignalCommitEdit},
		{"escape", key(KeyEscape, 0), grid.At(2, 1), SignalCancelEdit},
	}
	for _, tc := range cases {
		res := Reduce(edit, tc.cmd, multi, g)
		if res.State.Mode != ModeSelect {
			t.Fatalf("%s: mode = %v, want select", tc.name, res.State.Mode)
		}
		if *res.State.Primary != tc.want {
			t.Fatalf("%s: primary = %v, want %v", tc.name, *res.State.Primary, tc.want)
		}
		if res.Signal != tc.signal || res.EditCell != grid.At(2, 1) {
			t.Fatalf("%s: signal = %v at %v, want %v at (2,1)", tc.name, res.Signal, res.EditCell, tc.signal)
		}
	}
}

func TestPointerDownWhileEditingCommits(t *testing.T) {
	g := newFakeGrid(5, 4)
	edit := selectAt(2, 1)
	edit.Mode = ModeEdit
	res := Reduce(edit, down(grid.At(4, 0)), multi, g)
	if res.Signal != SignalCommitEdit || res.EditCell != grid.At(2, 1) {
		t.Fatalf("signal = %v at %v, want commit-edit at (2,1)", res.Signal, res.EditCell)
	}
	if res.State.Mode != ModeSelecting {
		t.Fatalf("mode = %v, want selecting", res.State.Mode)
	}
	if res := Reduce(edit, down(grid.At(2, 1)), multi, g); res.Changed {
		t.Fatalf("pointer-down on edited cell changed state")
	}
}

func TestEscape(t *testing.T) {
	g := newFakeGrid(5, 4)
	s, _ := run(t, Empty(), multi, g, down(grid.At(1, 1)), key(KeyEscape, 0))
	if s.Mode != ModeSelect {
		t.Fatalf("escape while selecting: mode = %v, want select", s.Mode)
	}
	noRegions := State{Mode: ModeSelect, Primary: s.Primary}
	if got := Reduce(noRegions, key(KeyEscape, 0), multi, g).State; got.Mode != ModeNone || got.Primary != nil {
		t.Fatalf("escape with no regions = %+v, want empty", got)
	}
}

func TestSpannedNavigation(t *testing.T) {
	g := newFakeGrid(8, 2)
	g.spans[0] = 2
	s := Reduce(Empty(), down(grid.At(3, 0)), multi, g).State
	if *s.Primary != grid.At(2, 0) {
		t.Fatalf("pointer-down on spanned interior = %v, want anchor (2,0)", *s.Primary)
	}
	s = Reduce(selectAt(2, 0), key(KeyDown, 0), multi, g).State
	if *s.Primary != grid.At(4, 0) {
		t.Fatalf("down from (2,0) = %v, want (4,0)", *s.Primary)
	}
	s = Reduce(s, key(KeyUp, 0), multi, g).State
	if *s.Primary != grid.At(2, 0) {
		t.Fatalf("up from (4,0) = %v, want (2,0)", *s.Primary)
	}
}

func TestJumpKeys(t *testing.T) {
	g := newFakeGrid(6, 5)
	g.unselectable[0] = true
	cases := []struct {
		cmd  KeyStroke
		want grid.Coord
	}{
		{key(KeyUp, ModCtrl), grid.At(0, 2)},
		{key(KeyDown, ModCtrl), grid.At(5, 2)},
		{key(KeyLeft, ModCtrl), grid.At(3, 1)},
		{key(KeyRight, ModCtrl), grid.At(3, 4)},
		{key(KeyHome, 0), grid.At(3, 1)},
		{key(KeyEnd, 0), grid.At(3, 4)},
		{key(KeyHome, ModCtrl), grid.At(0, 1)},
		{key(KeyEnd, ModCtrl), grid.At(5, 4)},
	}
	for _, tc := range cases {
		s := Reduce(selectAt(3, 2), tc.cmd, multi, g).State
		if *s.Primary != tc.want {
			t.Fatalf("%v mods %v: primary = %v, want %v", tc.cmd.Key, tc.cmd.Mods, *s.Primary, tc.want)
		}
	}
}

func TestFillDownGesture(t *testing.T) {
	g := newFakeGrid(10, 3)
	src := grid.NewRegion(grid.At(2, 0), grid.At(3, 1))
	s := State{Mode: ModeSelect, Primary: &src.Primary, Selections: []grid.Region{src}}

	s, _ = run(t, s, multi, g, PointerDown{Target: TargetFillHandle})
	if s.Mode != ModeFilling || s.Fill == nil {
		t.Fatalf("state = %+v, want filling", s)
	}
	s, res := run(t, s, multi, g, enter(grid.At(7, 2)), PointerUp{})
	if res.Signal != SignalFillCompleted {
		t.Fatalf("signal = %v, want fill-completed", res.Signal)
	}
	if res.FillSource != grid.NewRegion(grid.At(2, 0), grid.At(3, 1)) {
		t.Fatalf("fill source = %v", res.FillSource)
	}
	if res.FillTarget != grid.NewRegion(grid.At(4, 0), grid.At(7, 1)) {
		t.Fatalf("fill target = %v, want rows 4..7 cols 0..1", res.FillTarget)
	}
	want := grid.NewRegion(grid.At(2, 0), grid.At(7, 1))
	if s.Mode != ModeSelect || s.Fill != nil || len(s.Selections) != 1 || s.Selections[0] != want {
		t.Fatalf("state = %+v, want select %v", s, want)
	}
}

func TestFillUpGesture(t *testing.T) {
	g := newFakeGrid(10, 3)
	src := grid.NewRegion(grid.At(5, 1), grid.At(6, 1))
	s := State{Mode: ModeSelect, Primary: &src.Primary, Selections: []grid.Region{src}}
	_, res := run(t, s, multi, g, PointerDown{Target: TargetFillHandle}, enter(grid.At(2, 0)), PointerUp{})
	if res.FillTarget != grid.NewRegion(grid.At(2, 1), grid.At(4, 1)) {
		t.Fatalf("fill target = %v, want rows 2..4 col 1", res.FillTarget)
	}
}

func TestFillReleasedInsideSourceDoesNothing(t *testing.T) {
	g := newFakeGrid(10, 3)
	s, res := run(t, selectAt(2, 1), multi, g, PointerDown{Target: TargetFillHandle}, enter(grid.At(2, 1)), PointerUp{})
	if res.Signal != SignalNone || s.Mode != ModeSelect || s.Fill != nil {
		t.Fatalf("state = %+v signal = %v, want plain select", s, res.Signal)
	}
}

func TestFillEligibility(t *testing.T) {
	src := grid.NewRegion(grid.At(0, 0), grid.At(1, 1))
	s := State{Mode: ModeSelect, Primary: &src.Primary, Selections: []grid.Region{src}}
	handle := PointerDown{Target: TargetFillHandle}

	g := newFakeGrid(10, 3)
	g.readOnly[1] = true
	if Reduce(s, handle, multi, g).Changed {
		t.Fatalf("fill started over a read-only column")
	}

	g = newFakeGrid(10, 3)
	g.spans[0] = 2
	if Reduce(s, handle, multi, g).Changed {
		t.Fatalf("fill started over mixed row spans")
	}

	g = newFakeGrid(10, 3)
	if Reduce(s, handle, Options{Selection: MultipleCell}, g).Changed {
		t.Fatalf("fill started with fill disabled")
	}

	two := s
	two.Selections = append([]grid.Region{grid.CellRegion(grid.At(5, 0))}, src)
	if Reduce(two, handle, multi, g).Changed {
		t.Fatalf("fill started with two regions")
	}
}

func TestFillEscape(t *testing.T) {
	g := newFakeGrid(10, 3)
	s, _ := run(t, selectAt(2, 1), multi, g, PointerDown{Target: TargetFillHandle}, enter(grid.At(5, 1)), key(KeyEscape, 0))
	if s.Mode != ModeSelect || s.Fill != nil {
		t.Fatalf("state = %+v, want select without fill", s)
	}
}

func TestClampShrinkToFit(t *testing.T) {
	g := newFakeGrid(10, 3)
	first := grid.NewRegion(grid.At(0, 0), grid.At(1, 1))
	past := grid.NewRegion(grid.At(6, 0), grid.At(8, 2))
	p := grid.At(7, 1)
	s := State{Mode: ModeSelect, Primary: &p, Selections: []grid.Region{first, past}}

	g.rows = 4
	got := Clamp(s, g)
	if len(got.Selections) != 1 || got.Selections[0] != first {
		t.Fatalf("selections = %v, want [%v]", got.Selections, first)
	}
	if *got.Primary != first.Primary {
		t.Fatalf("primary = %v, want %v", *got.Primary, first.Primary)
	}

	only := State{Mode: ModeSelect, Primary: &p, Selections: []grid.Region{past}}
	if got := Clamp(only, g); got.Mode != ModeNone || got.Primary != nil || len(got.Selections) != 0 {
		t.Fatalf("clamp of only region = %+v, want empty", got)
	}
}

func TestClampDroppedFirstRegionMovesToLast(t *testing.T) {
	g := newFakeGrid(10, 3)
	past := grid.NewRegion(grid.At(6, 0), grid.At(8, 2))
	a := grid.NewRegion(grid.At(0, 0), grid.At(1, 1))
	b := grid.NewRegion(grid.At(2, 2), grid.At(3, 2))
	p := grid.At(7, 1)
	s := State{Mode: ModeSelect, Primary: &p, Selections: []grid.Region{past, a, b}}

	g.rows = 4
	got := Clamp(s, g)
	if len(got.Selections) != 2 || got.Selections[0] != a || got.Selections[1] != b {
		t.Fatalf("selections = %v, want [%v %v]", got.Selections, a, b)
	}
	if got.Primary == nil || *got.Primary != b.Primary {
		t.Fatalf("primary = %v, want %v", got.Primary, b.Primary)
	}
}

func TestClampShrinksPartialRegion(t *testing.T) {
	g := newFakeGrid(10, 3)
	r := grid.NewRegion(grid.At(2, 0), grid.At(8, 2))
	p := grid.At(6, 1)
	s := State{Mode: ModeEdit, Primary: &p, Selections: []grid.Region{r}}
	g.rows = 5
	got := Clamp(s, g)
	want := grid.NewRegion(grid.At(2, 0), grid.At(4, 2))
	if got.Selections[0] != want {
		t.Fatalf("region = %v, want %v", got.Selections[0], want)
	}
	if *got.Primary != grid.At(4, 1) {
		t.Fatalf("primary = %v, want (4,1)", *got.Primary)
	}
	if got.Mode != ModeSelect {
		t.Fatalf("mode = %v, want select", got.Mode)
	}
}

func TestClampWithinBoundsIsIdentity(t *testing.T) {
	g := newFakeGrid(10, 3)
	s := selectAt(3, 1)
	s.Mode = ModeEdit
	got := Clamp(s, g)
	if got.Mode != ModeEdit || !got.Equal(s) {
		t.Fatalf("clamp changed an in-bounds state: %+v", got)
	}
}

func TestChangeSelection(t *testing.T) {
	g := newFakeGrid(10, 3)
	regions := []grid.Region{
		grid.NewRegion(grid.At(0, 0), grid.At(1, 1)),
		grid.NewRegion(grid.At(4, 2), grid.At(5, 2)),
	}
	s := ChangeSelection(Empty(), regions, multi, g)
	if len(s.Selections) != 2 || *s.Primary != grid.At(4, 2) {
		t.Fatalf("state = %+v, want both regions, primary (4,2)", s)
	}
	s = ChangeSelection(Empty(), regions, Options{Selection: SingleCell}, g)
	if len(s.Selections) != 1 || s.Selections[0] != regions[1] {
		t.Fatalf("single mode selections = %v, want last region", s.Selections)
	}
	if s := ChangeSelection(selectAt(1, 1), nil, multi, g); s.Mode != ModeNone {
		t.Fatalf("empty regions mode = %v, want none", s.Mode)
	}
}

func TestChangePrimaryCell(t *testing.T) {
	g := newFakeGrid(10, 3)
	g.spans[1] = 3
	s := ChangePrimaryCell(Empty(), grid.At(4, 1), multi, g)
	if s.Mode != ModeSelect || *s.Primary != grid.At(3, 1) {
		t.Fatalf("state = %+v, want select at anchor (3,1)", s)
	}
}
