package selection

import (
	"github.com/kobzarvs/qgrid/internal/grid"
)

// State is an immutable snapshot of the selection. Transitions always
// build a new State; the slices and pointers of a State are never written
// after it is returned.
type State struct {
	Mode       Mode
	Primary    *grid.Coord
	Selections []grid.Region
	Fill       *grid.Region
	// Moved is set once a pointer gesture has left its starting cell.
	Moved bool
}

func Empty() State {
	return State{Mode: ModeNone}
}

func (s State) Equal(o State) bool {
	if s.Mode != o.Mode || s.Moved != o.Moved || len(s.Selections) != len(o.Selections) {
		return false
	}
	if (s.Primary == nil) != (o.Primary == nil) || (s.Primary != nil && *s.Primary != *o.Primary) {
		return false
	}
	if (s.Fill == nil) != (o.Fill == nil) || (s.Fill != nil && *s.Fill != *o.Fill) {
		return false
	}
	for i := range s.Selections {
		if s.Selections[i] != o.Selections[i] {
			return false
		}
	}
	return true
}

// ActiveIndex returns the index of the region holding the primary cell,
// preferring the most recently added one; -1 when there is none.
func (s State) ActiveIndex() int {
	if s.Primary == nil {
		return -1
	}
	for i := len(s.Selections) - 1; i >= 0; i-- {
		if s.Selections[i].Contains(*s.Primary) {
			return i
		}
	}
	return -1
}

func (s State) Active() (grid.Region, bool) {
	i := s.ActiveIndex()
	if i < 0 {
		return grid.Region{}, false
	}
	return s.Selections[i], true
}

// IsSelected reports whether c lies in any region.
func (s State) IsSelected(c grid.Coord) bool {
	for _, r := range s.Selections {
		if r.Contains(c) {
			return true
		}
	}
	return false
}

func ptr[T any](v T) *T {
	return &v
}

// withRegion copies regions, replacing index i with r.
func withRegion(regions []grid.Region, i int, r grid.Region) []grid.Region {
	out := append([]grid.Region(nil), regions...)
	out[i] = r
	return out
}

func appendRegion(regions []grid.Region, r grid.Region) []grid.Region {
	out := make([]grid.Region, 0, len(regions)+1)
	out = append(out, regions...)
	return append(out, r)
}
