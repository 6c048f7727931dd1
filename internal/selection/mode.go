package selection

import (
	"fmt"
	"strings"
)

// Mode is the interaction mode of the grid.
type Mode int

const (
	ModeNone Mode = iota
	ModeSelecting
	ModeSelect
	ModeEdit
	ModeFilling
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeSelecting:
		return "selecting"
	case ModeSelect:
		return "select"
	case ModeEdit:
		return "edit"
	case ModeFilling:
		return "filling"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// SelectionMode is host configuration limiting the shape and number of
// regions a user may select.
type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SingleCell
	SingleRow
	MultipleCell
	MultipleRow
)

func (s SelectionMode) Multiple() bool { return s == MultipleCell || s == MultipleRow }

// RowWise reports whether regions always cover whole rows.
func (s SelectionMode) RowWise() bool { return s == SingleRow || s == MultipleRow }

func (s SelectionMode) String() string {
	switch s {
	case SelectionNone:
		return "none"
	case SingleCell:
		return "single-cell"
	case SingleRow:
		return "single-row"
	case MultipleCell:
		return "multiple-cell"
	case MultipleRow:
		return "multiple-row"
	}
	return fmt.Sprintf("selection(%d)", int(s))
}

func ParseSelectionMode(s string) (SelectionMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return SelectionNone, nil
	case "single-cell", "single":
		return SingleCell, nil
	case "single-row":
		return SingleRow, nil
	case "multiple-cell", "multiple", "":
		return MultipleCell, nil
	case "multiple-row":
		return MultipleRow, nil
	}
	return SelectionNone, fmt.Errorf("unknown selection mode %q", s)
}

// Options configure the state machine.
type Options struct {
	Selection SelectionMode
	// Fill enables the fill handle.
	Fill bool
}
