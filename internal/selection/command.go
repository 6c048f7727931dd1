package selection

import (
	"github.com/kobzarvs/qgrid/internal/grid"
)

type Mods uint8

const (
	ModShift Mods = 1 << iota
	ModCtrl
	ModAlt
)

func (m Mods) Has(f Mods) bool { return m&f != 0 }

// Target is what a pointer is over.
type Target int

const (
	TargetCell Target = iota
	TargetRowHeader
	TargetFillHandle
)

// Key is the closed set of named keys the machine understands.
type Key int

const (
	KeyEnter Key = iota
	KeyF2
	KeyEscape
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

var keyNames = map[Key]string{
	KeyEnter:  "enter",
	KeyF2:     "f2",
	KeyEscape: "escape",
	KeyTab:    "tab",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeyHome:   "home",
	KeyEnd:    "end",
}

func (k Key) String() string {
	if s, ok := keyNames[k]; ok {
		return s
	}
	return "key?"
}

// Command is a discrete input the host translated from a device event.
type Command interface {
	command()
}

type PointerDown struct {
	Target Target
	Cell   grid.Coord
	Mods   Mods
}

type PointerEnter struct {
	Target Target
	Cell   grid.Coord
}

type PointerUp struct {
	Cell grid.Coord
}

// KeyStroke is a named key pressed with modifiers.
type KeyStroke struct {
	Key  Key
	Mods Mods
}

// KeyPress is a printable character.
type KeyPress struct {
	Char rune
}

func (PointerDown) command()  {}
func (PointerEnter) command() {}
func (PointerUp) command()    {}
func (KeyStroke) command()    {}
func (KeyPress) command()     {}

// Signal tells the host which side effect a transition asks for.
type Signal int

const (
	SignalNone Signal = iota
	// SignalBeginEdit: EditCell entered edit mode; Seed holds the typed
	// character when a key press started it.
	SignalBeginEdit
	// SignalCommitEdit: the edit of EditCell should be committed.
	SignalCommitEdit
	// SignalCancelEdit: the pending edit of EditCell should be discarded.
	SignalCancelEdit
	// SignalFillCompleted: FillSource should be copied into FillTarget.
	SignalFillCompleted
)

func (s Signal) String() string {
	switch s {
	case SignalBeginEdit:
		return "begin-edit"
	case SignalCommitEdit:
		return "commit-edit"
	case SignalCancelEdit:
		return "cancel-edit"
	case SignalFillCompleted:
		return "fill-completed"
	}
	return "none"
}

type Result struct {
	State   State
	Changed bool
	Signal  Signal

	EditCell grid.Coord
	Seed     rune

	FillSource grid.Region
	FillTarget grid.Region
}
