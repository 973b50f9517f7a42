// Package connect implements the endpoint connection engine drawn between the stacks
package connect

import (
	"github.com/lixenwraith/blockcompare/core"
)

// Mode selects how comparison lines are produced
type Mode uint8

const (
	// ModeShow draws the canonical top and bottom lines and ignores input
	ModeShow Mode = iota
	// ModeDraw lets the user connect endpoints
	ModeDraw
)

func (m Mode) String() string {
	if m == ModeDraw {
		return "draw"
	}
	return "show"
}

// ParseMode accepts "show" and "draw"
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "show":
		return ModeShow, true
	case "draw":
		return ModeDraw, true
	}
	return ModeShow, false
}

// State is the interaction state of the engine
type State uint8

const (
	StateIdle State = iota
	StatePointSelected
	StateDragging
)

var stateNames = [...]string{"Idle", "PointSelected", "Dragging"}

// stateByName maps FSM graph state names back to State
var stateByName = map[string]State{
	"Idle":          StateIdle,
	"PointSelected": StatePointSelected,
	"Dragging":      StateDragging,
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Connection is a committed line between two endpoints
type Connection struct {
	Start, End core.Endpoint
}

// Line is a segment for render layers
type Line struct {
	From, To core.Point
	Dashed   bool
}

// IsValidConnection reports whether a and b may be joined
// Only distinct endpoints of the same class connect, the relation is symmetric
func IsValidConnection(a, b core.Endpoint) bool {
	return a != b && a.Class() == b.Class()
}
