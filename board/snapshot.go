package board

import (
	"time"

	"github.com/lixenwraith/blockcompare/compare"
	"github.com/lixenwraith/blockcompare/connect"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/geometry"
	"github.com/lixenwraith/blockcompare/stack"
	"github.com/lixenwraith/blockcompare/tutorial"
)

// SideView is the read-only state of one side
type SideView struct {
	Side      core.Side
	Count     int
	Projected int
	Keypad    int
	Full      bool

	Dispensing       bool
	DispenseProgress float64
	DispenseRotation int

	// Markers ordered by index
	Markers []stack.Marker
}

// TutorialView is the showing instruction
type TutorialView struct {
	Active bool
	Step   tutorial.Step
	Index  int
	Len    int
	Muted  bool
	Button string
}

// Snapshot is everything a render layer needs for one frame
type Snapshot struct {
	At    time.Time
	Sides [2]SideView

	Flash    compare.Flash
	Operator compare.Operator

	LineMode  connect.Mode
	ConnState connect.State
	Lines     []connect.Line
	Endpoints geometry.Endpoints
	Used      [4]bool
	Anchor    core.Endpoint
	Anchored  bool

	Pressing      bool
	PressKey      stack.MarkerKey
	PressProgress float64

	Tutorial TutorialView
}

// Snapshot captures the board for rendering
func (b *Board) Snapshot() Snapshot {
	snap := Snapshot{
		At:            b.sched.Now(),
		Flash:         b.cmp.Flash(),
		Operator:      b.cmp.Operator(),
		LineMode:      b.conn.Mode(),
		ConnState:     b.conn.State(),
		Lines:         b.conn.Lines(),
		Endpoints:     b.conn.Endpoints(),
		Pressing:      b.press.Active(),
		PressKey:      b.press.Key(),
		PressProgress: b.press.Progress(),
	}
	snap.Anchor, snap.Anchored = b.conn.Anchor()
	for _, ep := range core.Endpoints {
		snap.Used[ep] = b.conn.IsUsed(ep)
	}

	for _, side := range core.Sides {
		s := b.sides[side]
		st := s.Controller.State()
		snap.Sides[side] = SideView{
			Side:             side,
			Count:            st.Count,
			Projected:        s.Controller.Projected(),
			Keypad:           s.Keypad.Value(),
			Full:             b.Full(side),
			Dispensing:       st.Dispensing,
			DispenseProgress: s.Dispenser.Progress(),
			DispenseRotation: s.Dispenser.Rotation(),
			Markers:          st.Markers(),
		}
	}

	if b.tut.Active() {
		snap.Tutorial = TutorialView{
			Active: true,
			Step:   b.tut.Current(),
			Index:  b.tut.Index(),
			Len:    b.tut.Len(),
			Muted:  b.tut.Muted(),
			Button: b.tut.ButtonLabel(),
		}
	}
	return snap
}

// Markers returns every marker on both sides keyed by slot
// A slot both arriving and popping reports the removal
func (s Snapshot) Markers() map[stack.MarkerKey]stack.Marker {
	out := make(map[stack.MarkerKey]stack.Marker)
	for _, side := range s.Sides {
		for _, m := range side.Markers {
			out[m.Key] = m
		}
	}
	return out
}

// Marker looks up the marker on one slot
func (v SideView) Marker(index int) (stack.Marker, bool) {
	var found stack.Marker
	ok := false
	for _, m := range v.Markers {
		if m.Key.Index == index {
			found, ok = m, true
		}
	}
	return found, ok
}
