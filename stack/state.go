// Package stack owns per-side block counts and the markers render layers animate
package stack

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/blockcompare/core"
)

// MarkerKind tells whether a marker tracks an arriving or a leaving block
type MarkerKind uint8

const (
	MarkerAdding MarkerKind = iota
	MarkerRemoving
)

func (k MarkerKind) String() string {
	if k == MarkerRemoving {
		return "removing"
	}
	return "adding"
}

// MarkerKey addresses one block slot on one side
type MarkerKey struct {
	Side  core.Side
	Index int
}

// Marker is a transient render annotation on a block slot
// Token is fixed at creation and survives renumbering
// Seq orders creation among the markers of one side
type Marker struct {
	Key     MarkerKey
	Kind    MarkerKind
	Token   uuid.UUID
	Seq     uint64
	Created time.Time
}

// State is the per-side stack model
// Count is authoritative, markers never change it
type State struct {
	Side        core.Side
	Count       int
	Dispensing  bool
	PendingAdds map[int]Marker
	// PendingRemovals holds slots whose pop animation is running
	PendingRemovals map[int]Marker
}

// NewState creates a state with the given starting count
func NewState(side core.Side, count int) *State {
	return &State{
		Side:            side,
		Count:           count,
		PendingAdds:     make(map[int]Marker),
		PendingRemovals: make(map[int]Marker),
	}
}

// Markers returns every marker ordered by index then kind
func (s *State) Markers() []Marker {
	out := make([]Marker, 0, len(s.PendingAdds)+len(s.PendingRemovals))
	for _, m := range s.PendingAdds {
		out = append(out, m)
	}
	for _, m := range s.PendingRemovals {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key.Index == out[j].Key.Index {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Key.Index < out[j].Key.Index
	})
	return out
}

// IsAdding reports whether index carries an Adding marker
func (s *State) IsAdding(index int) bool {
	_, ok := s.PendingAdds[index]
	return ok
}

// IsRemoving reports whether index is popping
func (s *State) IsRemoving(index int) bool {
	_, ok := s.PendingRemovals[index]
	return ok
}

// Clone returns a deep copy for read-only consumers
func (s *State) Clone() State {
	c := *s
	c.PendingAdds = make(map[int]Marker, len(s.PendingAdds))
	for k, v := range s.PendingAdds {
		c.PendingAdds[k] = v
	}
	c.PendingRemovals = make(map[int]Marker, len(s.PendingRemovals))
	for k, v := range s.PendingRemovals {
		c.PendingRemovals[k] = v
	}
	return c
}
