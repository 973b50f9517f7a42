package fsm

import (
	"github.com/lixenwraith/blockcompare/event"
)

// StateID is a unique identifier for a node
type StateID int

const (
	StateNone StateID = 0
	StateRoot StateID = 1
)

// Machine is a hierarchical finite state machine runtime with one active leaf
// T is the context passed to actions and guards
type Machine[T any] struct {
	// Graph data, immutable after load
	nodes map[StateID]*Node[T]

	InitialStateID StateID

	// Runtime state
	activeID   StateID
	activePath []StateID // Root -> ... -> leaf

	guardReg  map[string]GuardFunc[T]
	actionReg map[string]ActionFunc[T]

	// OnTransition observes every completed state change
	OnTransition func(from, to string, trigger event.EventType)
}

// Node represents a state in the hierarchy
type Node[T any] struct {
	ID       StateID
	Name     string
	ParentID StateID

	// Path from Root to this node, used for LCA lookup
	Path []StateID

	OnEnter []Action[T]
	OnExit  []Action[T]

	// Transitions in evaluation order, first passing guard wins
	Transitions []Transition[T]
}

// Transition links a source node to a target on an event
type Transition[T any] struct {
	TargetID StateID
	Event    event.EventType // EventTick = evaluated by Update
	Guard    GuardFunc[T]    // nil = always
	Actions  []Action[T]     // run between exit and enter
}

// Action is a side effect with pre-compiled arguments
type Action[T any] struct {
	Func ActionFunc[T]
	Args map[string]any
}

// GuardFunc returns true if the transition should occur
type GuardFunc[T any] func(ctx T) bool

// ActionFunc executes a side effect
type ActionFunc[T any] func(ctx T, args map[string]any)
