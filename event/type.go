package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/blockcompare/core"
)

// EventType identifies a board event
// Zero is reserved for the FSM "Tick" trigger
type EventType int

const (
	EventTick EventType = iota

	// === Stack Events ===

	// EventAddRequested signals an accepted add
	// Trigger: stack.Controller.RequestAdd
	// Fields: Side, Index (projected slot), Count (count at request), Token
	EventAddRequested

	// EventRemoveRequested signals a block entering its pop animation
	// Trigger: stack.Controller.RequestRemove
	// Fields: Side, Index, Counted
	EventRemoveRequested

	// EventDispenseComplete signals the side accepts adds again
	// Trigger: stack.Controller.DispenseComplete
	// Fields: Side
	EventDispenseComplete

	// EventCountSettled carries a new authoritative count
	// Trigger: add/remove settle, SetCount
	// Fields: Side, Count, Previous
	EventCountSettled

	// EventAnimationStart asks the render layer to land the block at Index
	// Index may be stale by dispatch time, Token names the Adding marker
	// Trigger: add settle
	// Consumer: render animator | Fields: Side, Index, Token
	EventAnimationStart

	// EventStackFull signals an add refused at capacity
	// Trigger: board.Board.AddBlock
	// Fields: Side, Count
	EventStackFull

	// === Comparison Events ===

	// EventCorrectAnswer and EventIncorrectAnswer report a checked answer
	// Trigger: compare.Comparator.Check
	// Consumer: audio tone handler | Fields: Operator
	EventCorrectAnswer
	EventIncorrectAnswer

	// === Connection Events ===

	// EventConnectionMade signals a committed connection
	// Trigger: connect.Engine | Fields: From, To
	EventConnectionMade

	// EventConnectionsCleared signals that every connection was dropped
	// Trigger: connect.Engine.Reset
	EventConnectionsCleared

	// EventPointerDown, EventPointerUp, EventPointerCancel and EventClick drive the connection FSM
	// Fields: From (endpoint under the pointer)
	EventPointerDown
	EventPointerUp
	EventPointerCancel
	EventClick

	// === Tutorial Events ===

	// EventTutorialStep signals a tutorial step change, Index is -1 once finished
	// Trigger: tutorial.Tutorial
	EventTutorialStep
)

// Event is a single board occurrence
// Unused fields are zero, Token names the marker a stack event concerns
type Event struct {
	Type     EventType
	Side     core.Side
	Index    int
	Count    int
	Previous int
	Counted  bool
	From     core.Endpoint
	To       core.Endpoint
	Operator string
	Token    uuid.UUID
	At       time.Time
}

// Sink receives emitted events
type Sink interface {
	Push(ev Event)
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ev Event)

func (f SinkFunc) Push(ev Event) { f(ev) }

// Discard drops every event
var Discard Sink = SinkFunc(func(Event) {})
