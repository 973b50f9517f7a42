package parameter

import "time"

// Stack Limits
const (
	// MaxBlocks is the largest count either stack may hold
	MaxBlocks = 10

	// InitialCount is the count both stacks start with when no config overrides it
	InitialCount = 5
)

// Stack Timing
const (
	// AddSettle is the delay between an accepted add and the count increment
	AddSettle = 300 * time.Millisecond

	// RemoveSettle is the pop animation window before a removal commits
	RemoveSettle = 300 * time.Millisecond

	// SequenceStep spaces the steps of a keypad-driven batch
	SequenceStep = 200 * time.Millisecond

	// DispenseAnimation is the dispenser bar animation, completion re-enables adds
	DispenseAnimation = 150 * time.Millisecond

	// DropAnimation is how long a settled block takes to land in the render layer
	DropAnimation = 250 * time.Millisecond
)

// Pointer Handling
const (
	// LongPressDuration is the hold time on a block that removes it
	LongPressDuration = 500 * time.Millisecond
)
