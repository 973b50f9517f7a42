// Package tutorial walks a first-time user through the board
package tutorial

import (
	"github.com/lixenwraith/blockcompare/event"
)

// Placement tells the render layer where to put the instruction box
type Placement uint8

const (
	PlaceCenter Placement = iota
	PlaceBottomSides
	PlaceBottomCenter
)

// Step is one instruction
type Step struct {
	Text      string
	Placement Placement
	// Arrows points at both keypads
	Arrows bool
}

// DefaultSteps is the built-in four step walkthrough
var DefaultSteps = []Step{
	{
		Text:      "Welcome! Let's learn how to compare numbers using these interactive blocks.",
		Placement: PlaceCenter,
	},
	{
		Text:      "On each side, you can use the number pad to add or remove blocks.",
		Placement: PlaceBottomSides,
		Arrows:    true,
	},
	{
		Text:      "Watch the comparison signs in the middle - they'll show if the left side is less than (<), equal to (=), or greater than (>) the right side.",
		Placement: PlaceCenter,
	},
	{
		Text:      "You can also toggle between 'Show Lines' and 'Draw Lines' at the bottom to practice drawing comparison lines yourself!",
		Placement: PlaceBottomCenter,
	},
}

// Narrator reads instructions aloud
type Narrator interface {
	Speak(text string)
	Cancel()
}

// NarratorFunc adapts a function to Narrator, Cancel is a no-op
type NarratorFunc func(text string)

func (f NarratorFunc) Speak(text string) { f(text) }
func (f NarratorFunc) Cancel()           {}

// Tutorial sequences the steps
type Tutorial struct {
	steps    []Step
	narrator Narrator
	sink     event.Sink

	current int
	active  bool
	done    bool
	muted   bool
}

// New creates an inactive tutorial, nil steps selects DefaultSteps
func New(steps []Step, narrator Narrator, sink event.Sink) *Tutorial {
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	if sink == nil {
		sink = event.Discard
	}
	return &Tutorial{steps: steps, narrator: narrator, sink: sink}
}

// Start shows the first step
func (t *Tutorial) Start() {
	t.current = 0
	t.active = true
	t.done = false
	t.announce()
}

// Next advances, the last call completes the tutorial
func (t *Tutorial) Next() {
	if !t.active {
		return
	}
	if t.narrator != nil {
		t.narrator.Cancel()
	}

	if t.current < len(t.steps)-1 {
		t.current++
		t.announce()
		return
	}

	t.active = false
	t.done = true
	t.sink.Push(event.Event{Type: event.EventTutorialStep, Index: -1})
}

// ToggleMute silences narration, unmuting repeats the current step
func (t *Tutorial) ToggleMute() {
	t.muted = !t.muted
	if t.narrator == nil {
		return
	}
	if t.muted {
		t.narrator.Cancel()
	} else if t.active {
		t.narrator.Speak(t.steps[t.current].Text)
	}
}

func (t *Tutorial) announce() {
	if t.narrator != nil && !t.muted {
		t.narrator.Speak(t.steps[t.current].Text)
	}
	t.sink.Push(event.Event{Type: event.EventTutorialStep, Index: t.current, Count: len(t.steps)})
}

// Active reports whether an instruction is showing
func (t *Tutorial) Active() bool { return t.active }

// Done reports whether the tutorial ran to completion
func (t *Tutorial) Done() bool { return t.done }

// Muted reports whether narration is off
func (t *Tutorial) Muted() bool { return t.muted }

// Index returns the current step number
func (t *Tutorial) Index() int { return t.current }

// Len returns the number of steps
func (t *Tutorial) Len() int { return len(t.steps) }

// Current returns the showing step
func (t *Tutorial) Current() Step {
	return t.steps[t.current]
}

// ButtonLabel is the caption of the advance button
func (t *Tutorial) ButtonLabel() string {
	if t.current < len(t.steps)-1 {
		return "Continue"
	}
	return "Start Playing!"
}
