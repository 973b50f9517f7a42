// Package mode interprets input intents against the board
package mode

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/compare"
	"github.com/lixenwraith/blockcompare/connect"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/event"
	"github.com/lixenwraith/blockcompare/input"
	"github.com/lixenwraith/blockcompare/render"
)

// Muter toggles sound output, returning true when sound is now enabled
type Muter interface {
	ToggleMute() bool
}

// Router interprets Intents and executes board operations
// Authoritative owner of side focus and pointer gesture state
type Router struct {
	board  *board.Board
	layout *render.Layout
	muter  Muter
	logger *log.Logger

	focus   core.Side
	muted   bool
	message string

	// Gesture started on an endpoint
	downEndpoint core.Endpoint
	onEndpoint   bool

	// Gesture started on a block
	onBlock bool
}

// NewRouter creates a router, muter may be nil
func NewRouter(b *board.Board, layout *render.Layout, muter Muter, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	r := &Router{
		board:  b,
		layout: layout,
		muter:  muter,
		logger: logger.WithPrefix("mode"),
	}
	b.Register(r)
	return r
}

// Status returns UI state for the renderer
func (r *Router) Status() render.Status {
	return render.Status{Focus: r.focus, Muted: r.muted, Message: r.message}
}

// Focus returns the side keyboard actions apply to
func (r *Router) Focus() core.Side {
	return r.focus
}

// Handle processes an Intent and returns false if the session should exit
func (r *Router) Handle(intent *input.Intent) bool {
	if intent == nil {
		return true
	}
	if intent.Type != input.IntentMouseMove {
		r.message = ""
	}

	switch intent.Type {
	// System
	case input.IntentQuit:
		return false
	case input.IntentToggleMute:
		if r.muter != nil {
			r.muted = !r.muter.ToggleMute()
		}
	case input.IntentResize:
		// Layout is resized by the owner of the screen

	// Focus
	case input.IntentFocusLeft:
		r.focus = core.SideLeft
	case input.IntentFocusRight:
		r.focus = core.SideRight
	case input.IntentFocusToggle:
		r.focus = r.focus.Other()

	// Stack control
	case input.IntentAddBlock:
		r.board.AddBlock(r.focus)
	case input.IntentRemoveTop:
		r.removeTop(r.focus)
	case input.IntentDigit:
		r.board.Side(r.focus).Keypad.Press(intent.Count)
	case input.IntentIncrement:
		r.board.Side(r.focus).Keypad.Step(1)
	case input.IntentDecrement:
		r.board.Side(r.focus).Keypad.Step(-1)

	// Answers
	case input.IntentAnswerLess:
		r.board.Answer(compare.OpLess)
	case input.IntentAnswerEqual:
		r.board.Answer(compare.OpEqual)
	case input.IntentAnswerGreater:
		r.board.Answer(compare.OpGreater)

	// Lines and tutorial
	case input.IntentToggleLines:
		r.board.ToggleLineMode()
	case input.IntentTutorialNext:
		r.tutorialNext()
	case input.IntentTutorialMute:
		r.board.Tutorial().ToggleMute()

	// Pointer
	case input.IntentMouseDown:
		r.mouseDown(intent.X, intent.Y)
	case input.IntentMouseUp:
		r.mouseUp(intent.X, intent.Y)
	case input.IntentMouseMove:
		r.mouseMove(intent.X, intent.Y)
	}
	return true
}

// removeTop pops the highest block that is not already popping
func (r *Router) removeTop(side core.Side) {
	ctrl := r.board.Side(side).Controller
	st := ctrl.State()
	for i := ctrl.Count() - 1; i >= 0; i-- {
		if !st.IsRemoving(i) {
			r.board.RemoveBlock(side, i)
			return
		}
	}
}

// tutorialNext advances, or replays the walkthrough once it has finished
func (r *Router) tutorialNext() {
	tut := r.board.Tutorial()
	if tut.Active() {
		tut.Next()
		return
	}
	tut.Start()
}

func (r *Router) tutorialView() board.TutorialView {
	tut := r.board.Tutorial()
	if !tut.Active() {
		return board.TutorialView{}
	}
	return board.TutorialView{
		Active: true,
		Step:   tut.Current(),
		Index:  tut.Index(),
		Len:    tut.Len(),
		Muted:  tut.Muted(),
		Button: tut.ButtonLabel(),
	}
}

func (r *Router) activate(t render.Target) {
	switch t.Kind {
	case render.TargetKeypadDigit:
		r.focus = t.Side
		r.board.Side(t.Side).Keypad.Press(t.Value)
	case render.TargetKeypadStep:
		r.focus = t.Side
		r.board.Side(t.Side).Keypad.Step(t.Value)
	case render.TargetAdd:
		r.focus = t.Side
		r.board.AddBlock(t.Side)
	case render.TargetOperator:
		r.board.Answer(t.Operator)
	case render.TargetLineMode:
		r.board.ToggleLineMode()
	case render.TargetTutorialNext:
		r.board.Tutorial().Next()
	case render.TargetTutorialMute:
		r.board.Tutorial().ToggleMute()
	}
}

func (r *Router) mouseDown(x, y int) {
	tut := r.tutorialView()
	if target := r.layout.HitTest(x, y, tut); target.Kind != render.TargetNone {
		r.activate(target)
		return
	}
	if tut.Active {
		return
	}

	p := render.CellPoint(x, y)
	if ep, ok := r.board.EndpointAt(p); ok && r.board.Connections().Mode() == connect.ModeDraw {
		r.downEndpoint, r.onEndpoint = ep, true
		r.board.PointerDown(ep)
		return
	}
	if key, ok := r.board.BlockAt(p); ok {
		r.focus = key.Side
		r.onBlock = true
		r.board.PressBlock(key.Side, key.Index)
	}
}

func (r *Router) mouseMove(x, y int) {
	p := render.CellPoint(x, y)
	r.board.PointerMove(p)
	if r.onBlock {
		key, ok := r.board.BlockAt(p)
		r.board.HoverBlock(key, ok)
	}
}

// mouseUp finishes a gesture: release on the pressed endpoint is a click,
// on another endpoint a drop, anywhere else a cancel
func (r *Router) mouseUp(x, y int) {
	if r.onBlock {
		r.onBlock = false
		r.board.ReleaseBlock()
	}
	if !r.onEndpoint {
		return
	}
	r.onEndpoint = false

	ep, ok := r.board.EndpointAt(render.CellPoint(x, y))
	switch {
	case ok && ep == r.downEndpoint:
		r.board.Click(ep)
	case ok:
		r.board.PointerUp(ep)
	default:
		r.board.PointerCancel()
	}
}

func (r *Router) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventStackFull,
		event.EventCorrectAnswer,
		event.EventIncorrectAnswer,
	}
}

// HandleEvent turns board feedback into status messages
func (r *Router) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.EventStackFull:
		r.message = "Stack Full! (" + ev.Side.String() + ")"
	case event.EventCorrectAnswer:
		r.message = "Correct! " + r.comparison(ev.Operator)
	case event.EventIncorrectAnswer:
		r.message = "Not quite, " + r.comparison(ev.Operator) + " is false"
	}
	r.logger.Debug("status", "msg", r.message)
}

func (r *Router) comparison(op string) string {
	left, right := r.board.Counts()
	return fmt.Sprintf("%d %s %d", left, op, right)
}

var _ event.Handler = (*Router)(nil)
