// Package board composes both stacks, the connection engine, the comparator and the
// tutorial into one session driven by a single scheduler
package board

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/compare"
	"github.com/lixenwraith/blockcompare/connect"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/event"
	"github.com/lixenwraith/blockcompare/geometry"
	"github.com/lixenwraith/blockcompare/parameter"
	"github.com/lixenwraith/blockcompare/stack"
	"github.com/lixenwraith/blockcompare/tutorial"
)

// Options configures a Board
type Options struct {
	MaxBlocks    int
	InitialLeft  int
	InitialRight int

	AddSettle         time.Duration
	RemoveSettle      time.Duration
	SequenceStep      time.Duration
	DispenseAnimation time.Duration
	FeedbackFlash     time.Duration
	IncorrectFlash    time.Duration
	LongPress         time.Duration

	Metrics        geometry.Metrics
	EndpointRadius float64
	LineMode       connect.Mode
	GraphPath      string

	// ManualDispense leaves dispense completion to the render layer
	ManualDispense bool

	Tutorial bool
	Narrator tutorial.Narrator

	Geometry geometry.Provider
	Clock    engine.TimeProvider
	Logger   *log.Logger
}

// DefaultOptions returns the stock timings and sizes
func DefaultOptions() Options {
	return Options{
		MaxBlocks:         parameter.MaxBlocks,
		InitialLeft:       parameter.InitialCount,
		InitialRight:      parameter.InitialCount,
		AddSettle:         parameter.AddSettle,
		RemoveSettle:      parameter.RemoveSettle,
		SequenceStep:      parameter.SequenceStep,
		DispenseAnimation: parameter.DispenseAnimation,
		FeedbackFlash:     parameter.FeedbackFlash,
		IncorrectFlash:    parameter.IncorrectFlash,
		LongPress:         parameter.LongPressDuration,
		Metrics:           geometry.Metrics{BlockHeight: parameter.BlockHeight, BlockGap: parameter.BlockGap},
		EndpointRadius:    parameter.EndpointRadius,
		LineMode:          connect.ModeShow,
	}
}

// Side bundles the per-side components
type Side struct {
	Controller *stack.Controller
	Dispenser  *stack.Dispenser
	Sequencer  *stack.Sequencer
	Keypad     *Keypad
}

// Board is one comparison session, owned by a single goroutine
type Board struct {
	opts   Options
	sched  *engine.Scheduler
	queue  *event.Queue
	router *event.Router
	logger *log.Logger

	sides [2]*Side
	conn  *connect.Engine
	cmp   *compare.Comparator
	tut   *tutorial.Tutorial
	press *LongPress
}

// New builds a board, starting the tutorial when enabled
func New(opts Options) (*Board, error) {
	if opts.MaxBlocks <= 0 {
		return nil, errors.Errorf("max blocks must be positive, got %d", opts.MaxBlocks)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	opts.InitialLeft = min(max(opts.InitialLeft, 0), opts.MaxBlocks)
	opts.InitialRight = min(max(opts.InitialRight, 0), opts.MaxBlocks)

	b := &Board{
		opts:   opts,
		sched:  engine.NewScheduler(opts.Clock),
		queue:  event.NewQueue(),
		logger: opts.Logger.WithPrefix("board"),
	}
	b.router = event.NewRouter(b.queue)

	conn, err := connect.NewEngine(connect.Options{
		Geometry:   opts.Geometry,
		Metrics:    opts.Metrics,
		Radius:     opts.EndpointRadius,
		Mode:       opts.LineMode,
		GraphPath:  opts.GraphPath,
		LeftCount:  opts.InitialLeft,
		RightCount: opts.InitialRight,
		Sink:       b,
		Logger:     opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	b.conn = conn

	for _, side := range core.Sides {
		initial := opts.InitialLeft
		if side == core.SideRight {
			initial = opts.InitialRight
		}
		b.sides[side] = b.newSide(side, initial)
	}

	b.cmp = compare.NewComparator(b.sched, b.Counts, b, opts.FeedbackFlash, opts.IncorrectFlash, opts.Logger)
	b.press = NewLongPress(b.sched, opts.LongPress, func(key stack.MarkerKey) {
		b.logger.Debug("long press", "side", key.Side, "index", key.Index)
		b.RemoveBlock(key.Side, key.Index)
	})
	b.tut = tutorial.New(nil, opts.Narrator, b)
	if opts.Tutorial {
		b.tut.Start()
	}

	return b, nil
}

func (b *Board) newSide(side core.Side, initial int) *Side {
	ctrl := stack.NewController(b.sched, stack.ControllerOptions{
		Side:         side,
		InitialCount: initial,
		AddSettle:    b.opts.AddSettle,
		RemoveSettle: b.opts.RemoveSettle,
		Sink:         b,
		Logger:       b.opts.Logger,
	})
	s := &Side{
		Controller: ctrl,
		Dispenser:  stack.NewDispenser(ctrl, b.sched, b.opts.DispenseAnimation, b.opts.ManualDispense),
		Sequencer:  stack.NewSequencer(ctrl, b.sched, b.opts.SequenceStep, b.opts.MaxBlocks, b.opts.Logger),
	}
	s.Keypad = NewKeypad(initial, b.opts.MaxBlocks, func(n int) { s.Sequencer.SetTarget(n) })

	ctrl.OnCountChange(func(count, _ int) {
		s.Keypad.Sync(count)
		left, right := b.Counts()
		b.conn.SetCounts(left, right)
	})
	return s
}

// Push stamps ev with the scheduler time and queues it
func (b *Board) Push(ev event.Event) {
	if ev.At.IsZero() {
		ev.At = b.sched.Now()
	}
	b.queue.Push(ev)
}

// OnCorrect and OnIncorrect turn comparator outcomes into events
func (b *Board) OnCorrect(op compare.Operator) {
	b.Push(event.Event{Type: event.EventCorrectAnswer, Operator: op.String()})
}

func (b *Board) OnIncorrect(op compare.Operator) {
	b.Push(event.Event{Type: event.EventIncorrectAnswer, Operator: op.String()})
}

// Register adds an event handler, dispatched from Tick
func (b *Board) Register(h event.Handler) {
	b.router.Register(h)
}

// Tick fires due callbacks and dispatches the resulting events
func (b *Board) Tick() {
	b.sched.RunDue()
	b.router.DispatchAll()
}

// Scheduler exposes the board clock for render timing
func (b *Board) Scheduler() *engine.Scheduler {
	return b.sched
}

// Side returns the components of one side
func (b *Board) Side(side core.Side) *Side {
	return b.sides[side]
}

// Counts returns the settled counts
func (b *Board) Counts() (left, right int) {
	left = b.sides[core.SideLeft].Controller.Count()
	right = b.sides[core.SideRight].Controller.Count()
	return left, right
}

// Connections exposes the connection engine
func (b *Board) Connections() *connect.Engine {
	return b.conn
}

// Tutorial exposes the tutorial
func (b *Board) Tutorial() *tutorial.Tutorial {
	return b.tut
}

// MaxBlocks returns the stack capacity
func (b *Board) MaxBlocks() int {
	return b.opts.MaxBlocks
}

// AddBlock dispenses one block, refused at capacity or while dispensing
func (b *Board) AddBlock(side core.Side) bool {
	s := b.sides[side]
	if s.Controller.Projected() >= b.opts.MaxBlocks {
		b.Push(event.Event{Type: event.EventStackFull, Side: side, Count: s.Controller.Count()})
		return false
	}
	return s.Controller.RequestAdd()
}

// Full reports whether another add would exceed capacity
func (b *Board) Full(side core.Side) bool {
	return b.sides[side].Controller.Projected() >= b.opts.MaxBlocks
}

// RemoveBlock pops the block at index and drops the count once it settles
// Indices outside the stack or already popping are ignored
func (b *Board) RemoveBlock(side core.Side, index int) bool {
	ctrl := b.sides[side].Controller
	if index < 0 || index >= ctrl.Count() || ctrl.State().IsRemoving(index) {
		return false
	}
	ctrl.RequestRemove(index, true)
	return true
}

// SetTarget walks a side to n blocks
func (b *Board) SetTarget(side core.Side, n int) {
	s := b.sides[side]
	n = min(max(n, 0), b.opts.MaxBlocks)
	s.Keypad.Sync(n)
	s.Sequencer.SetTarget(n)
}

// Answer checks "left op right"
func (b *Board) Answer(op compare.Operator) bool {
	return b.cmp.Check(op)
}

// Flash returns the answer highlight
func (b *Board) Flash() compare.Flash {
	return b.cmp.Flash()
}

// SetLineMode switches between show and draw lines
func (b *Board) SetLineMode(m connect.Mode) {
	b.conn.SetMode(m)
}

// ToggleLineMode flips the line mode
func (b *Board) ToggleLineMode() connect.Mode {
	if b.conn.Mode() == connect.ModeShow {
		b.conn.SetMode(connect.ModeDraw)
	} else {
		b.conn.SetMode(connect.ModeShow)
	}
	return b.conn.Mode()
}

func (b *Board) PointerDown(ep core.Endpoint) bool { return b.conn.PointerDown(ep) }
func (b *Board) PointerUp(ep core.Endpoint) bool   { return b.conn.PointerUp(ep) }
func (b *Board) Click(ep core.Endpoint) bool       { return b.conn.Click(ep) }
func (b *Board) PointerCancel() bool               { return b.conn.PointerCancel() }
func (b *Board) PointerMove(p core.Point)          { b.conn.PointerMove(p) }

// EndpointAt hit-tests an overlay position against the anchors
func (b *Board) EndpointAt(p core.Point) (core.Endpoint, bool) {
	return b.conn.EndpointAt(p)
}

// BlockAt hit-tests an overlay position against the settled blocks
func (b *Board) BlockAt(p core.Point) (stack.MarkerKey, bool) {
	for _, side := range core.Sides {
		count := b.sides[side].Controller.Count()
		for i := 0; i < count; i++ {
			if geometry.BlockRect(b.opts.Geometry, b.opts.Metrics, side, i).Contains(p) {
				return stack.MarkerKey{Side: side, Index: i}, true
			}
		}
	}
	return stack.MarkerKey{}, false
}

// PressBlock starts a long press on a block
func (b *Board) PressBlock(side core.Side, index int) {
	b.press.Press(stack.MarkerKey{Side: side, Index: index})
}

// HoverBlock cancels a long press once the pointer leaves the held block
func (b *Board) HoverBlock(key stack.MarkerKey, onBlock bool) {
	if !onBlock {
		b.press.Release()
		return
	}
	b.press.Leave(key)
}

// ReleaseBlock ends a long press
func (b *Board) ReleaseBlock() {
	b.press.Release()
}

// AnimationComplete is the render signal that the block now at index landed
func (b *Board) AnimationComplete(side core.Side, index int) {
	ctrl := b.sides[side].Controller
	if m, ok := ctrl.MarkerAt(index); ok {
		ctrl.AnimationComplete(m.Token)
	}
}

// CompleteAnimation lands the block whose Adding marker carries token
// A stale token is ignored
func (b *Board) CompleteAnimation(side core.Side, token uuid.UUID) bool {
	return b.sides[side].Controller.AnimationComplete(token)
}

// DispenseComplete is the render signal that the dispenser finished
func (b *Board) DispenseComplete(side core.Side) {
	b.sides[side].Dispenser.Complete()
}
