package connect

import (
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/asset"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine/fsm"
	"github.com/lixenwraith/blockcompare/event"
	"github.com/lixenwraith/blockcompare/geometry"
	"github.com/lixenwraith/blockcompare/parameter"
)

// Options configures an Engine
type Options struct {
	Geometry geometry.Provider
	Metrics  geometry.Metrics
	Radius   float64
	Mode     Mode

	// GraphPath overrides the embedded interaction graph
	GraphPath string

	LeftCount, RightCount int

	Sink   event.Sink
	Logger *log.Logger
}

// Engine tracks endpoint connections and the pending interaction
// Interaction states come from a TOML graph run by fsm.Machine
type Engine struct {
	machine *fsm.Machine[*Engine]

	geo     geometry.Provider
	metrics geometry.Metrics
	radius  float64
	mode    Mode

	leftCount, rightCount int

	connections []Connection
	used        map[core.Endpoint]bool

	anchor     core.Endpoint
	anchored   bool
	pointer    core.Point
	hasPointer bool

	// input is the endpoint carried by the event being handled
	input core.Endpoint

	sink   event.Sink
	logger *log.Logger
}

// NewEngine loads the interaction graph and enters Idle
func NewEngine(opts Options) (*Engine, error) {
	if opts.Radius <= 0 {
		opts.Radius = parameter.EndpointRadius
	}
	if opts.Metrics.BlockHeight <= 0 {
		opts.Metrics = geometry.Metrics{BlockHeight: parameter.BlockHeight, BlockGap: parameter.BlockGap}
	}
	if opts.Sink == nil {
		opts.Sink = event.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	e := &Engine{
		machine:    fsm.NewMachine[*Engine](),
		geo:        opts.Geometry,
		metrics:    opts.Metrics,
		radius:     opts.Radius,
		mode:       opts.Mode,
		leftCount:  opts.LeftCount,
		rightCount: opts.RightCount,
		used:       make(map[core.Endpoint]bool),
		sink:       opts.Sink,
		logger:     logger.WithPrefix("connect"),
	}

	registerComponents(e.machine)
	e.machine.OnTransition = func(from, to string, trigger event.EventType) {
		e.logger.Debug("transition", "from", from, "to", to, "trigger", trigger)
	}

	if err := fsm.LoadConfigAuto(e.machine, opts.GraphPath, asset.ConnectionFSM); err != nil {
		return nil, errors.Wrap(err, "failed to load connection graph")
	}
	if err := e.machine.Init(e); err != nil {
		return nil, errors.Wrap(err, "failed to init connection graph")
	}
	return e, nil
}

// registerComponents binds the guard and action names used by the graph
func registerComponents(m *fsm.Machine[*Engine]) {
	m.RegisterGuard("InputUnused", func(e *Engine) bool {
		return !e.used[e.input]
	})
	m.RegisterGuard("InputIsAnchor", func(e *Engine) bool {
		return e.anchored && e.input == e.anchor
	})
	m.RegisterGuard("ValidConnection", func(e *Engine) bool {
		return e.anchored &&
			IsValidConnection(e.anchor, e.input) &&
			!e.used[e.anchor] && !e.used[e.input]
	})

	m.RegisterAction("Anchor", func(e *Engine, _ map[string]any) {
		e.anchor = e.input
		e.anchored = true
		e.pointer = e.Endpoints().At(e.anchor)
		e.hasPointer = true
	})
	m.RegisterAction("ClearAnchor", func(e *Engine, _ map[string]any) {
		e.anchored = false
		e.hasPointer = false
	})
	m.RegisterAction("Commit", func(e *Engine, _ map[string]any) {
		c := Connection{Start: e.anchor, End: e.input}
		e.connections = append(e.connections, c)
		e.used[c.Start] = true
		e.used[c.End] = true
		e.sink.Push(event.Event{Type: event.EventConnectionMade, From: c.Start, To: c.End})
	})
	m.RegisterAction("Reject", func(e *Engine, _ map[string]any) {
		e.logger.Debug("connection rejected", "from", e.anchor, "to", e.input)
	})
}

func (e *Engine) dispatch(et event.EventType, ep core.Endpoint) bool {
	if e.mode != ModeDraw {
		return false
	}
	e.input = ep
	return e.machine.HandleEvent(e, et)
}

// PointerDown starts a drag from ep
func (e *Engine) PointerDown(ep core.Endpoint) bool {
	return e.dispatch(event.EventPointerDown, ep)
}

// PointerUp ends a drag over ep, committing when the pair is valid
func (e *Engine) PointerUp(ep core.Endpoint) bool {
	return e.dispatch(event.EventPointerUp, ep)
}

// PointerCancel ends a drag away from any endpoint
func (e *Engine) PointerCancel() bool {
	return e.dispatch(event.EventPointerCancel, 0)
}

// Click selects ep, or completes a selection started on another endpoint
func (e *Engine) Click(ep core.Endpoint) bool {
	return e.dispatch(event.EventClick, ep)
}

// PointerMove updates the preview end while an endpoint is anchored
func (e *Engine) PointerMove(p core.Point) {
	if e.mode != ModeDraw || !e.anchored {
		return
	}
	e.pointer = p
	e.hasPointer = true
}

// Reset drops every connection and any pending interaction
func (e *Engine) Reset() {
	changed := len(e.connections) > 0 || e.anchored

	e.connections = e.connections[:0]
	clear(e.used)
	if e.machine.Current() != "Idle" {
		if err := e.machine.Reset(e); err != nil {
			e.logger.Error("reset failed", "err", err)
		}
	}
	e.anchored = false
	e.hasPointer = false

	if changed {
		e.sink.Push(event.Event{Type: event.EventConnectionsCleared})
	}
}

// SetCounts updates the stack heights, any change invalidates the connections
func (e *Engine) SetCounts(left, right int) {
	if left == e.leftCount && right == e.rightCount {
		return
	}
	e.leftCount, e.rightCount = left, right
	e.Reset()
}

// SetMode switches between show and draw, abandoning a pending interaction
func (e *Engine) SetMode(m Mode) {
	if m == e.mode {
		return
	}
	e.mode = m
	if e.machine.Current() != "Idle" {
		if err := e.machine.Reset(e); err != nil {
			e.logger.Error("reset failed", "err", err)
		}
	}
}

// Mode returns the line mode
func (e *Engine) Mode() Mode {
	return e.mode
}

// State returns the interaction state
func (e *Engine) State() State {
	return stateByName[e.machine.Current()]
}

// Anchor returns the selected or dragged endpoint
func (e *Engine) Anchor() (core.Endpoint, bool) {
	return e.anchor, e.anchored
}

// IsUsed reports whether ep belongs to a committed connection
func (e *Engine) IsUsed(ep core.Endpoint) bool {
	return e.used[ep]
}

// Connections returns a copy of the committed connections
func (e *Engine) Connections() []Connection {
	out := make([]Connection, len(e.connections))
	copy(out, e.connections)
	return out
}

// Endpoints computes the anchor coordinates for the current counts
func (e *Engine) Endpoints() geometry.Endpoints {
	return geometry.Compute(e.geo, e.metrics, e.leftCount, e.rightCount)
}

// EndpointAt hit-tests p against the four anchors
func (e *Engine) EndpointAt(p core.Point) (core.Endpoint, bool) {
	return e.Endpoints().Nearest(p, e.radius)
}

// Lines returns the segments to draw for the current mode
func (e *Engine) Lines() []Line {
	pts := e.Endpoints()

	if e.mode == ModeShow {
		return []Line{
			{From: pts.At(core.LeftTop), To: pts.At(core.RightTop)},
			{From: pts.At(core.LeftBottom), To: pts.At(core.RightBottom)},
		}
	}

	lines := make([]Line, 0, len(e.connections)+1)
	for _, c := range e.connections {
		lines = append(lines, Line{From: pts.At(c.Start), To: pts.At(c.End)})
	}
	if e.anchored && e.hasPointer {
		lines = append(lines, Line{From: pts.At(e.anchor), To: e.pointer, Dashed: true})
	}
	return lines
}
