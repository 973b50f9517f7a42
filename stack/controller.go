package stack

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/event"
	"github.com/lixenwraith/blockcompare/parameter"
)

// DispenseStarter is notified when an add begins dispensing
type DispenseStarter interface {
	Start()
}

// ControllerOptions configures a Controller
type ControllerOptions struct {
	Side         core.Side
	InitialCount int
	AddSettle    time.Duration
	RemoveSettle time.Duration
	Sink         event.Sink
	Logger       *log.Logger
}

// Controller is the only writer of a side's State
// All methods run on the scheduler goroutine
type Controller struct {
	state  *State
	sched  *engine.Scheduler
	sink   event.Sink
	logger *log.Logger

	addSettle    time.Duration
	removeSettle time.Duration

	// generation is bumped by SetCount, settles from older generations leave count alone
	generation uint64
	adds       []*pendingAdd
	removals   []*pendingRemoval

	// seq orders marker creation, a removal only moves markers older than itself
	seq uint64

	dispenser DispenseStarter
	listeners []func(count, previous int)
}

type pendingAdd struct {
	index int
	gen   uint64
	seq   uint64
	token uuid.UUID
}

type pendingRemoval struct {
	index   int
	counted bool
	gen     uint64
	seq     uint64
	token   uuid.UUID
}

// NewController creates a controller over a fresh State
func NewController(sched *engine.Scheduler, opts ControllerOptions) *Controller {
	if opts.AddSettle <= 0 {
		opts.AddSettle = parameter.AddSettle
	}
	if opts.RemoveSettle <= 0 {
		opts.RemoveSettle = parameter.RemoveSettle
	}
	if opts.Sink == nil {
		opts.Sink = event.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Controller{
		state:        NewState(opts.Side, opts.InitialCount),
		sched:        sched,
		sink:         opts.Sink,
		logger:       logger.WithPrefix("stack." + opts.Side.String()),
		addSettle:    opts.AddSettle,
		removeSettle: opts.RemoveSettle,
	}
}

// SetDispenser attaches the dispensing mechanism
func (c *Controller) SetDispenser(d DispenseStarter) {
	c.dispenser = d
}

// OnCountChange registers a listener called after every count change
func (c *Controller) OnCountChange(fn func(count, previous int)) {
	c.listeners = append(c.listeners, fn)
}

// State exposes the live state, callers must not mutate it
func (c *Controller) State() *State {
	return c.state
}

// Side returns the side this controller owns
func (c *Controller) Side() core.Side {
	return c.state.Side
}

// Count returns the authoritative count
func (c *Controller) Count() int {
	return c.state.Count
}

// Dispensing reports whether adds are currently refused
func (c *Controller) Dispensing() bool {
	return c.state.Dispensing
}

// Projected returns the count once every in-flight settle has landed
func (c *Controller) Projected() int {
	n := c.state.Count
	for _, a := range c.adds {
		if a.gen == c.generation {
			n++
		}
	}
	for _, r := range c.removals {
		if r.counted && r.gen == c.generation {
			n--
		}
	}
	return n
}

// RequestAdd starts dispensing a block, refused while a dispense is running
// The count increments once the add settles
func (c *Controller) RequestAdd() bool {
	if c.state.Dispensing {
		return false
	}

	c.state.Dispensing = true
	index := c.Projected()
	now := c.sched.Now()

	c.seq++
	p := &pendingAdd{index: index, gen: c.generation, seq: c.seq, token: uuid.New()}
	c.adds = append(c.adds, p)
	c.state.PendingAdds[index] = Marker{
		Key:     MarkerKey{Side: c.state.Side, Index: index},
		Kind:    MarkerAdding,
		Token:   p.token,
		Seq:     p.seq,
		Created: now,
	}

	c.logger.Debug("add requested", "index", index, "count", c.state.Count)
	c.sink.Push(event.Event{
		Type:  event.EventAddRequested,
		Side:  c.state.Side,
		Index: index,
		Count: c.state.Count,
		Token: p.token,
		At:    now,
	})

	if c.dispenser != nil {
		c.dispenser.Start()
	}

	c.sched.After(c.addSettle, func() { c.settleAdd(p) })
	return true
}

// DispenseComplete re-enables adds
func (c *Controller) DispenseComplete() {
	if !c.state.Dispensing {
		return
	}
	c.state.Dispensing = false
	c.sink.Push(event.Event{
		Type:  event.EventDispenseComplete,
		Side:  c.state.Side,
		Count: c.state.Count,
		At:    c.sched.Now(),
	})
}

func (c *Controller) settleAdd(p *pendingAdd) {
	c.adds = removeAdd(c.adds, p)

	if p.gen != c.generation {
		// Superseded by SetCount, the slot no longer exists
		if m, ok := c.state.PendingAdds[p.index]; ok && m.Token == p.token {
			delete(c.state.PendingAdds, p.index)
		}
		c.logger.Debug("add settle superseded", "index", p.index)
		return
	}

	c.setCount(c.state.Count + 1)
	c.sink.Push(event.Event{
		Type:  event.EventAnimationStart,
		Side:  c.state.Side,
		Index: p.index,
		Count: c.state.Count,
		Token: p.token,
		At:    c.sched.Now(),
	})
}

// AnimationComplete drops the Adding marker created with token once the block has landed
// Returns false when no marker carries the token
func (c *Controller) AnimationComplete(token uuid.UUID) bool {
	for idx, m := range c.state.PendingAdds {
		if m.Token == token {
			delete(c.state.PendingAdds, idx)
			return true
		}
	}
	return false
}

// MarkerAt returns the Adding marker currently at index
func (c *Controller) MarkerAt(index int) (Marker, bool) {
	m, ok := c.state.PendingAdds[index]
	return m, ok
}

// RequestRemove starts the pop animation of index
// When shouldUpdateCount is set the count drops once the removal settles
func (c *Controller) RequestRemove(index int, shouldUpdateCount bool) {
	now := c.sched.Now()
	c.seq++
	r := &pendingRemoval{
		index:   index,
		counted: shouldUpdateCount,
		gen:     c.generation,
		seq:     c.seq,
		token:   uuid.New(),
	}
	c.removals = append(c.removals, r)
	c.state.PendingRemovals[index] = Marker{
		Key:     MarkerKey{Side: c.state.Side, Index: index},
		Kind:    MarkerRemoving,
		Token:   r.token,
		Seq:     r.seq,
		Created: now,
	}

	c.logger.Debug("remove requested", "index", index, "counted", shouldUpdateCount)
	c.sink.Push(event.Event{
		Type:    event.EventRemoveRequested,
		Side:    c.state.Side,
		Index:   index,
		Count:   c.state.Count,
		Counted: shouldUpdateCount,
		Token:   r.token,
		At:      now,
	})

	c.sched.After(c.removeSettle, func() { c.settleRemove(r) })
}

func (c *Controller) settleRemove(r *pendingRemoval) {
	removed := r.index
	c.removals = removeRemoval(c.removals, r)

	// Adds requested after this removal were indexed against the count it already accounts for
	adds := make(map[int]Marker, len(c.state.PendingAdds))
	var newer []Marker
	for idx, m := range c.state.PendingAdds {
		switch {
		case m.Seq > r.seq:
			newer = append(newer, m)
		case idx < removed:
			adds[idx] = m
		case idx > removed:
			m.Key.Index = idx - 1
			adds[idx-1] = m
		}
	}
	for _, m := range newer {
		adds[m.Key.Index] = m
	}
	c.state.PendingAdds = adds

	for _, a := range c.adds {
		if a.seq < r.seq && a.index > removed {
			a.index--
		}
	}

	// Removal marks are rebuilt from the surviving records so their indices shift together
	removals := make(map[int]Marker, len(c.removals))
	for _, o := range c.removals {
		m := c.markerFor(o)
		if o.index > removed {
			o.index--
			m.Key.Index = o.index
		}
		removals[o.index] = m
	}
	c.state.PendingRemovals = removals

	if r.counted && r.gen == c.generation && c.state.Count > 0 {
		c.setCount(c.state.Count - 1)
	}
}

func (c *Controller) markerFor(r *pendingRemoval) Marker {
	if m, ok := c.state.PendingRemovals[r.index]; ok && m.Token == r.token {
		return m
	}
	return Marker{
		Key:     MarkerKey{Side: c.state.Side, Index: r.index},
		Kind:    MarkerRemoving,
		Token:   r.token,
		Seq:     r.seq,
		Created: c.sched.Now(),
	}
}

// SetCount writes count directly, used for batch targets
// In-flight settles issued before the call no longer change the count
func (c *Controller) SetCount(n int) {
	c.generation++
	if n != c.state.Count {
		c.setCount(n)
	}
}

func (c *Controller) setCount(n int) {
	prev := c.state.Count
	c.state.Count = n

	c.logger.Debug("count settled", "count", n, "previous", prev)
	c.sink.Push(event.Event{
		Type:     event.EventCountSettled,
		Side:     c.state.Side,
		Count:    n,
		Previous: prev,
		At:       c.sched.Now(),
	})

	for _, fn := range c.listeners {
		fn(n, prev)
	}
}

func removeAdd(list []*pendingAdd, p *pendingAdd) []*pendingAdd {
	for i, a := range list {
		if a == p {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func removeRemoval(list []*pendingRemoval, r *pendingRemoval) []*pendingRemoval {
	for i, o := range list {
		if o == r {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
