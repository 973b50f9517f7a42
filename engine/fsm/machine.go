package fsm

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/event"
)

// NewMachine creates an empty machine
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		nodes:     make(map[StateID]*Node[T]),
		guardReg:  make(map[string]GuardFunc[T]),
		actionReg: make(map[string]ActionFunc[T]),
	}
}

// RegisterGuard adds a predicate to the registry, must precede LoadConfig
func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) {
	m.guardReg[name] = fn
}

// RegisterAction adds a side effect to the registry, must precede LoadConfig
func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) {
	m.actionReg[name] = fn
}

// Init enters the initial state, running OnEnter from Root down
func (m *Machine[T]) Init(ctx T) error {
	node, ok := m.nodes[m.InitialStateID]
	if !ok {
		return errors.Errorf("initial state ID %d not found", m.InitialStateID)
	}

	m.activeID = node.ID
	m.activePath = append(m.activePath[:0], node.Path...)

	for _, id := range m.activePath {
		runActions(ctx, m.nodes[id].OnEnter)
	}
	return nil
}

// Update evaluates Tick transitions, bubbling from leaf to root
func (m *Machine[T]) Update(ctx T) bool {
	return m.HandleEvent(ctx, event.EventTick)
}

// HandleEvent offers an event to the active leaf and its ancestors
// Returns true if a transition fired
func (m *Machine[T]) HandleEvent(ctx T, et event.EventType) bool {
	if m.activeID == StateNone {
		return false
	}

	for currID := m.activeID; currID != StateNone; {
		node := m.nodes[currID]
		for i := range node.Transitions {
			trans := &node.Transitions[i]
			if trans.Event != et {
				continue
			}
			if trans.Guard == nil || trans.Guard(ctx) {
				m.transition(ctx, trans, et)
				return true
			}
		}
		currID = node.ParentID
	}
	return false
}

// transition exits up to the LCA, runs transition actions, then enters down to the target
// A self transition runs its actions without exit or enter
func (m *Machine[T]) transition(ctx T, trans *Transition[T], et event.EventType) {
	from := m.activeID
	target, ok := m.nodes[trans.TargetID]
	if !ok {
		panic(fmt.Sprintf("FSM: transition to unknown state ID %d", trans.TargetID))
	}

	if from == trans.TargetID {
		runActions(ctx, trans.Actions)
		return
	}

	lca := -1
	for i := 0; i < len(m.activePath) && i < len(target.Path); i++ {
		if m.activePath[i] != target.Path[i] {
			break
		}
		lca = i
	}

	for i := len(m.activePath) - 1; i > lca; i-- {
		runActions(ctx, m.nodes[m.activePath[i]].OnExit)
	}

	runActions(ctx, trans.Actions)

	for i := lca + 1; i < len(target.Path); i++ {
		runActions(ctx, m.nodes[target.Path[i]].OnEnter)
	}

	m.activeID = target.ID
	m.activePath = append(m.activePath[:0], target.Path...)

	if m.OnTransition != nil {
		m.OnTransition(m.nodes[from].Name, target.Name, et)
	}
}

// Reset exits every active state and re-enters the initial state
func (m *Machine[T]) Reset(ctx T) error {
	for i := len(m.activePath) - 1; i >= 0; i-- {
		runActions(ctx, m.nodes[m.activePath[i]].OnExit)
	}
	m.activeID = StateNone
	m.activePath = m.activePath[:0]
	return m.Init(ctx)
}

// Current returns the active leaf name, empty before Init
func (m *Machine[T]) Current() string {
	if node, ok := m.nodes[m.activeID]; ok {
		return node.Name
	}
	return ""
}

// CurrentID returns the active leaf
func (m *Machine[T]) CurrentID() StateID {
	return m.activeID
}

// InState reports whether name is the active leaf or one of its ancestors
func (m *Machine[T]) InState(name string) bool {
	for _, id := range m.activePath {
		if m.nodes[id].Name == name {
			return true
		}
	}
	return false
}

// GetStateID resolves a state name
func (m *Machine[T]) GetStateID(name string) (StateID, bool) {
	for id, node := range m.nodes {
		if node.Name == name {
			return id, true
		}
	}
	return StateNone, false
}

func runActions[T any](ctx T, actions []Action[T]) {
	for _, a := range actions {
		a.Func(ctx, a.Args)
	}
}
