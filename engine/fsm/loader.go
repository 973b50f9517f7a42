package fsm

import (
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/blockcompare/event"
)

// LoadConfig parses a TOML graph and replaces the machine's nodes
// Every state, guard, action and trigger reference is validated
func (m *Machine[T]) LoadConfig(data []byte) error {
	var config RootConfig
	md, err := toml.Decode(string(data), &config)
	if err != nil {
		return errors.Wrap(err, "failed to decode FSM config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("unknown FSM config key %q", undecoded[0].String())
	}
	if config.States == nil {
		config.States = make(map[string]*StateConfig)
	}

	m.nodes = make(map[StateID]*Node[T])
	m.activeID = StateNone
	m.activePath = m.activePath[:0]

	m.addState(StateRoot, "Root", StateNone)
	nameToID := map[string]StateID{"Root": StateRoot}
	if _, ok := config.States["Root"]; !ok {
		config.States["Root"] = &StateConfig{}
	}

	// Sorted names keep IDs deterministic
	names := make([]string, 0, len(config.States))
	for name := range config.States {
		if name != "Root" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for i, name := range names {
		nameToID[name] = StateID(i + 2)
	}

	for _, name := range append([]string{"Root"}, names...) {
		cfg := config.States[name]
		id := nameToID[name]

		node := m.nodes[StateRoot]
		if id != StateRoot {
			parent := cfg.Parent
			if parent == "" {
				parent = "Root"
			}
			parentID, ok := nameToID[parent]
			if !ok {
				return errors.Errorf("state '%s' references unknown parent '%s'", name, parent)
			}
			node = m.addState(id, name, parentID)
		}

		if node.OnEnter, err = m.compileActions(cfg.OnEnter); err != nil {
			return errors.Wrapf(err, "state '%s' on_enter", name)
		}
		if node.OnExit, err = m.compileActions(cfg.OnExit); err != nil {
			return errors.Wrapf(err, "state '%s' on_exit", name)
		}
		if err := m.compileTransitions(node, cfg.Transitions, nameToID); err != nil {
			return errors.Wrapf(err, "state '%s' transitions", name)
		}
	}

	if err := m.compilePaths(); err != nil {
		return err
	}

	initialID, ok := nameToID[config.InitialState]
	if !ok {
		return errors.Errorf("initial state '%s' not found", config.InitialState)
	}
	m.InitialStateID = initialID
	return nil
}

// LoadConfigAuto loads the graph at path when set, else the embedded fallback
func LoadConfigAuto[T any](m *Machine[T], path, fallback string) error {
	if path == "" {
		return m.LoadConfig([]byte(fallback))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read FSM config %s", path)
	}
	return m.LoadConfig(data)
}

func (m *Machine[T]) addState(id StateID, name string, parentID StateID) *Node[T] {
	node := &Node[T]{
		ID:       id,
		Name:     name,
		ParentID: parentID,
	}
	m.nodes[id] = node
	return node
}

// compilePaths stores the Root..node path on every node
func (m *Machine[T]) compilePaths() error {
	for id, node := range m.nodes {
		path := make([]StateID, 0, 4)
		seen := make(map[StateID]bool)
		for curr := node; ; {
			if seen[curr.ID] {
				return errors.Errorf("state %d has a parent cycle", id)
			}
			seen[curr.ID] = true
			path = append(path, curr.ID)
			if curr.ParentID == StateNone {
				break
			}
			parent, ok := m.nodes[curr.ParentID]
			if !ok {
				return errors.Errorf("node %d references missing parent %d", id, curr.ParentID)
			}
			curr = parent
		}

		for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
			path[i], path[j] = path[j], path[i]
		}
		node.Path = path
	}
	return nil
}

func (m *Machine[T]) compileActions(configs []ActionConfig) ([]Action[T], error) {
	actions := make([]Action[T], 0, len(configs))
	for _, cfg := range configs {
		fn, ok := m.actionReg[cfg.Action]
		if !ok {
			return nil, errors.Errorf("unknown action function '%s'", cfg.Action)
		}
		actions = append(actions, Action[T]{Func: fn, Args: cfg.Args})
	}
	return actions, nil
}

func (m *Machine[T]) compileTransitions(node *Node[T], configs []TransitionConfig, nameToID map[string]StateID) error {
	for _, cfg := range configs {
		targetID, ok := nameToID[cfg.Target]
		if !ok {
			return errors.Errorf("transition references unknown target '%s'", cfg.Target)
		}

		et, ok := event.GetEventType(cfg.Trigger)
		if !ok {
			return errors.Errorf("unknown event type '%s'", cfg.Trigger)
		}

		var guard GuardFunc[T]
		if cfg.Guard != "" {
			if guard, ok = m.guardReg[cfg.Guard]; !ok {
				return errors.Errorf("unknown guard '%s'", cfg.Guard)
			}
		}

		actions, err := m.compileActions(cfg.Actions)
		if err != nil {
			return err
		}

		node.Transitions = append(node.Transitions, Transition[T]{
			TargetID: targetID,
			Event:    et,
			Guard:    guard,
			Actions:  actions,
		})
	}
	return nil
}
