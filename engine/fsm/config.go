package fsm

// RootConfig is the top-level graph document
type RootConfig struct {
	InitialState string                  `toml:"initial"`
	States       map[string]*StateConfig `toml:"states"`
}

// StateConfig is a single state definition
type StateConfig struct {
	Parent      string             `toml:"parent,omitempty"`
	OnEnter     []ActionConfig     `toml:"on_enter,omitempty"`
	OnExit      []ActionConfig     `toml:"on_exit,omitempty"`
	Transitions []TransitionConfig `toml:"transitions,omitempty"`
}

// TransitionConfig is a transition definition
type TransitionConfig struct {
	Trigger string         `toml:"trigger"`           // event name or "Tick"
	Target  string         `toml:"target"`            // state name
	Guard   string         `toml:"guard,omitempty"`   // registered guard name
	Actions []ActionConfig `toml:"actions,omitempty"` // transition effects
}

// ActionConfig is an action reference
type ActionConfig struct {
	Action string         `toml:"action"`
	Args   map[string]any `toml:"args,omitempty"`
}
