package input

import "github.com/gdamore/tcell/v2"

// Machine converts tcell events to intents
// Mouse press and release are derived from the Button1 transition
type Machine struct {
	keys    *KeyTable
	buttons tcell.ButtonMask
}

// NewMachine creates a machine with the given key table, nil selects defaults
func NewMachine(keys *KeyTable) *Machine {
	if keys == nil {
		keys = DefaultKeyTable()
	}
	return &Machine{keys: keys}
}

// SetKeyTable swaps the active bindings
func (m *Machine) SetKeyTable(keys *KeyTable) {
	m.keys = keys
}

// Process returns the intent for ev, or nil when nothing applies
func (m *Machine) Process(ev tcell.Event) *Intent {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return m.processKey(e)
	case *tcell.EventMouse:
		return m.processMouse(e)
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	}
	return nil
}

func (m *Machine) processKey(ev *tcell.EventKey) *Intent {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r >= '0' && r <= '9' {
			n := int(r - '0')
			if n == 0 {
				n = 10
			}
			return &Intent{Type: IntentDigit, Count: n}
		}
		if it, ok := m.keys.Runes[r]; ok {
			return &Intent{Type: it}
		}
		return nil
	}
	if it, ok := m.keys.Keys[ev.Key()]; ok {
		return &Intent{Type: it}
	}
	return nil
}

func (m *Machine) processMouse(ev *tcell.EventMouse) *Intent {
	x, y := ev.Position()
	btn := ev.Buttons()
	was := m.buttons&tcell.Button1 != 0
	is := btn&tcell.Button1 != 0
	m.buttons = btn

	switch {
	case is && !was:
		return &Intent{Type: IntentMouseDown, X: x, Y: y}
	case !is && was:
		return &Intent{Type: IntentMouseUp, X: x, Y: y}
	default:
		return &Intent{Type: IntentMouseMove, X: x, Y: y}
	}
}
