package board

// Keypad is a side's number pad
// The display follows the count but jumps ahead immediately on input
type Keypad struct {
	value    int
	max      int
	disabled bool
	onChange func(n int)
}

// NewKeypad creates a keypad showing value
func NewKeypad(value, max int, onChange func(n int)) *Keypad {
	return &Keypad{value: value, max: max, onChange: onChange}
}

// Press selects n, values above the maximum are ignored
func (k *Keypad) Press(n int) bool {
	if k.disabled || n < 0 || n > k.max {
		return false
	}
	k.set(n)
	return true
}

// Step moves the display by delta, staying within [0, max]
func (k *Keypad) Step(delta int) bool {
	if k.disabled {
		return false
	}
	n := k.value + delta
	if n < 0 || n > k.max {
		return false
	}
	k.set(n)
	return true
}

func (k *Keypad) set(n int) {
	k.value = n
	if k.onChange != nil {
		k.onChange(n)
	}
}

// Sync shows a settled count without triggering a change
func (k *Keypad) Sync(count int) {
	k.value = count
}

// SetDisabled blocks input
func (k *Keypad) SetDisabled(disabled bool) {
	k.disabled = disabled
}

// Disabled reports whether input is blocked
func (k *Keypad) Disabled() bool { return k.disabled }

// Value returns the displayed number
func (k *Keypad) Value() int { return k.value }

// Max returns the largest selectable number
func (k *Keypad) Max() int { return k.max }
