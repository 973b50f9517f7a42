// Package input turns terminal events into board intents
package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System
	IntentQuit       // Ctrl+C, q
	IntentToggleMute // Ctrl+S
	IntentResize     // terminal resize

	// Side focus
	IntentFocusLeft   // h, Left
	IntentFocusRight  // l, Right
	IntentFocusToggle // Tab

	// Stack control on the focused side
	IntentAddBlock  // a, space
	IntentRemoveTop // x, Backspace
	IntentDigit     // 1-9, 0 for ten
	IntentIncrement // +, Up
	IntentDecrement // -, Down

	// Answers
	IntentAnswerLess    // <
	IntentAnswerEqual   // =
	IntentAnswerGreater // >

	// Lines and tutorial
	IntentToggleLines  // t
	IntentTutorialNext // Enter
	IntentTutorialMute // m

	// Pointer, X and Y carry the cell
	IntentMouseDown
	IntentMouseUp
	IntentMouseMove
)

// Intent is a parsed user action
type Intent struct {
	Type  IntentType
	Count int // digit value for IntentDigit
	X, Y  int // cell for pointer intents
}

// actionRegistry maps keymap action names to intents
var actionRegistry = map[string]IntentType{
	"none":          IntentNone,
	"quit":          IntentQuit,
	"toggle_mute":   IntentToggleMute,
	"focus_left":    IntentFocusLeft,
	"focus_right":   IntentFocusRight,
	"focus_toggle":  IntentFocusToggle,
	"add_block":     IntentAddBlock,
	"remove_top":    IntentRemoveTop,
	"increment":     IntentIncrement,
	"decrement":     IntentDecrement,
	"answer_less":   IntentAnswerLess,
	"answer_equal":  IntentAnswerEqual,
	"answer_more":   IntentAnswerGreater,
	"toggle_lines":  IntentToggleLines,
	"tutorial_next": IntentTutorialNext,
	"tutorial_mute": IntentTutorialMute,
}

// ActionName returns the keymap name of t
func ActionName(t IntentType) string {
	for name, it := range actionRegistry {
		if it == t {
			return name
		}
	}
	return ""
}
