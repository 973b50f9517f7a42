// Package compare evaluates answers and owns the answer highlight
package compare

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/parameter"
)

// Operator is one of the three comparison signs
type Operator uint8

const (
	OpLess Operator = iota
	OpEqual
	OpGreater
)

// Operators lists the signs in display order
var Operators = [3]Operator{OpLess, OpEqual, OpGreater}

func (o Operator) String() string {
	switch o {
	case OpLess:
		return "<"
	case OpEqual:
		return "="
	case OpGreater:
		return ">"
	default:
		return "?"
	}
}

// ParseOperator accepts the sign or its word form
func ParseOperator(s string) (Operator, bool) {
	switch s {
	case "<", "lt", "less":
		return OpLess, true
	case "=", "==", "eq", "equal":
		return OpEqual, true
	case ">", "gt", "greater":
		return OpGreater, true
	}
	return 0, false
}

// Evaluate reports whether "left op right" holds
// Unknown operators evaluate to false
func Evaluate(left, right int, op Operator) bool {
	switch op {
	case OpLess:
		return left < right
	case OpEqual:
		return left == right
	case OpGreater:
		return left > right
	default:
		return false
	}
}

// Flash is the transient answer highlight
type Flash uint8

const (
	FlashNone Flash = iota
	FlashCorrect
	FlashIncorrect
)

func (f Flash) String() string {
	switch f {
	case FlashCorrect:
		return "correct"
	case FlashIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// Feedback receives answer outcomes
type Feedback interface {
	OnCorrect(op Operator)
	OnIncorrect(op Operator)
}

// Counts returns the current left and right counts
type Counts func() (left, right int)

// Comparator checks answers against live counts and times the highlight
type Comparator struct {
	sched    *engine.Scheduler
	counts   Counts
	feedback Feedback
	logger   *log.Logger

	correctHold   time.Duration
	incorrectHold time.Duration

	flash Flash
	op    Operator
	clear *engine.Token
}

// NewComparator creates a comparator, zero holds take the defaults
func NewComparator(sched *engine.Scheduler, counts Counts, feedback Feedback, correctHold, incorrectHold time.Duration, logger *log.Logger) *Comparator {
	if correctHold <= 0 {
		correctHold = parameter.FeedbackFlash
	}
	if incorrectHold <= 0 {
		incorrectHold = parameter.IncorrectFlash
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Comparator{
		sched:         sched,
		counts:        counts,
		feedback:      feedback,
		logger:        logger.WithPrefix("compare"),
		correctHold:   correctHold,
		incorrectHold: incorrectHold,
	}
}

// Check evaluates op, notifies feedback and starts the highlight
// A newer check replaces the pending clear of an older one
func (c *Comparator) Check(op Operator) bool {
	left, right := c.counts()
	ok := Evaluate(left, right, op)

	c.clear.Cancel()
	c.op = op
	hold := c.incorrectHold
	if ok {
		c.flash = FlashCorrect
		hold = c.correctHold
	} else {
		c.flash = FlashIncorrect
	}

	c.logger.Debug("answer", "left", left, "op", op, "right", right, "correct", ok)
	if c.feedback != nil {
		if ok {
			c.feedback.OnCorrect(op)
		} else {
			c.feedback.OnIncorrect(op)
		}
	}

	c.clear = c.sched.After(hold, func() {
		c.flash = FlashNone
		c.clear = nil
	})
	return ok
}

// Flash returns the current highlight
func (c *Comparator) Flash() Flash {
	return c.flash
}

// Operator returns the operator of the most recent check
func (c *Comparator) Operator() Operator {
	return c.op
}
