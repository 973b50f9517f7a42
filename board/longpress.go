package board

import (
	"time"

	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/parameter"
	"github.com/lixenwraith/blockcompare/stack"
)

// LongPress fires once a block has been held for the hold duration
// Releasing or leaving the block earlier cancels
type LongPress struct {
	sched *engine.Scheduler
	hold  time.Duration
	fire  func(key stack.MarkerKey)

	key     stack.MarkerKey
	token   *engine.Token
	started time.Time
}

// NewLongPress creates a detector calling fire on completion
func NewLongPress(sched *engine.Scheduler, hold time.Duration, fire func(key stack.MarkerKey)) *LongPress {
	if hold <= 0 {
		hold = parameter.LongPressDuration
	}
	return &LongPress{sched: sched, hold: hold, fire: fire}
}

// Press starts holding key, replacing any previous hold
func (l *LongPress) Press(key stack.MarkerKey) {
	l.token.Cancel()
	l.key = key
	l.started = l.sched.Now()
	l.token = l.sched.After(l.hold, func() {
		l.token = nil
		l.fire(key)
	})
}

// Release cancels a hold in progress
func (l *LongPress) Release() {
	l.token.Cancel()
	l.token = nil
}

// Leave cancels the hold when the pointer moves off key
func (l *LongPress) Leave(key stack.MarkerKey) {
	if l.Active() && l.key != key {
		l.Release()
	}
}

// Active reports whether a hold is running
func (l *LongPress) Active() bool {
	return l.token.Pending()
}

// Key returns the held block
func (l *LongPress) Key() stack.MarkerKey {
	return l.key
}

// Progress returns the hold fraction in [0, 1]
func (l *LongPress) Progress() float64 {
	if !l.Active() {
		return 0
	}
	p := float64(l.sched.Now().Sub(l.started)) / float64(l.hold)
	return min(max(p, 0), 1)
}
