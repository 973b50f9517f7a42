package render

import (
	"time"

	"github.com/google/uuid"

	"github.com/lixenwraith/blockcompare/board"
	"github.com/lixenwraith/blockcompare/core"
	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/event"
)

// Animator drops settled blocks into place and reports when they land
// Drops are keyed by marker token so renumbering during the fall is harmless
type Animator struct {
	board    *board.Board
	duration time.Duration
	drops    map[uuid.UUID]*drop
}

type drop struct {
	side  core.Side
	start time.Time
	timer *engine.Token
}

// NewAnimator creates an animator, register it on the board to receive events
func NewAnimator(b *board.Board, duration time.Duration) *Animator {
	return &Animator{
		board:    b,
		duration: duration,
		drops:    make(map[uuid.UUID]*drop),
	}
}

func (a *Animator) EventTypes() []event.EventType {
	return []event.EventType{event.EventAnimationStart, event.EventCountSettled}
}

func (a *Animator) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.EventAnimationStart:
		a.start(ev.Side, ev.Token)
	case event.EventCountSettled:
		a.prune(ev.Side)
	}
}

// start resolves the marker by token, a removal settling in the same tick may have renumbered it
func (a *Animator) start(side core.Side, token uuid.UUID) {
	if !a.live(side, token) {
		return
	}
	if a.duration <= 0 {
		a.board.CompleteAnimation(side, token)
		return
	}
	sched := a.board.Scheduler()
	a.drops[token] = &drop{
		side:  side,
		start: sched.Now(),
		timer: sched.After(a.duration, func() { a.land(token) }),
	}
}

func (a *Animator) land(token uuid.UUID) {
	d, ok := a.drops[token]
	if !ok {
		return
	}
	delete(a.drops, token)
	a.board.CompleteAnimation(d.side, token)
}

func (a *Animator) live(side core.Side, token uuid.UUID) bool {
	for _, m := range a.board.Side(side).Controller.State().PendingAdds {
		if m.Token == token {
			return true
		}
	}
	return false
}

// prune forgets drops whose markers were discarded by a direct count write
func (a *Animator) prune(side core.Side) {
	live := make(map[uuid.UUID]bool)
	for _, m := range a.board.Side(side).Controller.State().PendingAdds {
		live[m.Token] = true
	}
	for token, d := range a.drops {
		if d.side == side && !live[token] {
			d.timer.Cancel()
			delete(a.drops, token)
		}
	}
}

// Progress reports how far a block has fallen, 0 at the dispenser and 1 landed
// Returns false for markers that are not dropping
func (a *Animator) Progress(token uuid.UUID, now time.Time) (float64, bool) {
	d, ok := a.drops[token]
	if !ok {
		return 0, false
	}
	p := float64(now.Sub(d.start)) / float64(a.duration)
	return min(max(p, 0), 1), true
}

// Dropping returns the number of blocks in flight
func (a *Animator) Dropping() int {
	return len(a.drops)
}
