package stack

import (
	"time"

	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/parameter"
)

// Dispenser models the bar that drops blocks onto a stack
// In automatic mode it completes its own animation, in manual mode the render layer calls Complete
type Dispenser struct {
	ctrl     *Controller
	sched    *engine.Scheduler
	duration time.Duration
	manual   bool

	token    *engine.Token
	started  time.Time
	active   bool
	rotation int
}

// NewDispenser attaches a dispenser to ctrl
func NewDispenser(ctrl *Controller, sched *engine.Scheduler, duration time.Duration, manual bool) *Dispenser {
	if duration <= 0 {
		duration = parameter.DispenseAnimation
	}
	d := &Dispenser{
		ctrl:     ctrl,
		sched:    sched,
		duration: duration,
		manual:   manual,
	}
	ctrl.SetDispenser(d)
	return d
}

// Start begins the dispense animation
func (d *Dispenser) Start() {
	d.token.Cancel()
	d.active = true
	d.started = d.sched.Now()
	if d.manual {
		return
	}
	d.token = d.sched.After(d.duration, d.Complete)
}

// Complete ends the animation and re-enables adds on the controller
func (d *Dispenser) Complete() {
	d.token.Cancel()
	d.token = nil
	if d.active {
		d.active = false
		d.rotation++
	}
	d.ctrl.DispenseComplete()
}

// Active reports whether the animation is running
func (d *Dispenser) Active() bool {
	return d.active
}

// Progress returns the animation fraction in [0, 1]
func (d *Dispenser) Progress() float64 {
	if !d.active {
		return 0
	}
	p := float64(d.sched.Now().Sub(d.started)) / float64(d.duration)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Rotation counts completed dispenses, the render layer uses it to cycle the bar's blocks
func (d *Dispenser) Rotation() int {
	return d.rotation
}
