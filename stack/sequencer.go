package stack

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/blockcompare/engine"
	"github.com/lixenwraith/blockcompare/parameter"
)

// Sequencer walks a stack to a target count one block at a time
// Each SetTarget starts a new batch, steps of older batches become no-ops
type Sequencer struct {
	ctrl   *Controller
	sched  *engine.Scheduler
	step   time.Duration
	max    int
	logger *log.Logger

	epoch uint64
	token *engine.Token
}

// NewSequencer creates a sequencer over ctrl
func NewSequencer(ctrl *Controller, sched *engine.Scheduler, step time.Duration, max int, logger *log.Logger) *Sequencer {
	if step <= 0 {
		step = parameter.SequenceStep
	}
	if max <= 0 {
		max = parameter.MaxBlocks
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Sequencer{
		ctrl:   ctrl,
		sched:  sched,
		step:   step,
		max:    max,
		logger: logger.WithPrefix("sequencer." + ctrl.Side().String()),
	}
}

// SetTarget starts a batch converging the stack on n, clamped to [0, max]
// Growing adds one block per step, retrying adds refused while dispensing
// Shrinking writes the count first and then pops blocks top down
func (s *Sequencer) SetTarget(n int) {
	n = min(max(n, 0), s.max)

	s.Cancel()
	s.epoch++
	epoch := s.epoch

	current := s.ctrl.Projected()
	s.logger.Debug("batch", "epoch", epoch, "target", n, "projected", current)

	switch {
	case n > current:
		s.addStep(epoch, n-current)
	case n < current:
		s.ctrl.SetCount(n)
		s.removeStep(epoch, current-1, n)
	}
}

func (s *Sequencer) addStep(epoch uint64, remaining int) {
	if epoch != s.epoch {
		return
	}
	s.token = nil

	if s.ctrl.RequestAdd() {
		remaining--
	}
	if remaining <= 0 {
		return
	}
	s.token = s.sched.After(s.step, func() { s.addStep(epoch, remaining) })
}

func (s *Sequencer) removeStep(epoch uint64, index, floor int) {
	if epoch != s.epoch {
		return
	}
	s.token = nil

	s.ctrl.RequestRemove(index, false)
	if index-1 < floor {
		return
	}
	s.token = s.sched.After(s.step, func() { s.removeStep(epoch, index-1, floor) })
}

// Cancel drops the remaining steps of the current batch
func (s *Sequencer) Cancel() {
	s.token.Cancel()
	s.token = nil
}

// Busy reports whether the current batch still has steps queued
func (s *Sequencer) Busy() bool {
	return s.token.Pending()
}

// Epoch returns the current batch number
func (s *Sequencer) Epoch() uint64 {
	return s.epoch
}
