package engine

import (
	"context"
	"time"
)

// FramePacer paces a loop on a fixed interval with drift correction
// A loop that falls more than two intervals behind resynchronizes instead of bursting
type FramePacer struct {
	interval time.Duration
	deadline time.Time
	timer    *time.Timer
	frames   uint64
}

// NewFramePacer creates a pacer whose first deadline is one interval away
func NewFramePacer(interval time.Duration) *FramePacer {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	return &FramePacer{
		interval: interval,
		deadline: time.Now().Add(interval),
		timer:    timer,
	}
}

// C returns a channel that fires at the next deadline
// Call Done after each receive to advance the deadline
func (p *FramePacer) C() <-chan time.Time {
	sleep := time.Until(p.deadline)
	if sleep < 0 {
		sleep = 0
	}
	p.timer.Reset(sleep)
	return p.timer.C
}

// Done advances the deadline after a frame has been produced
func (p *FramePacer) Done(now time.Time) {
	p.frames++
	p.deadline = p.deadline.Add(p.interval)
	if now.Sub(p.deadline) > p.interval*2 {
		p.deadline = now.Add(p.interval)
	}
}

// Stop releases the timer
func (p *FramePacer) Stop() {
	if !p.timer.Stop() {
		select {
		case <-p.timer.C:
		default:
		}
	}
}

// Frames returns the number of completed frames
func (p *FramePacer) Frames() uint64 {
	return p.frames
}

// Wait blocks until the next deadline or context cancellation
func (p *FramePacer) Wait(ctx context.Context) error {
	select {
	case now := <-p.C():
		p.Done(now)
		return nil
	case <-ctx.Done():
		p.Stop()
		return ctx.Err()
	}
}
