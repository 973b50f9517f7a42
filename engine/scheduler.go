package engine

import (
	"container/heap"
	"time"
)

// Token identifies one deferred callback
type Token struct {
	due   time.Time
	seq   uint64
	fn    func()
	owner *Scheduler
	index int // heap position, -1 once fired or cancelled
}

// Cancel prevents the callback from running, reports whether it was still pending
// Safe to call repeatedly and on nil tokens
func (t *Token) Cancel() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.owner.queue, t.index)
	t.index = -1
	t.fn = nil
	return true
}

// Pending reports whether the callback has neither fired nor been cancelled
func (t *Token) Pending() bool {
	return t != nil && t.index >= 0
}

// Due returns the scheduled fire time
func (t *Token) Due() time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.due
}

// Scheduler runs deferred callbacks on the goroutine that calls RunDue
// Callbacks fire ordered by due time then by scheduling order
// Not safe for concurrent use
type Scheduler struct {
	clock TimeProvider
	queue timerQueue
	seq   uint64

	// firing holds the due time of the callback being executed, callbacks
	// scheduled from inside it are offset from that instant instead of the clock
	firing    bool
	firingAt  time.Time
	fireCount uint64
}

// NewScheduler creates a scheduler reading the given clock
func NewScheduler(clock TimeProvider) *Scheduler {
	if clock == nil {
		clock = NewMonotonicTimeProvider()
	}
	return &Scheduler{clock: clock}
}

// Clock returns the underlying time source
func (s *Scheduler) Clock() TimeProvider {
	return s.clock
}

// Now returns the scheduling reference time
func (s *Scheduler) Now() time.Time {
	if s.firing {
		return s.firingAt
	}
	return s.clock.Now()
}

// After schedules fn to run d from now, negative delays run on the next RunDue
func (s *Scheduler) After(d time.Duration, fn func()) *Token {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Token{
		due:   s.Now().Add(d),
		seq:   s.seq,
		fn:    fn,
		owner: s,
	}
	heap.Push(&s.queue, t)
	return t
}

// RunDue fires every callback whose due time has passed, including callbacks
// scheduled by callbacks that are themselves already due
// Returns the number of callbacks fired
func (s *Scheduler) RunDue() int {
	now := s.clock.Now()
	fired := 0
	for len(s.queue) > 0 {
		next := s.queue[0]
		if next.due.After(now) {
			break
		}
		heap.Pop(&s.queue)
		fn := next.fn
		next.fn = nil

		s.firing = true
		s.firingAt = next.due
		fn()
		s.firing = false

		fired++
	}
	s.fireCount += uint64(fired)
	return fired
}

// Pending returns the number of queued callbacks
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Fired returns the total number of callbacks run
func (s *Scheduler) Fired() uint64 {
	return s.fireCount
}

// NextDue returns the earliest due time
func (s *Scheduler) NextDue() (time.Time, bool) {
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].due, true
}

// Clear cancels every queued callback
func (s *Scheduler) Clear() {
	for _, t := range s.queue {
		t.index = -1
		t.fn = nil
	}
	s.queue = s.queue[:0]
}

// timerQueue implements heap.Interface ordered by (due, seq)
type timerQueue []*Token

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Token)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
