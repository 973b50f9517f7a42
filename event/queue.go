package event

import (
	"github.com/lixenwraith/blockcompare/parameter"
)

// Queue is a fixed ring buffer of pending events
// Owned by the board goroutine, not safe for concurrent use
// Overflow: oldest events are overwritten and counted in Dropped
type Queue struct {
	events  [parameter.EventQueueSize]Event
	head    uint64
	tail    uint64
	dropped uint64
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends ev, overwriting the oldest event when full
func (q *Queue) Push(ev Event) {
	q.events[q.tail&parameter.EventBufferMask] = ev
	q.tail++
	if q.tail-q.head > parameter.EventQueueSize {
		q.head = q.tail - parameter.EventQueueSize
		q.dropped++
	}
}

// Consume returns pending events in FIFO order and empties the queue
func (q *Queue) Consume() []Event {
	n := q.tail - q.head
	if n == 0 {
		return nil
	}
	out := make([]Event, 0, n)
	for i := q.head; i < q.tail; i++ {
		out = append(out, q.events[i&parameter.EventBufferMask])
	}
	q.head = q.tail
	return out
}

// Len returns the pending event count
func (q *Queue) Len() int {
	return int(q.tail - q.head)
}

// Dropped returns how many events were overwritten before consumption
func (q *Queue) Dropped() uint64 {
	return q.dropped
}
