package event

// Handler processes specific event types
type Handler interface {
	// HandleEvent is called synchronously during dispatch
	HandleEvent(ev Event)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a plain callback to Handler for the listed types
type HandlerFunc struct {
	Types []EventType
	Fn    func(ev Event)
}

// On builds a HandlerFunc
func On(fn func(ev Event), types ...EventType) HandlerFunc {
	return HandlerFunc{Types: types, Fn: fn}
}

func (h HandlerFunc) HandleEvent(ev Event)    { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []EventType { return h.Types }

// Router dispatches queued events to registered handlers
// Handlers run in registration order, events in FIFO order
type Router struct {
	handlers map[EventType][]Handler
	queue    *Queue
}

// NewRouter creates a router attached to queue
func NewRouter(queue *Queue) *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    queue,
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(handler Handler) {
	for _, t := range handler.EventTypes() {
		r.handlers[t] = append(r.handlers[t], handler)
	}
}

// DispatchAll consumes pending events and routes them
// Events pushed by handlers are dispatched in the same call
// Returns the number of events dispatched
func (r *Router) DispatchAll() int {
	total := 0
	for {
		events := r.queue.Consume()
		if len(events) == 0 {
			return total
		}
		for _, ev := range events {
			for _, h := range r.handlers[ev.Type] {
				h.HandleEvent(ev)
			}
		}
		total += len(events)
	}
}

// HasHandlers reports whether any handler listens for t
func (r *Router) HasHandlers(t EventType) bool {
	return len(r.handlers[t]) > 0
}

// HandlerCount returns the number of handlers registered for t
func (r *Router) HandlerCount(t EventType) int {
	return len(r.handlers[t])
}
