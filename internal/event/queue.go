package event

import "sync"

// Queue is a FIFO of posted events, drained once per tick by the game loop.
// Post is safe for concurrent producers; Drain has a single consumer.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Post appends an event.
func (q *Queue) Post(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, e)
}

// Drain returns all pending events in posting order and empties the queue.
// It returns nil when nothing is pending.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil
	}
	events := q.events
	q.events = nil
	return events
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
