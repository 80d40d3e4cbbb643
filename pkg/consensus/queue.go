package consensus

import "sync"

// eventQueue is an unbounded multi-producer single-consumer queue. Push never
// blocks; the consumer waits on Ready and drains with Pop.
type eventQueue struct {
	mu     sync.Mutex
	items  []Event
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{signal: make(chan struct{}, 1)}
}

func (q *eventQueue) Push(e Event) {
	q.mu.Lock()
	q.items = append(q.items, e)
	q.mu.Unlock()

	q.notify()
}

// Pop removes the oldest event. If more remain the ready signal is re-armed
// so the consumer comes back for them.
func (q *eventQueue) Pop() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, false
	}

	e := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]

	if len(q.items) > 0 {
		q.notify()
	}

	return e, true
}

func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.items)
}

func (q *eventQueue) Ready() <-chan struct{} {
	return q.signal
}

func (q *eventQueue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}
