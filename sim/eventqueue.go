package sim

import "container/heap"

// compactionMinStale is the number of cancelled records an eventQueue
// tolerates before it considers compacting the backing heap.
const compactionMinStale = 64

// An eventQueue orders pending events by time, breaking ties by schedule
// order. Cancellation is lazy: a cancelled record stays in the heap and is
// skipped when it surfaces. Once cancelled records outnumber live ones the
// queue compacts, so a workload that cancels most of what it schedules does
// not hold memory proportional to everything it ever scheduled.
type eventQueue struct {
	events eventHeap
	stale  int
}

func newEventQueue() *eventQueue {
	q := new(eventQueue)
	q.events = make(eventHeap, 0, 64)
	return q
}

// insert adds a pending event to the queue.
func (q *eventQueue) insert(ev *event) {
	heap.Push(&q.events, ev)
}

// popNext removes and returns the earliest pending event, discarding any
// cancelled records that surface first. It returns nil when no pending
// event remains.
func (q *eventQueue) popNext() *event {
	for q.events.Len() > 0 {
		ev := heap.Pop(&q.events).(*event)
		if ev.state == stateCancelled {
			q.stale--
			continue
		}

		return ev
	}

	return nil
}

// peekNext returns the earliest pending event without removing it, or nil
// when no pending event remains. Cancelled records at the front are
// discarded on the way.
func (q *eventQueue) peekNext() *event {
	for q.events.Len() > 0 {
		ev := q.events[0]
		if ev.state == stateCancelled {
			heap.Pop(&q.events)
			q.stale--
			continue
		}

		return ev
	}

	return nil
}

// noteCancelled records that one event in the heap turned stale and compacts
// the heap when stale records dominate.
func (q *eventQueue) noteCancelled() {
	q.stale++

	if q.stale > compactionMinStale && q.stale*2 > q.events.Len() {
		q.compact()
	}
}

// compact rebuilds the heap with only pending events.
func (q *eventQueue) compact() {
	live := q.events[:0]
	for _, ev := range q.events {
		if ev.state != stateCancelled {
			live = append(live, ev)
		}
	}

	for i := len(live); i < len(q.events); i++ {
		q.events[i] = nil
	}

	q.events = live
	q.stale = 0
	heap.Init(&q.events)
}

// drain cancels every pending event left in the queue and returns the
// objects whose references those events held.
func (q *eventQueue) drain() []Object {
	var targets []Object

	for _, ev := range q.events {
		if ev.state != statePending {
			continue
		}

		ev.state = stateCancelled
		ev.fn = nil

		if ev.target != nil {
			targets = append(targets, ev.target)
			ev.target = nil
		}
	}

	q.events = q.events[:0]
	q.stale = 0

	return targets
}

// len returns the number of pending events in the queue.
func (q *eventQueue) len() int {
	return q.events.Len() - q.stale
}

type eventHeap []*event

// Len returns the number of records in the heap, stale ones included.
func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Less returns true if the
// i-th event happens before the j-th event. Events at the same time fire in
// the order they were scheduled.
func (h eventHeap) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}

	return h[i].uid < h[j].uid
}

// Swap changes the position of two events in the heap.
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds an event to the heap.
func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(*event))
}

// Pop removes and returns the next event to happen.
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	ev := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return ev
}
