package tracing

import "sync"

// CountTracer counts events by disposition and, for fired events, by the
// object they ran against.
type CountTracer struct {
	filter TraceFilter
	lock   sync.Mutex

	scheduledCount uint64
	firedCount     uint64
	cancelledCount uint64

	whereNames   []string
	firedByWhere map[string]uint64
}

// NewCountTracer creates a new CountTracer. Traces rejected by the filter
// are not counted. A nil filter counts everything.
func NewCountTracer(filter TraceFilter) *CountTracer {
	t := &CountTracer{
		filter:       filter,
		firedByWhere: make(map[string]uint64),
	}

	return t
}

// EventScheduled counts a scheduled event.
func (t *CountTracer) EventScheduled(trace EventTrace) {
	if t.filter != nil && !t.filter(trace) {
		return
	}

	t.lock.Lock()
	t.scheduledCount++
	t.lock.Unlock()
}

// EventFired counts a fired event.
func (t *CountTracer) EventFired(trace EventTrace) {
	if t.filter != nil && !t.filter(trace) {
		return
	}

	t.lock.Lock()
	defer t.lock.Unlock()

	t.firedCount++

	if _, ok := t.firedByWhere[trace.Where]; !ok {
		t.whereNames = append(t.whereNames, trace.Where)
	}
	t.firedByWhere[trace.Where]++
}

// EventCancelled counts a cancelled event.
func (t *CountTracer) EventCancelled(trace EventTrace) {
	if t.filter != nil && !t.filter(trace) {
		return
	}

	t.lock.Lock()
	t.cancelledCount++
	t.lock.Unlock()
}

// ScheduledCount returns the number of scheduled events counted.
func (t *CountTracer) ScheduledCount() uint64 {
	return t.scheduledCount
}

// FiredCount returns the number of fired events counted.
func (t *CountTracer) FiredCount() uint64 {
	return t.firedCount
}

// CancelledCount returns the number of cancelled events counted.
func (t *CountTracer) CancelledCount() uint64 {
	return t.cancelledCount
}

// WhereNames returns the object names fired events were counted for, in
// first-seen order.
func (t *CountTracer) WhereNames() []string {
	return t.whereNames
}

// FiredCountAt returns the number of fired events counted for the object
// with the given name.
func (t *CountTracer) FiredCountAt(where string) uint64 {
	return t.firedByWhere[where]
}
