package tracing

import (
	"sync"

	"github.com/tebeka/atexit"

	"github.com/yokanlab/yokan/datarecording"
	"github.com/yokanlab/yokan/sim"
)

// eventTableEntry is the row shape landed in the event_trace table. Times
// are ticks. Context is -1 for events scheduled without a context.
type eventTableEntry struct {
	UID         uint64
	Context     int64
	ScheduledAt int64
	Time        int64
	Disposition string
	Where       string
}

// DBTracer is a tracer that stores event traces in a database. DBTracers can
// connect with different backends so that the traces can land in different
// types of databases (e.g., SQLite files, ClickHouse servers).
type DBTracer struct {
	mu      sync.Mutex
	backend datarecording.DataRecorder

	startTime, endTime sim.VTime
}

// NewDBTracer creates a new DBTracer writing through the given recorder. The
// recorder is flushed when the program exits.
func NewDBTracer(backend datarecording.DataRecorder) *DBTracer {
	backend.CreateTable("event_trace", eventTableEntry{})

	t := &DBTracer{
		backend: backend,
		endTime: -1,
	}

	atexit.Register(func() {
		t.Terminate()
	})

	return t
}

// SetTimeRange limits the tracer to events whose fire time falls in
// [startTime, endTime]. An endTime below zero means unbounded.
func (t *DBTracer) SetTimeRange(startTime, endTime sim.VTime) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startTime = startTime
	t.endTime = endTime
}

// EventScheduled does nothing: the tracer records each event once, at its
// terminal disposition.
func (t *DBTracer) EventScheduled(_ EventTrace) {
	// Do nothing.
}

// EventFired records a fired event.
func (t *DBTracer) EventFired(trace EventTrace) {
	t.record(trace)
}

// EventCancelled records a cancelled event.
func (t *DBTracer) EventCancelled(trace EventTrace) {
	t.record(trace)
}

func (t *DBTracer) record(trace EventTrace) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if trace.Time < t.startTime {
		return
	}

	if t.endTime >= 0 && trace.Time > t.endTime {
		return
	}

	t.backend.InsertData("event_trace", tableEntryOf(trace))
}

func tableEntryOf(trace EventTrace) eventTableEntry {
	context := int64(-1)
	if trace.Context != sim.NoContext {
		context = int64(trace.Context)
	}

	return eventTableEntry{
		UID:         trace.UID,
		Context:     context,
		ScheduledAt: int64(trace.ScheduledAt),
		Time:        int64(trace.Time),
		Disposition: trace.Disposition,
		Where:       trace.Where,
	}
}

// Terminate flushes the backend. The tracer must not be used afterwards.
func (t *DBTracer) Terminate() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.backend.Flush()
}
