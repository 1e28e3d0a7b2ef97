// Package tracing captures per-event traces from a simulator and lands them
// in recorders, CSV files, or in-memory aggregators.
package tracing

import "github.com/yokanlab/yokan/sim"

// Dispositions a trace can carry. Scheduled traces are pending; every event
// eventually ends as fired, cancelled, or destroy (fired while tearing down
// the simulator).
const (
	DispositionPending   = "pending"
	DispositionFired     = "fired"
	DispositionCancelled = "cancelled"
	DispositionDestroy   = "destroy"
)

// An EventTrace describes one scheduled event.
type EventTrace struct {
	UID         uint64
	Context     uint32
	ScheduledAt sim.VTime
	Time        sim.VTime
	Disposition string
	Where       string
}

// A Tracer can collect event traces.
type Tracer interface {
	EventScheduled(trace EventTrace)
	EventFired(trace EventTrace)
	EventCancelled(trace EventTrace)
}

// TraceFilter is a function that can filter interesting traces. If this
// function returns true, the trace is considered useful.
type TraceFilter func(trace EventTrace) bool
