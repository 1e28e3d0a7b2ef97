package sim

// An EventUid identifies one scheduled event. Uids grow monotonically in
// schedule order and break ties between events that share a time, so that
// simultaneous events always fire in the order they were scheduled.
type EventUid uint64

// NoContext tags events that do not belong to any simulated entity.
const NoContext uint32 = 0xffffffff

type eventState int32

const (
	statePending eventState = iota
	stateRunning
	stateCancelled
	stateFired
)

// An event is a unit of deferred work: a callback bound to a point in
// virtual time. The record is owned by the event queue until popped, by the
// run loop while the callback executes, and is discarded afterwards. The
// state only ever moves forward: pending to running to fired, or pending to
// cancelled.
type event struct {
	fn          func()
	time        VTime
	scheduledAt VTime
	uid         EventUid
	context     uint32
	state       eventState

	// target, when set, is the object the event fires against. The event
	// holds one reference on it from schedule time until the event fires,
	// is cancelled, or is discarded at teardown.
	target Object

	// destroy marks records that live on the destroy list instead of the
	// time-ordered queue.
	destroy bool

	owner *Simulator
}

// An EventInfo is a snapshot of one event's identity. Hooks receive an
// EventInfo as the HookCtx item so that observers such as loggers, tracers,
// and analyzers never touch the live event record.
type EventInfo struct {
	Time        VTime
	ScheduledAt VTime
	UID         EventUid
	Context     uint32

	// Where names the object the event fires against, or is empty for
	// events without a target.
	Where string
}

func (ev *event) info() EventInfo {
	info := EventInfo{
		Time:        ev.time,
		ScheduledAt: ev.scheduledAt,
		UID:         ev.uid,
		Context:     ev.context,
	}

	if ev.target != nil {
		info.Where = ev.target.Name()
	}

	return info
}

// An EventID is an opaque handle to a scheduled event. Handles are copyable
// and non-owning: they never keep an event alive, and using a handle whose
// event already fired is harmless. The zero value is the empty handle.
type EventID struct {
	ev *event
}

// Time returns the virtual time the event is scheduled to fire at, or 0 for
// the empty handle.
func (id EventID) Time() VTime {
	if id.ev == nil {
		return 0
	}

	return id.ev.time
}

// UID returns the event's uniquifier, or 0 for the empty handle.
func (id EventID) UID() EventUid {
	if id.ev == nil {
		return 0
	}

	return id.ev.uid
}

// Context returns the execution context the event is tagged with.
// The empty handle reports NoContext.
func (id EventID) Context() uint32 {
	if id.ev == nil {
		return NoContext
	}

	return id.ev.context
}

// IsPending returns true if the event is still waiting to fire.
func (id EventID) IsPending() bool {
	return id.ev != nil && id.ev.state == statePending
}

// IsExpired returns true if the event already fired, was cancelled, or the
// handle is empty. An expired handle never becomes pending again.
func (id EventID) IsExpired() bool {
	return !id.IsPending()
}

// Cancel marks the event cancelled so it never fires. Cancelling an
// already-fired, already-cancelled, or empty handle is a no-op.
func (id EventID) Cancel() {
	if id.ev == nil {
		return
	}

	id.ev.owner.cancelEvent(id.ev)
}
