package sim

import (
	"sync"
	"sync/atomic"

	"github.com/gammazero/deque"
)

// TimeTeller can be used to get the current virtual time.
type TimeTeller interface {
	Now() VTime
}

// EventScheduler can be used to schedule future events.
type EventScheduler interface {
	Schedule(delay VTime, fn func()) EventID
	ScheduleNow(fn func()) EventID
	ScheduleWithContext(context uint32, delay VTime, fn func()) EventID
}

// A Scheduler bundles the two capabilities most simulated entities need:
// telling the time and scheduling work.
type Scheduler interface {
	TimeTeller
	EventScheduler
}

// A Simulator owns one discrete-event simulation: the virtual clock, the
// pending-event queue, and the teardown list. Events fire strictly in time
// order, with schedule order breaking ties, one at a time, on the goroutine
// that calls Run.
//
// Scheduling and cancellation are meant to happen from event callbacks or
// from the goroutine that drives the simulation. Pause and Continue are the
// one sanctioned way for another goroutine, such as a monitoring server, to
// inspect a simulation mid-run.
type Simulator struct {
	HookableBase

	timeLock sync.RWMutex
	now      VTime

	mu            sync.Mutex
	queue         *eventQueue
	destroyList   deque.Deque[*event]
	nextUid       EventUid
	stopRequested bool
	destroying    bool
	destroyed     bool

	currentCtx    uint32
	executedCount uint64

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex
}

var _ Scheduler = (*Simulator)(nil)

// NewSimulator creates a Simulator with the clock at time 0 and nothing
// scheduled.
func NewSimulator() *Simulator {
	return &Simulator{
		queue:      newEventQueue(),
		currentCtx: NoContext,
	}
}

func (s *Simulator) readNow() VTime {
	s.timeLock.RLock()
	t := s.now
	s.timeLock.RUnlock()
	return t
}

func (s *Simulator) writeNow(t VTime) {
	s.timeLock.Lock()
	s.now = t
	s.timeLock.Unlock()
}

func (s *Simulator) mustBeLive(op string) {
	if s.destroyed {
		violateContract(op, "simulator is already destroyed")
	}
}

// Now returns the current virtual time. During an event callback this is
// exactly the time the event was scheduled to fire at.
func (s *Simulator) Now() VTime {
	s.mustBeLive("Now")
	return s.readNow()
}

// Context returns the context tag of the event currently firing, or
// NoContext outside of any event callback.
func (s *Simulator) Context() uint32 {
	return s.currentCtx
}

// Schedule registers fn to run after the given delay. The new event inherits
// the context of the event currently firing. A delay of zero fires at the
// current time, after all events already pending at that time.
func (s *Simulator) Schedule(delay VTime, fn func()) EventID {
	return s.schedule("Schedule", s.currentCtx, nil, delay, fn)
}

// ScheduleNow registers fn to run at the current time, after all events
// already pending at that time.
func (s *Simulator) ScheduleNow(fn func()) EventID {
	return s.schedule("ScheduleNow", s.currentCtx, nil, 0, fn)
}

// ScheduleWithContext is Schedule with an explicit context tag instead of
// the inherited one.
func (s *Simulator) ScheduleWithContext(
	context uint32,
	delay VTime,
	fn func(),
) EventID {
	return s.schedule("ScheduleWithContext", context, nil, delay, fn)
}

// ScheduleFor registers fn to run after the given delay on behalf of target.
// The event holds one reference on target until it fires or is cancelled, so
// the target cannot be disposed out from under a pending event. Scheduling
// for an already-disposed target is a usage error.
func (s *Simulator) ScheduleFor(
	target Object,
	delay VTime,
	fn func(),
) EventID {
	if target == nil {
		violateContract("ScheduleFor", "nil target")
	}

	return s.schedule("ScheduleFor", s.currentCtx, target, delay, fn)
}

func (s *Simulator) schedule(
	op string,
	context uint32,
	target Object,
	delay VTime,
	fn func(),
) EventID {
	s.mustBeLive(op)

	if fn == nil {
		violateContract(op, "nil callback")
	}

	if delay < 0 {
		violateContract(op, "delay %s is negative", delay)
	}

	if target != nil && target.IsDisposed() {
		violateContract(op, "target %s is already disposed", target.Name())
	}

	now := s.readNow()
	t := now + delay
	if t < now {
		violateContract(op,
			"now %s plus delay %s overflows the virtual clock", now, delay)
	}

	if target != nil {
		target.Ref()
	}

	s.mu.Lock()
	ev := &event{
		fn:          fn,
		time:        t,
		scheduledAt: now,
		uid:         s.nextUid,
		context:     context,
		target:      target,
		owner:       s,
	}
	s.nextUid++
	s.queue.insert(ev)
	info := ev.info()
	s.mu.Unlock()

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosSchedule, Item: info})

	return EventID{ev: ev}
}

// ScheduleDestroy registers fn to run during Destroy. Destroy callbacks run
// in reverse registration order, after the last event fires and before the
// pending-event queue is discarded. They are the place to release
// simulation-wide resources whose teardown order matters.
func (s *Simulator) ScheduleDestroy(fn func()) EventID {
	s.mustBeLive("ScheduleDestroy")

	if fn == nil {
		violateContract("ScheduleDestroy", "nil callback")
	}

	now := s.readNow()

	s.mu.Lock()
	ev := &event{
		fn:          fn,
		scheduledAt: now,
		uid:         s.nextUid,
		context:     NoContext,
		destroy:     true,
		owner:       s,
	}
	s.nextUid++
	s.destroyList.PushBack(ev)
	s.mu.Unlock()

	return EventID{ev: ev}
}

// Cancel marks the event behind the handle cancelled so it never fires.
// Cancelling an event that already fired or was already cancelled is a
// harmless no-op.
func (s *Simulator) Cancel(id EventID) {
	id.Cancel()
}

// Remove is Cancel followed by eager reclamation of the queue space the
// cancelled records occupy. Prefer Cancel; Remove only pays off when a large
// cancelled backlog must be released right away.
func (s *Simulator) Remove(id EventID) {
	id.Cancel()

	s.mu.Lock()
	if s.queue.stale > 0 {
		s.queue.compact()
	}
	s.mu.Unlock()
}

// IsExpired reports whether the event behind the handle already fired or was
// cancelled. Expired handles never become pending again.
func (s *Simulator) IsExpired(id EventID) bool {
	return id.IsExpired()
}

func (s *Simulator) cancelEvent(ev *event) {
	s.mu.Lock()
	if ev.state != statePending {
		s.mu.Unlock()
		return
	}

	info := ev.info()

	ev.state = stateCancelled
	ev.fn = nil
	target := ev.target
	ev.target = nil

	if !ev.destroy {
		s.queue.noteCancelled()
	}
	s.mu.Unlock()

	if target != nil {
		target.Unref()
	}

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosCancel, Item: info})
}

// Run fires pending events in order until the queue drains or Stop is
// called. It clears any stop request left over from an earlier run before
// it starts.
func (s *Simulator) Run() error {
	s.mustBeLive("Run")

	s.singleRunLock.Lock()
	defer s.singleRunLock.Unlock()

	s.mu.Lock()
	s.stopRequested = false
	s.mu.Unlock()

	for {
		s.pauseLock.Lock()

		s.mu.Lock()
		if s.stopRequested {
			s.mu.Unlock()
			s.pauseLock.Unlock()
			return nil
		}

		ev := s.queue.popNext()
		s.mu.Unlock()

		if ev == nil {
			s.pauseLock.Unlock()
			return nil
		}

		s.writeNow(ev.time)
		s.fire(ev)

		s.pauseLock.Unlock()
	}
}

func (s *Simulator) fire(ev *event) {
	if ev.target != nil && ev.target.IsDisposed() {
		violateContract("Run",
			"event %d fires against disposed object %s",
			ev.uid, ev.target.Name())
	}

	info := ev.info()

	s.currentCtx = ev.context
	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosBeforeEvent, Item: info})

	ev.state = stateRunning
	fn := ev.fn
	ev.fn = nil
	fn()
	ev.state = stateFired

	target := ev.target
	ev.target = nil

	atomic.AddUint64(&s.executedCount, 1)

	s.InvokeHook(HookCtx{Domain: s, Pos: HookPosAfterEvent, Item: info})
	s.currentCtx = NoContext

	if target != nil {
		target.Unref()
	}
}

// Stop asks the run loop to return after the event currently firing
// completes. Events left in the queue stay pending, so a later Run picks up
// where this one stopped.
func (s *Simulator) Stop() {
	s.mu.Lock()
	s.stopRequested = true
	s.mu.Unlock()
}

// StopAfter schedules a stop request at the given delay. The returned handle
// can be cancelled like any other event to let the simulation run on.
func (s *Simulator) StopAfter(delay VTime) EventID {
	return s.schedule("StopAfter", NoContext, nil, delay, s.Stop)
}

// Pause prevents the Simulator from firing more events until Continue is
// called. The event currently firing completes first.
func (s *Simulator) Pause() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if s.isPaused {
		return
	}

	s.pauseLock.Lock()
	s.isPaused = true
}

// Continue allows a paused Simulator to fire events again.
func (s *Simulator) Continue() {
	s.isPausedLock.Lock()
	defer s.isPausedLock.Unlock()

	if !s.isPaused {
		return
	}

	s.pauseLock.Unlock()
	s.isPaused = false
}

// PendingEvents returns the number of events waiting to fire.
func (s *Simulator) PendingEvents() int {
	s.mu.Lock()
	n := s.queue.len()
	s.mu.Unlock()
	return n
}

// ExecutedEvents returns the number of events fired since the Simulator was
// created.
func (s *Simulator) ExecutedEvents() uint64 {
	return atomic.LoadUint64(&s.executedCount)
}

// NextEventTime returns the time of the earliest pending event. The second
// return value is false when nothing is pending.
func (s *Simulator) NextEventTime() (VTime, bool) {
	s.mu.Lock()
	ev := s.queue.peekNext()
	s.mu.Unlock()

	if ev == nil {
		return 0, false
	}

	return ev.time, true
}

// Destroy tears the simulation down: it runs the destroy callbacks in
// reverse registration order, then discards the pending-event queue,
// releasing the object references pending events still hold. Destroy is
// idempotent. After it returns, scheduling or running is a usage error.
func (s *Simulator) Destroy() {
	s.mu.Lock()
	if s.destroyed || s.destroying {
		s.mu.Unlock()
		return
	}
	s.destroying = true
	s.mu.Unlock()

	s.runDestroyList()
	s.discardQueue()

	s.mu.Lock()
	s.destroyed = true
	s.mu.Unlock()
}

// runDestroyList pops teardown callbacks newest-first. A callback may
// register further destroy events; they run before the list is considered
// drained.
func (s *Simulator) runDestroyList() {
	now := s.readNow()

	for {
		s.mu.Lock()
		var ev *event
		for s.destroyList.Len() > 0 {
			candidate := s.destroyList.PopBack()
			if candidate.state == statePending {
				ev = candidate
				break
			}
		}
		s.mu.Unlock()

		if ev == nil {
			return
		}

		ev.time = now
		s.InvokeHook(HookCtx{Domain: s, Pos: HookPosDestroy, Item: ev.info()})

		ev.state = stateRunning
		fn := ev.fn
		ev.fn = nil
		fn()
		ev.state = stateFired
	}
}

func (s *Simulator) discardQueue() {
	s.mu.Lock()
	targets := s.queue.drain()
	s.mu.Unlock()

	for _, target := range targets {
		target.Unref()
	}
}
