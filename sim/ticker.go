package sim

import (
	"sync"
)

// A Ticker is an object that updates states with ticks. Tick returns true
// when the update made progress, keeping the ticks coming.
type Ticker interface {
	Tick() bool
}

// TickScheduler drives a Ticker at a fixed frequency. It re-schedules the
// ticker for the next cycle as long as ticking makes progress, and goes
// quiet otherwise until TickNow or TickLater wakes it up again.
type TickScheduler struct {
	lock      sync.Mutex
	ticker    Ticker
	scheduler Scheduler

	Freq Freq

	nextTickTime VTime
}

// NewTickScheduler creates a scheduler that drives the ticker at the given
// frequency.
func NewTickScheduler(
	ticker Ticker,
	scheduler Scheduler,
	freq Freq,
) *TickScheduler {
	t := new(TickScheduler)

	t.ticker = ticker
	t.scheduler = scheduler
	t.Freq = freq
	t.nextTickTime = -1 // This will make sure the first tick is scheduled

	return t
}

// TickNow schedules a tick at the current cycle boundary. It is a no-op when
// a tick at or after that boundary is already scheduled.
func (t *TickScheduler) TickNow() {
	t.lock.Lock()

	now := t.scheduler.Now()
	time := t.Freq.ThisTick(now)

	if t.nextTickTime >= time {
		t.lock.Unlock()
		return
	}

	t.nextTickTime = time
	t.scheduler.Schedule(time-now, t.handleTick)

	t.lock.Unlock()
}

// TickLater schedules a tick at the cycle after the current time. It is a
// no-op when a tick at or after that cycle is already scheduled.
func (t *TickScheduler) TickLater() {
	t.lock.Lock()

	now := t.scheduler.Now()
	time := t.Freq.NextTick(now)

	if t.nextTickTime >= time {
		t.lock.Unlock()
		return
	}

	t.nextTickTime = time
	t.scheduler.Schedule(time-now, t.handleTick)

	t.lock.Unlock()
}

func (t *TickScheduler) handleTick() {
	madeProgress := t.ticker.Tick()
	if madeProgress {
		t.TickLater()
	}
}
