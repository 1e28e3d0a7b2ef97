package experiment

import (
	"github.com/yokanlab/yokan/sim"
)

// A PulseSource emits a train of pulses on the virtual clock. Each pulse
// fans out the configured number of zero-delay events. The source schedules
// its own next pulse, so every pending event holds a reference on the
// source and disposing the source cancels whatever is still scheduled.
type PulseSource struct {
	*sim.ObjectBase

	simulator *sim.Simulator
	period    sim.VTime
	remaining int
	unbounded bool
	fanout    int

	nextPulse sim.EventID
	pulses    uint64
	fanned    uint64
}

func newPulseSource(simulator *sim.Simulator, spec Source) *PulseSource {
	s := &PulseSource{
		ObjectBase: sim.NewObjectBase(spec.Name),
		simulator:  simulator,
		period:     spec.Period.VTime(),
		remaining:  spec.Count,
		unbounded:  spec.Count == 0,
		fanout:     spec.Fanout,
	}

	s.nextPulse = simulator.ScheduleFor(s, spec.Offset.VTime(), s.pulse)
	s.OnDispose(func() {
		s.nextPulse.Cancel()
	})

	return s
}

func (s *PulseSource) pulse() {
	s.pulses++

	for i := 0; i < s.fanout; i++ {
		s.simulator.ScheduleFor(s, 0, s.fanEvent)
	}

	if !s.unbounded {
		s.remaining--
		if s.remaining == 0 {
			return
		}
	}

	s.nextPulse = s.simulator.ScheduleFor(s, s.period, s.pulse)
}

func (s *PulseSource) fanEvent() {
	s.fanned++
}

// Pulses returns the number of pulses emitted so far.
func (s *PulseSource) Pulses() uint64 {
	return s.pulses
}

// FanoutEvents returns the number of fanout events fired so far.
func (s *PulseSource) FanoutEvents() uint64 {
	return s.fanned
}
