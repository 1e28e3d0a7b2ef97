package experiment

import (
	"github.com/yokanlab/yokan/simulation"
)

// Build instantiates the workload described by spec on the simulation. It
// creates and registers one PulseSource per source entry, schedules the
// stop request when the spec carries a stop time, and registers a teardown
// callback that releases the sources when the simulation is destroyed.
//
// The spec must be valid; ReadSpec and ParseSpec only return valid specs.
// Building an invalid spec panics.
func Build(s *simulation.Simulation, spec *Spec) []*PulseSource {
	if err := spec.validate(); err != nil {
		panic(err)
	}

	simulator := s.GetSimulator()

	sources := make([]*PulseSource, 0, len(spec.Sources))
	for _, srcSpec := range spec.Sources {
		src := newPulseSource(simulator, srcSpec)
		s.RegisterObject(src)
		sources = append(sources, src)
	}

	simulator.ScheduleDestroy(func() {
		for _, src := range sources {
			src.Unref()
		}
	})

	if spec.StopAt > 0 {
		simulator.StopAfter(spec.StopAt.VTime())
	}

	return sources
}
