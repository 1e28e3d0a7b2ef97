// Package simulation assembles the pieces a simulation run needs: the
// kernel simulator, a data recorder for run artifacts, an optional live
// monitor, and an optional event tracer, plus a registry of the named
// objects that participate in the simulation.
package simulation

import (
	"github.com/yokanlab/yokan/datarecording"
	"github.com/yokanlab/yokan/monitoring"
	"github.com/yokanlab/yokan/sim"
	"github.com/yokanlab/yokan/tracing"
)

// A Simulation provides the services required to define and run a
// simulation.
type Simulation struct {
	id        string
	simulator *sim.Simulator

	dataRecorder datarecording.DataRecorder
	monitor      *monitoring.Monitor
	eventTracer  *tracing.DBTracer

	objects         []sim.Object
	objectNameIndex map[string]int
}

// ID returns the ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// GetSimulator returns the simulator used in the simulation.
func (s *Simulation) GetSimulator() *sim.Simulator {
	return s.simulator
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation. It is nil when the
// simulation is built without monitoring.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// GetEventTracer returns the event tracer used in the simulation. It is nil
// when the simulation is built without event tracing.
func (s *Simulation) GetEventTracer() *tracing.DBTracer {
	return s.eventTracer
}

// RegisterObject registers a named object with the simulation. Names are
// unique within a simulation; registering a second object with the same
// name panics. Registered objects also show up in the monitor, when there
// is one.
func (s *Simulation) RegisterObject(o sim.Object) {
	name := o.Name()
	if _, ok := s.objectNameIndex[name]; ok {
		panic("object " + name + " already registered")
	}

	s.objects = append(s.objects, o)
	s.objectNameIndex[name] = len(s.objects) - 1

	if s.monitor != nil {
		s.monitor.RegisterObject(o)
	}
}

// GetObjectByName returns the object with the given name, or nil when no
// such object is registered.
func (s *Simulation) GetObjectByName(name string) sim.Object {
	index, ok := s.objectNameIndex[name]
	if !ok {
		return nil
	}

	return s.objects[index]
}

// Objects returns all the registered objects.
func (s *Simulation) Objects() []sim.Object {
	return s.objects
}

// Terminate concludes the simulation. It destroys the simulator, which runs
// the registered teardown callbacks, and then flushes and closes the data
// recorder.
func (s *Simulation) Terminate() {
	s.simulator.Destroy()

	if err := s.dataRecorder.Close(); err != nil {
		panic(err)
	}
}
