package simulation

import (
	"github.com/rs/xid"

	"github.com/yokanlab/yokan/datarecording"
	"github.com/yokanlab/yokan/monitoring"
	"github.com/yokanlab/yokan/sim"
	"github.com/yokanlab/yokan/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	monitorOn      bool
	monitorPort    int
	openBrowser    bool
	eventTracingOn bool
	outputFileName string

	clickHouseAddr     string
	clickHouseDatabase string
	clickHouseUser     string
	clickHousePassword string
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		monitorOn: true,
	}
}

// WithoutMonitoring sets the simulation to not use monitoring.
func (b Builder) WithoutMonitoring() Builder {
	b.monitorOn = false
	return b
}

// WithMonitorPort sets the port number for the monitoring server.
func (b Builder) WithMonitorPort(port int) Builder {
	b.monitorPort = port
	return b
}

// WithBrowserOpening sets the simulation to open the monitoring page in a
// browser when the monitoring server starts.
func (b Builder) WithBrowserOpening() Builder {
	b.openBrowser = true
	return b
}

// WithOutputFileName sets the custom output file name for the data recorder.
func (b Builder) WithOutputFileName(filename string) Builder {
	b.outputFileName = filename
	return b
}

// WithClickHouseRecording sets the simulation to record data to a ClickHouse
// server instead of a local SQLite file.
func (b Builder) WithClickHouseRecording(
	addr, database, username, password string,
) Builder {
	b.clickHouseAddr = addr
	b.clickHouseDatabase = database
	b.clickHouseUser = username
	b.clickHousePassword = password
	return b
}

// WithEventTracing sets the simulation to record all the executed events in
// the data recorder.
func (b Builder) WithEventTracing() Builder {
	b.eventTracingOn = true
	return b
}

func (b Builder) parametersMustBeValid() {
	if !b.monitorOn && b.monitorPort != 0 {
		panic("monitor port cannot be set when monitoring is disabled")
	}

	if !b.monitorOn && b.openBrowser {
		panic("browser opening cannot be set when monitoring is disabled")
	}

	if b.clickHouseAddr != "" && b.outputFileName != "" {
		panic("output file name cannot be set when recording to ClickHouse")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	s := &Simulation{
		objectNameIndex: make(map[string]int),
	}

	s.id = xid.New().String()
	s.simulator = sim.NewSimulator()
	s.dataRecorder = b.buildDataRecorder(s)

	if b.eventTracingOn {
		s.eventTracer = tracing.NewDBTracer(s.dataRecorder)
		tracing.CollectTrace(s.simulator, s.eventTracer)
	}

	if b.monitorOn {
		s.monitor = monitoring.NewMonitor()
		if b.monitorPort > 0 {
			s.monitor.WithPortNumber(b.monitorPort)
		}
		if b.openBrowser {
			s.monitor.WithBrowserOpening()
		}
		s.monitor.RegisterSimulator(s.simulator)
		s.monitor.StartServer()
	}

	return s
}

func (b Builder) buildDataRecorder(s *Simulation) datarecording.DataRecorder {
	if b.clickHouseAddr != "" {
		return datarecording.NewClickHouseRecorder(
			b.clickHouseAddr,
			b.clickHouseDatabase,
			b.clickHouseUser,
			b.clickHousePassword,
		)
	}

	outputPath := b.outputFileName
	if outputPath == "" {
		outputPath = "yokan_sim_" + s.id
	}

	return datarecording.NewRecorder(outputPath)
}
