package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yokanlab/yokan/analysis"
	"github.com/yokanlab/yokan/experiment"
	"github.com/yokanlab/yokan/sim"
	"github.com/yokanlab/yokan/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run <experiment.yaml>",
	Short: "Run a YAML-described workload",
	Long: `Run builds a simulation, instantiates the workload described by the
given YAML file on it, and runs it until the event queue drains or the
workload's stop time is reached. Artifacts are recorded to a SQLite file in
the working directory, or to a ClickHouse server when --clickhouse is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runExperiment,
}

func init() {
	runCmd.Flags().Bool("monitor", true,
		"serve the live monitor over HTTP while the simulation runs")
	runCmd.Flags().Int("monitor-port", 0,
		"monitor port (0 picks a free one; ports below 1000 are refused)")
	runCmd.Flags().Bool("open-browser", false,
		"open the monitor page in a browser")
	runCmd.Flags().StringP("output", "o", "",
		"recording file name, \".sqlite3\" is appended (default yokan_sim_<id>)")
	runCmd.Flags().Bool("trace-events", false,
		"record every executed event into the recording")
	runCmd.Flags().String("clickhouse", "",
		"record to this ClickHouse address (host:port) instead of a file")
	runCmd.Flags().String("perf-period", "",
		"bucket period for event-rate analysis (e.g. 10us); empty disables")
	runCmd.Flags().String("perf-csv", "",
		"write event-rate samples to this CSV file instead of the recording")

	dieOnErr(v.BindPFlag("monitor.enabled",
		runCmd.Flags().Lookup("monitor")))
	dieOnErr(v.BindPFlag("monitor.port",
		runCmd.Flags().Lookup("monitor-port")))
	dieOnErr(v.BindPFlag("monitor.browser",
		runCmd.Flags().Lookup("open-browser")))
	dieOnErr(v.BindPFlag("output",
		runCmd.Flags().Lookup("output")))
	dieOnErr(v.BindPFlag("trace.events",
		runCmd.Flags().Lookup("trace-events")))
	dieOnErr(v.BindPFlag("clickhouse.addr",
		runCmd.Flags().Lookup("clickhouse")))
	dieOnErr(v.BindPFlag("perf.period",
		runCmd.Flags().Lookup("perf-period")))
	dieOnErr(v.BindPFlag("perf.csv",
		runCmd.Flags().Lookup("perf-csv")))

	rootCmd.AddCommand(runCmd)
}

func runExperiment(cmd *cobra.Command, args []string) error {
	spec, err := experiment.ReadSpec(args[0])
	if err != nil {
		return err
	}

	s, err := buildSimulation()
	if err != nil {
		return err
	}

	sources := experiment.Build(s, spec)

	analyzer, err := buildRateAnalyzer(s)
	if err != nil {
		s.Terminate()
		return err
	}

	simulator := s.GetSimulator()

	logger.WithFields(logrus.Fields{
		"experiment": spec.Name,
		"simulation": s.ID(),
		"sources":    len(sources),
	}).Info("simulation starting")

	start := time.Now()
	runErr := simulator.Run()
	wall := time.Since(start)

	// The analyzer writes through the recorder, so it has to close its last
	// bucket before Terminate closes the recorder.
	if analyzer != nil {
		analyzer.Terminate()
	}

	var pulses, fanned uint64
	for _, src := range sources {
		pulses += src.Pulses()
		fanned += src.FanoutEvents()
	}

	summary := logrus.Fields{
		"executed":      simulator.ExecutedEvents(),
		"virtual_time":  simulator.Now().String(),
		"wall_time":     wall.String(),
		"pulses":        pulses,
		"fanout_events": fanned,
	}

	s.Terminate()

	if runErr != nil {
		logger.WithError(runErr).Error("simulation failed")
		return runErr
	}

	logger.WithFields(summary).Info("simulation finished")

	return nil
}

func buildSimulation() (*simulation.Simulation, error) {
	monitorOn := v.GetBool("monitor.enabled")

	if !monitorOn && v.GetInt("monitor.port") > 0 {
		return nil, errors.New(
			"--monitor-port requires the monitor (drop --monitor=false)")
	}

	if !monitorOn && v.GetBool("monitor.browser") {
		return nil, errors.New(
			"--open-browser requires the monitor (drop --monitor=false)")
	}

	if v.GetString("clickhouse.addr") != "" && v.GetString("output") != "" {
		return nil, errors.New("--output cannot be combined with --clickhouse")
	}

	builder := simulation.MakeBuilder()

	if monitorOn {
		if port := v.GetInt("monitor.port"); port > 0 {
			builder = builder.WithMonitorPort(port)
		}
		if v.GetBool("monitor.browser") {
			builder = builder.WithBrowserOpening()
		}
	} else {
		builder = builder.WithoutMonitoring()
	}

	if addr := v.GetString("clickhouse.addr"); addr != "" {
		builder = builder.WithClickHouseRecording(
			addr,
			v.GetString("clickhouse.database"),
			v.GetString("clickhouse.username"),
			v.GetString("clickhouse.password"),
		)
	} else if output := v.GetString("output"); output != "" {
		builder = builder.WithOutputFileName(output)
	}

	if v.GetBool("trace.events") {
		builder = builder.WithEventTracing()
	}

	return builder.Build(), nil
}

// buildRateAnalyzer attaches an event-rate analyzer to the simulation when a
// perf period is configured. Samples land in a perf table of the recording,
// or in a CSV file when perf.csv is set.
func buildRateAnalyzer(
	s *simulation.Simulation,
) (*analysis.RateAnalyzer, error) {
	periodStr := v.GetString("perf.period")
	if periodStr == "" {
		return nil, nil
	}

	period, err := time.ParseDuration(periodStr)
	if err != nil {
		return nil, fmt.Errorf("invalid perf period %q: %w", periodStr, err)
	}

	if period <= 0 {
		return nil, fmt.Errorf("perf period %q is not positive", periodStr)
	}

	var backend analysis.PerfBackend
	if csvPath := v.GetString("perf.csv"); csvPath != "" {
		backend = analysis.NewCSVBackend(csvPath)
	} else {
		backend = analysis.NewRecorderBackend(s.GetDataRecorder())
	}

	simulator := s.GetSimulator()

	analyzer := analysis.MakeRateAnalyzerBuilder().
		WithPerfLogger(backend).
		WithTimeTeller(simulator).
		WithPeriod(sim.FromDuration(period)).
		Build()

	simulator.AcceptHook(analyzer)

	return analyzer, nil
}
