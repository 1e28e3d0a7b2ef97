// Package analysis measures how fast a simulation is making progress and
// lands the measurements in CSV files or recorders.
package analysis

import "github.com/yokanlab/yokan/sim"

// PerfEntry is a single entry in the performance database.
type PerfEntry struct {
	Start sim.VTime
	End   sim.VTime
	Where string
	What  string
	Value float64
	Unit  string
}

// PerfLogger is the interface that provides the service that can record
// performance data entries.
type PerfLogger interface {
	AddDataEntry(entry PerfEntry)
}
