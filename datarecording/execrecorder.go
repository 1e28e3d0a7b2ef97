package datarecording

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// An execInfo row describes one property of the recorded program run.
type execInfo struct {
	Property string
	Value    string
}

// execRecorder logs how the artifact was produced: the command line, the
// working directory, and the wall-clock start and end times.
type execRecorder struct {
	tableName string
	recorder  DataRecorder
	entries   []execInfo
}

// newExecRecorder creates an execRecorder writing through the given
// recorder, creating its exec_info table right away.
func newExecRecorder(recorder DataRecorder) *execRecorder {
	e := &execRecorder{
		tableName: "exec_info",
		recorder:  recorder,
	}

	e.recorder.CreateTable(e.tableName, execInfo{})

	return e
}

// Start logs the current execution.
func (e *execRecorder) Start() {
	startTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.entries = append(e.entries, execInfo{"Start Time", startTime})

	cmd := strings.Join(os.Args, " ")
	e.entries = append(e.entries, execInfo{"Command", cmd})

	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}

	cwd := filepath.Dir(ex)
	e.entries = append(e.entries, execInfo{"Working Directory", cwd})
}

// End writes the collected entries along with the program end time.
func (e *execRecorder) End() {
	for _, entry := range e.entries {
		e.recorder.InsertData(e.tableName, entry)
	}

	endTime := time.Now().Format("2006-01-02 15:04:05.000000000")
	e.recorder.InsertData(e.tableName, execInfo{"End Time", endTime})

	e.entries = nil

	e.recorder.Flush()
}
