package analysis

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/tebeka/atexit"

	"github.com/yokanlab/yokan/datarecording"
)

// PerfBackend is a PerfLogger that can also flush its buffered entries.
type PerfBackend interface {
	PerfLogger
	Flush()
}

// CSVBackend is a PerfBackend that writes data entries to a CSV file.
type CSVBackend struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVBackend creates a CSVBackend writing to filename with ".csv"
// appended. An existing file is overwritten. The file is flushed when the
// program exits.
func NewCSVBackend(filename string) *CSVBackend {
	file, err := os.Create(filename + ".csv")
	if err != nil {
		panic(err)
	}

	b := &CSVBackend{
		file:   file,
		writer: csv.NewWriter(file),
	}

	header := []string{"Start", "End", "Where", "What", "Value", "Unit"}
	if err := b.writer.Write(header); err != nil {
		panic(err)
	}

	atexit.Register(func() {
		b.Flush()
	})

	return b
}

// AddDataEntry adds a data entry to the CSV file.
func (b *CSVBackend) AddDataEntry(entry PerfEntry) {
	err := b.writer.Write([]string{
		strconv.FormatInt(int64(entry.Start), 10),
		strconv.FormatInt(int64(entry.End), 10),
		entry.Where,
		entry.What,
		strconv.FormatFloat(entry.Value, 'g', -1, 64),
		entry.Unit,
	})
	if err != nil {
		panic(err)
	}
}

// Flush flushes the CSV writer.
func (b *CSVBackend) Flush() {
	b.writer.Flush()
	if err := b.writer.Error(); err != nil {
		panic(err)
	}
}

// RecorderBackend is a PerfBackend that writes data entries through a
// DataRecorder, typically into a SQLite file next to the other run
// artifacts.
type RecorderBackend struct {
	recorder datarecording.DataRecorder
}

// NewRecorderBackend creates a RecorderBackend writing into a perf table of
// the given recorder.
func NewRecorderBackend(recorder datarecording.DataRecorder) *RecorderBackend {
	recorder.CreateTable("perf", PerfEntry{})

	return &RecorderBackend{recorder: recorder}
}

// AddDataEntry adds a data entry to the perf table.
func (b *RecorderBackend) AddDataEntry(entry PerfEntry) {
	b.recorder.InsertData("perf", entry)
}

// Flush flushes the underlying recorder.
func (b *RecorderBackend) Flush() {
	b.recorder.Flush()
}
