package tracing

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/tebeka/atexit"

	"github.com/yokanlab/yokan/sim"
)

// CSVTracer is a tracer that stores event traces in a CSV file.
type CSVTracer struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVTracer creates a new CSVTracer writing to the file at path. If the
// file already exists, it is overwritten. The file is flushed and closed
// when the program exits.
func NewCSVTracer(path string) *CSVTracer {
	file, err := os.Create(path)
	if err != nil {
		panic(err)
	}

	t := &CSVTracer{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
	}

	header := []string{
		"UID", "Context", "ScheduledAt", "Time", "Disposition", "Where",
	}
	if err := t.writer.Write(header); err != nil {
		panic(err)
	}

	atexit.Register(func() {
		t.Close()
	})

	return t
}

// EventScheduled does nothing: the tracer records each event once, at its
// terminal disposition.
func (t *CSVTracer) EventScheduled(_ EventTrace) {
	// Do nothing.
}

// EventFired records a fired event.
func (t *CSVTracer) EventFired(trace EventTrace) {
	t.record(trace)
}

// EventCancelled records a cancelled event.
func (t *CSVTracer) EventCancelled(trace EventTrace) {
	t.record(trace)
}

func (t *CSVTracer) record(trace EventTrace) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writer == nil {
		return
	}

	context := ""
	if trace.Context != sim.NoContext {
		context = strconv.FormatUint(uint64(trace.Context), 10)
	}

	row := []string{
		strconv.FormatUint(trace.UID, 10),
		context,
		strconv.FormatInt(int64(trace.ScheduledAt), 10),
		strconv.FormatInt(int64(trace.Time), 10),
		trace.Disposition,
		trace.Where,
	}

	if err := t.writer.Write(row); err != nil {
		panic(err)
	}
}

// Flush lands the buffered rows in the file.
func (t *CSVTracer) Flush() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.writer.Flush()
	if err := t.writer.Error(); err != nil {
		panic(err)
	}
}

// Close flushes the buffered rows and closes the file. Closing twice is a
// no-op.
func (t *CSVTracer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.writer == nil {
		return
	}

	t.writer.Flush()
	if err := t.writer.Error(); err != nil {
		panic(err)
	}
	t.writer = nil

	if err := t.file.Close(); err != nil {
		panic(err)
	}
}
