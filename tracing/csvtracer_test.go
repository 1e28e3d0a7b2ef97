package tracing

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yokanlab/yokan/sim"
)

var _ = Describe("CSVTracer", func() {
	var (
		path   string
		tracer *CSVTracer
	)

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "trace.csv")
		tracer = NewCSVTracer(path)
	})

	It("should write one line per terminal event", func() {
		tracer.EventFired(EventTrace{
			UID:         1,
			Context:     sim.NoContext,
			ScheduledAt: 0,
			Time:        sim.Nanoseconds(2),
			Disposition: DispositionFired,
			Where:       "alu0",
		})
		tracer.EventCancelled(EventTrace{
			UID:         2,
			Context:     5,
			ScheduledAt: sim.Nanoseconds(1),
			Time:        sim.Nanoseconds(3),
			Disposition: DispositionCancelled,
		})
		tracer.EventScheduled(EventTrace{UID: 3})
		tracer.Close()

		content, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())

		lines := strings.Split(strings.TrimSpace(string(content)), "\n")
		Expect(lines).To(HaveLen(3))
		Expect(lines[0]).To(Equal("UID,Context,ScheduledAt,Time,Disposition,Where"))
		Expect(lines[1]).To(Equal("1,,0,2000,fired,alu0"))
		Expect(lines[2]).To(Equal("2,5,1000,3000,cancelled,"))
	})

	It("should overwrite a file left by an earlier run", func() {
		tracer.Close()

		second := NewCSVTracer(path)
		second.Close()

		content, err := os.ReadFile(path)
		Expect(err).ToNot(HaveOccurred())
		Expect(strings.Count(string(content), "UID")).To(Equal(1))
	})

	It("should tolerate closing twice", func() {
		tracer.Close()

		Expect(func() { tracer.Close() }).ToNot(Panic())
	})

	It("should drop records after close", func() {
		tracer.Close()

		Expect(func() {
			tracer.EventFired(EventTrace{UID: 1})
		}).ToNot(Panic())
	})
})
