package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/yokanlab/yokan/sim"
)

var _ = Describe("CountTracer", func() {
	It("should count traces by disposition", func() {
		tracer := NewCountTracer(nil)

		tracer.EventScheduled(EventTrace{UID: 1})
		tracer.EventScheduled(EventTrace{UID: 2})
		tracer.EventFired(EventTrace{UID: 1})
		tracer.EventCancelled(EventTrace{UID: 2})

		Expect(tracer.ScheduledCount()).To(Equal(uint64(2)))
		Expect(tracer.FiredCount()).To(Equal(uint64(1)))
		Expect(tracer.CancelledCount()).To(Equal(uint64(1)))
	})

	It("should count fired events per object", func() {
		tracer := NewCountTracer(nil)

		tracer.EventFired(EventTrace{UID: 1, Where: "alu0"})
		tracer.EventFired(EventTrace{UID: 2, Where: "alu1"})
		tracer.EventFired(EventTrace{UID: 3, Where: "alu0"})

		Expect(tracer.WhereNames()).To(Equal([]string{"alu0", "alu1"}))
		Expect(tracer.FiredCountAt("alu0")).To(Equal(uint64(2)))
		Expect(tracer.FiredCountAt("alu1")).To(Equal(uint64(1)))
	})

	It("should respect the filter", func() {
		tracer := NewCountTracer(func(trace EventTrace) bool {
			return trace.Where == "alu0"
		})

		tracer.EventFired(EventTrace{UID: 1, Where: "alu0"})
		tracer.EventFired(EventTrace{UID: 2, Where: "alu1"})

		Expect(tracer.FiredCount()).To(Equal(uint64(1)))
	})

	It("should count events from a live simulator", func() {
		s := sim.NewSimulator()
		tracer := NewCountTracer(nil)
		CollectTrace(s, tracer)

		alu := sim.NewObjectBase("alu0")

		s.Schedule(sim.Nanoseconds(1), func() {})
		toCancel := s.Schedule(sim.Nanoseconds(2), func() {})
		s.ScheduleFor(alu, sim.Nanoseconds(3), func() {})
		s.ScheduleDestroy(func() {})

		s.Cancel(toCancel)
		Expect(s.Run()).To(Succeed())
		s.Destroy()

		Expect(tracer.ScheduledCount()).To(Equal(uint64(3)))
		Expect(tracer.FiredCount()).To(Equal(uint64(3)))
		Expect(tracer.CancelledCount()).To(Equal(uint64(1)))
		Expect(tracer.FiredCountAt("alu0")).To(Equal(uint64(1)))
	})
})
