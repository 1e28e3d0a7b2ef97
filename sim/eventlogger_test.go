package sim

import (
	"bytes"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("EventLogger", func() {
	var (
		buf    bytes.Buffer
		logger *EventLogger
		s      *Simulator
	)

	BeforeEach(func() {
		buf.Reset()
		logger = NewEventLogger(log.New(&buf, "", 0))
		s = NewSimulator()
		s.AcceptHook(logger)
	})

	It("should print a line for every event fired", func() {
		alu := NewObjectBase("alu0")

		s.Schedule(Nanoseconds(1), func() {})
		s.ScheduleWithContext(7, Nanoseconds(2), func() {})
		s.ScheduleFor(alu, Nanoseconds(3), func() {})

		Expect(s.Run()).To(Succeed())

		Expect(buf.String()).To(Equal(
			"1ns, uid 0\n" +
				"2ns, uid 1, ctx 7\n" +
				"3ns, uid 2 -> alu0\n"))
	})

	It("should print teardown callbacks", func() {
		s.ScheduleDestroy(func() {})
		s.Destroy()

		Expect(buf.String()).To(Equal("0s, uid 0\n"))
	})

	It("should stay quiet at other hook positions", func() {
		logger.Func(HookCtx{
			Domain: s,
			Pos:    HookPosSchedule,
			Item:   EventInfo{UID: 1},
		})

		Expect(buf.String()).To(BeEmpty())
	})

	It("should ignore items that are not events", func() {
		logger.Func(HookCtx{
			Domain: s,
			Pos:    HookPosBeforeEvent,
			Item:   "not an event",
		})

		Expect(buf.String()).To(BeEmpty())
	})
})
