package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		var f = 1 * GHz
		Expect(f.Period()).To(Equal(Nanoseconds(1)))
	})

	It("should round the period to the nearest tick", func() {
		var f = 3 * GHz
		Expect(f.Period()).To(Equal(Picoseconds(333)))
	})

	It("should get this tick, on tick", func() {
		var f = 1 * GHz
		Expect(f.ThisTick(Nanoseconds(102))).To(Equal(Nanoseconds(102)))
	})

	It("should get this tick, off tick", func() {
		var f = 1 * GHz
		Expect(f.ThisTick(Picoseconds(102500))).To(Equal(Picoseconds(103000)))
	})

	It("should get the next tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(Nanoseconds(102))).To(Equal(Nanoseconds(103)))
	})

	It("should get the next tick, off tick", func() {
		var f = 1 * GHz
		Expect(f.NextTick(Picoseconds(102500))).To(Equal(Nanoseconds(103)))
	})

	It("should get the next tick from time zero", func() {
		var f = 1 * GHz
		Expect(f.NextTick(0)).To(Equal(Nanoseconds(1)))
	})

	It("should get the n cycles later", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, Nanoseconds(102))).
			To(Equal(Nanoseconds(114)))
	})

	It("should get the n cycles later, off tick", func() {
		var f = 1 * GHz
		Expect(f.NCyclesLater(12, Picoseconds(102500))).
			To(Equal(Nanoseconds(115)))
	})

	It("should get the no-earlier-than time, on tick", func() {
		var f = 1 * GHz
		Expect(f.NoEarlierThan(Nanoseconds(102))).To(Equal(Nanoseconds(102)))
	})

	It("should get the no-earlier-than time, off tick", func() {
		var f = 1 * GHz
		Expect(f.NoEarlierThan(Picoseconds(102001))).
			To(Equal(Nanoseconds(103)))
	})

	It("should get the half tick", func() {
		var f = 1 * GHz
		Expect(f.HalfTick(Picoseconds(102500))).To(Equal(Picoseconds(103500)))
	})

	It("should count cycles", func() {
		var f = 1 * GHz
		Expect(f.Cycle(Picoseconds(5500))).To(Equal(uint64(5)))
	})

	It("should reject a zero frequency", func() {
		var f Freq
		Expect(func() { f.Period() }).
			To(PanicWith(BeAssignableToTypeOf(&ContractError{})))
	})

	It("should reject frequencies above the tick resolution", func() {
		f := Freq(1e13)
		Expect(func() { f.Period() }).
			To(PanicWith(BeAssignableToTypeOf(&ContractError{})))
	})
})
