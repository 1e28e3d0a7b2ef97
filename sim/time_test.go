package sim

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VTime", func() {
	It("should convert from units", func() {
		Expect(Seconds(1.5)).To(Equal(VTime(1500000000000)))
		Expect(Milliseconds(2)).To(Equal(VTime(2000000000)))
		Expect(Microseconds(3)).To(Equal(VTime(3000000)))
		Expect(Nanoseconds(4)).To(Equal(VTime(4000)))
		Expect(Picoseconds(5)).To(Equal(VTime(5)))
	})

	It("should round fractional seconds to the nearest tick", func() {
		Expect(Seconds(1e-12)).To(Equal(VTime(1)))
		Expect(Seconds(1.4e-13)).To(Equal(VTime(0)))
	})

	It("should convert from durations", func() {
		Expect(FromDuration(3 * time.Millisecond)).To(Equal(Milliseconds(3)))
		Expect(FromDuration(time.Second)).To(Equal(Seconds(1)))
	})

	It("should convert back to units", func() {
		t := Milliseconds(2)
		Expect(t.Seconds()).To(BeNumerically("~", 0.002, 1e-15))
		Expect(t.Nanoseconds()).To(Equal(int64(2000000)))
		Expect(t.Picoseconds()).To(Equal(int64(2000000000)))
		Expect(t.ToDuration()).To(Equal(2 * time.Millisecond))
	})

	It("should print nanosecond-aligned times as durations", func() {
		Expect(Milliseconds(2).String()).To(Equal("2ms"))
		Expect(VTime(0).String()).To(Equal("0s"))
		Expect(Nanoseconds(1500).String()).To(Equal("1.5µs"))
	})

	It("should print sub-nanosecond times in picoseconds", func() {
		Expect(Picoseconds(1500).String()).To(Equal("1500ps"))
		Expect(Picoseconds(1).String()).To(Equal("1ps"))
	})
})
