package sim

import (
	"fmt"
	"math"
)

// Freq defines the type of frequency
type Freq float64

// Defines the unit of frequency
const (
	Hz  Freq = 1
	KHz Freq = 1e3
	MHz Freq = 1e6
	GHz Freq = 1e9
)

func (f Freq) mustBeUsable(op string) {
	if f <= 0 || math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		violateContract(op, "frequency %v Hz is not usable", float64(f))
	}
}

// Period returns the time between two consecutive ticks, rounded to the
// nearest representable tick. A frequency above the tick resolution cannot
// be represented and is a usage error.
func (f Freq) Period() VTime {
	f.mustBeUsable("Period")

	p := VTime(math.Round(ticksPerSecond / float64(f)))
	if p <= 0 {
		violateContract("Period",
			"frequency %v Hz is above the tick resolution", float64(f))
	}

	return p
}

// Cycle converts a time to the number of cycles passed since time 0.
func (f Freq) Cycle(t VTime) uint64 {
	return uint64(t / f.Period())
}

// ThisTick returns the current tick time
//
//	           Input
//	           (          ]
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) ThisTick(now VTime) VTime {
	p := f.Period()
	return (now + p - 1) / p * p
}

// NextTick returns the next tick time.
//
//	           Input
//	           [          )
//	|----------|----------|----------|----->
//	                      |
//	                      Output
func (f Freq) NextTick(now VTime) VTime {
	p := f.Period()
	return now/p*p + p
}

// NCyclesLater returns the time after N cycles
//
// This function will always return a time of an integer number of cycles
func (f Freq) NCyclesLater(n int, now VTime) VTime {
	if n < 0 {
		violateContract("NCyclesLater", "cycle count %d is negative", n)
	}

	return f.ThisTick(now + VTime(n)*f.Period())
}

// NoEarlierThan returns the tick time that is at or right after the given time
func (f Freq) NoEarlierThan(t VTime) VTime {
	return f.ThisTick(t)
}

// HalfTick returns the time in middle of two ticks
//
//	           Input
//	           (          ]
//	|----------|----------|----------|----->
//	                           |
//	                           Output
func (f Freq) HalfTick(t VTime) VTime {
	return f.ThisTick(t) + f.Period()/2
}

func (f Freq) String() string {
	switch {
	case f >= GHz:
		return fmt.Sprintf("%.4gGHz", float64(f/GHz))
	case f >= MHz:
		return fmt.Sprintf("%.4gMHz", float64(f/MHz))
	case f >= KHz:
		return fmt.Sprintf("%.4gkHz", float64(f/KHz))
	default:
		return fmt.Sprintf("%.4gHz", float64(f))
	}
}
