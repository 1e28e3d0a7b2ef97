package sim

import (
	"math"
	"strconv"
	"time"
)

// VTime is a point in simulated virtual time, counted in integral ticks.
// Virtual time has no relation to wall-clock time: it only moves when the
// simulator pops the next event, and it never decreases within one
// simulation.
//
// A raw tick is unit-free. The constructors below bind ticks to physical
// units at one tick per picosecond.
type VTime int64

const (
	ticksPerNanosecond  = 1000
	ticksPerMicrosecond = 1000 * ticksPerNanosecond
	ticksPerMillisecond = 1000 * ticksPerMicrosecond
	ticksPerSecond      = 1000 * ticksPerMillisecond
)

// Seconds returns the virtual time s seconds after time 0, rounded to the
// nearest tick.
func Seconds(s float64) VTime {
	return VTime(math.Round(s * ticksPerSecond))
}

// Milliseconds returns the virtual time ms milliseconds after time 0.
func Milliseconds(ms int64) VTime {
	return VTime(ms) * ticksPerMillisecond
}

// Microseconds returns the virtual time us microseconds after time 0.
func Microseconds(us int64) VTime {
	return VTime(us) * ticksPerMicrosecond
}

// Nanoseconds returns the virtual time ns nanoseconds after time 0.
func Nanoseconds(ns int64) VTime {
	return VTime(ns) * ticksPerNanosecond
}

// Picoseconds returns the virtual time ps picoseconds after time 0.
func Picoseconds(ps int64) VTime {
	return VTime(ps)
}

// FromDuration converts a duration literal such as 10*time.Microsecond to
// virtual time. The conversion is purely a change of unit.
func FromDuration(d time.Duration) VTime {
	return VTime(d.Nanoseconds()) * ticksPerNanosecond
}

// Seconds returns the time as a floating-point number of seconds.
func (t VTime) Seconds() float64 {
	return float64(t) / ticksPerSecond
}

// Nanoseconds returns the time as a whole number of nanoseconds, truncating
// any sub-nanosecond part.
func (t VTime) Nanoseconds() int64 {
	return int64(t) / ticksPerNanosecond
}

// Picoseconds returns the time in picoseconds.
func (t VTime) Picoseconds() int64 {
	return int64(t)
}

// ToDuration converts the time to a time.Duration, truncating any
// sub-nanosecond part.
func (t VTime) ToDuration() time.Duration {
	return time.Duration(t / ticksPerNanosecond)
}

func (t VTime) String() string {
	if t%ticksPerNanosecond == 0 {
		return time.Duration(t / ticksPerNanosecond).String()
	}

	return strconv.FormatInt(int64(t), 10) + "ps"
}
