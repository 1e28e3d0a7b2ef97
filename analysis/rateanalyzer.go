package analysis

import (
	"github.com/tebeka/atexit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/yokanlab/yokan/sim"
)

// RateAnalyzer is a hook that buckets fired events by a fixed virtual-time
// period and reports the count of each non-empty bucket. When the analyzer
// terminates, it also reports the mean, standard deviation, and maximum of
// the per-bucket counts.
type RateAnalyzer struct {
	PerfLogger
	sim.TimeTeller

	period sim.VTime
	where  string

	lastTime    sim.VTime
	bucketCount uint64
	counts      []float64
	terminated  bool
}

// Func counts events as they fire.
func (a *RateAnalyzer) Func(ctx sim.HookCtx) {
	if ctx.Pos != sim.HookPosAfterEvent && ctx.Pos != sim.HookPosDestroy {
		return
	}

	if _, ok := ctx.Item.(sim.EventInfo); !ok {
		return
	}

	now := a.Now()

	if now > a.periodEndTime(a.lastTime) {
		a.summarize()
	}

	a.bucketCount++
	a.lastTime = now
}

func (a *RateAnalyzer) summarize() {
	if a.bucketCount == 0 {
		return
	}

	now := a.Now()

	startTime := a.periodStartTime(a.lastTime)
	endTime := a.periodEndTime(a.lastTime)
	if endTime > now {
		endTime = now
	}

	a.AddDataEntry(PerfEntry{
		Start: startTime,
		End:   endTime,
		Where: a.where,
		What:  "EventCount",
		Value: float64(a.bucketCount),
		Unit:  "Events",
	})

	a.counts = append(a.counts, float64(a.bucketCount))
	a.bucketCount = 0
}

// Terminate closes the open bucket and reports the summary statistics over
// all buckets seen. Terminating twice is a no-op.
func (a *RateAnalyzer) Terminate() {
	if a.terminated {
		return
	}
	a.terminated = true

	a.summarize()

	if len(a.counts) == 0 {
		return
	}

	stdDev := 0.0
	if len(a.counts) > 1 {
		stdDev = stat.StdDev(a.counts, nil)
	}

	summary := PerfEntry{
		Start: 0,
		End:   a.Now(),
		Where: a.where,
		Unit:  "Events",
	}

	summary.What = "EventCountMean"
	summary.Value = stat.Mean(a.counts, nil)
	a.AddDataEntry(summary)

	summary.What = "EventCountStdDev"
	summary.Value = stdDev
	a.AddDataEntry(summary)

	summary.What = "EventCountMax"
	summary.Value = floats.Max(a.counts)
	a.AddDataEntry(summary)
}

func (a *RateAnalyzer) periodStartTime(t sim.VTime) sim.VTime {
	return t / a.period * a.period
}

func (a *RateAnalyzer) periodEndTime(t sim.VTime) sim.VTime {
	return a.periodStartTime(t) + a.period
}

// RateAnalyzerBuilder can build a RateAnalyzer.
type RateAnalyzerBuilder struct {
	perfLogger PerfLogger
	timeTeller sim.TimeTeller
	period     sim.VTime
	where      string
}

// MakeRateAnalyzerBuilder creates a RateAnalyzerBuilder.
func MakeRateAnalyzerBuilder() RateAnalyzerBuilder {
	return RateAnalyzerBuilder{
		where: "Simulator",
	}
}

// WithPerfLogger sets the logger to be used by the RateAnalyzer.
func (b RateAnalyzerBuilder) WithPerfLogger(l PerfLogger) RateAnalyzerBuilder {
	b.perfLogger = l
	return b
}

// WithTimeTeller sets the TimeTeller to be used by the RateAnalyzer.
func (b RateAnalyzerBuilder) WithTimeTeller(
	t sim.TimeTeller,
) RateAnalyzerBuilder {
	b.timeTeller = t
	return b
}

// WithPeriod sets the bucket period of the RateAnalyzer.
func (b RateAnalyzerBuilder) WithPeriod(p sim.VTime) RateAnalyzerBuilder {
	b.period = p
	return b
}

// WithWhere sets the name the RateAnalyzer reports entries under.
func (b RateAnalyzerBuilder) WithWhere(where string) RateAnalyzerBuilder {
	b.where = where
	return b
}

// Build creates a RateAnalyzer.
func (b RateAnalyzerBuilder) Build() *RateAnalyzer {
	if b.perfLogger == nil {
		panic("RateAnalyzer requires a PerfLogger")
	}

	if b.timeTeller == nil {
		panic("RateAnalyzer requires a TimeTeller")
	}

	if b.period <= 0 {
		panic("RateAnalyzer requires a positive period")
	}

	a := &RateAnalyzer{
		PerfLogger: b.perfLogger,
		TimeTeller: b.timeTeller,
		period:     b.period,
		where:      b.where,
	}

	atexit.Register(func() { a.Terminate() })

	return a
}
