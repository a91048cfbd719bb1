// Package rate normalizes raw counter readings into per-second rates and
// percentages. Each Calculator owns the prior reading for exactly one metric;
// the update rule is selected by the metric's counter model (Kind) so all
// normalization logic lives in one place.
package rate

import (
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
)

// Kind selects the update rule for a metric.
type Kind int

const (
	// Cumulative is a monotonically increasing counter, normalized to a
	// per-second rate from the delta of two readings.
	Cumulative Kind = iota
	// Gauge is an instantaneous value passed through unchanged.
	Gauge
	// BusyPercent is an active-ticks counter normalized against an
	// elapsed-ticks counter, producing a percentage in [0, 100].
	BusyPercent
)

const percentMax = 100.0

// Sample is one raw observation of a metric. Value carries the counter,
// gauge, or active-ticks reading; Total carries elapsed ticks and is only
// meaningful for BusyPercent metrics.
type Sample struct {
	At    time.Time
	Value float64
	Total float64
}

// Result is a normalized value. Reset is set when a cumulative counter
// decreased between readings and the rate was derived from the post-reset
// absolute value instead of the raw delta.
type Result struct {
	Value float64
	Reset bool
}

// Calculator converts successive samples of one metric into normalized
// values. It is not safe for concurrent use; each sampler owns its
// calculators exclusively.
type Calculator struct {
	kind   Kind
	prev   Sample
	primed bool
	last   Result
}

func New(kind Kind) *Calculator {
	return &Calculator{kind: kind}
}

func (c *Calculator) Kind() Kind {
	return c.kind
}

// Last returns the most recent successfully computed result. Callers fall
// back to it when Update reports an invalid interval.
func (c *Calculator) Last() Result {
	return c.last
}

// Update computes the normalized value for the given sample against the
// stored prior sample. The prior sample is always replaced, even on failure,
// so skipped cycles do not accumulate drift. The first call never fails and
// yields a zero rate (gauges pass through immediately).
func (c *Calculator) Update(s Sample) (Result, error) {
	errFactory := errors.New()

	if c.kind == Gauge {
		c.prev = s
		c.primed = true
		c.last = Result{Value: s.Value}

		return c.last, nil
	}

	if !c.primed {
		c.prev = s
		c.primed = true
		c.last = Result{}

		return c.last, nil
	}

	prev := c.prev
	c.prev = s

	elapsed := s.At.Sub(prev.At)
	if elapsed <= 0 {
		return c.last, errFactory.WithData(errors.ErrInvalidInterval, elapsed)
	}

	switch c.kind {
	case Cumulative:
		c.last = cumulativeRate(prev, s, elapsed)
	case BusyPercent:
		result, err := busyPercent(prev, s)
		if err != nil {
			return c.last, err
		}
		c.last = result
	}

	return c.last, nil
}

// cumulativeRate derives a per-second rate from two counter readings. A
// decreased counter means the underlying device reset; the post-reset
// absolute value stands in for the delta so the rate is never negative.
func cumulativeRate(prev, cur Sample, elapsed time.Duration) Result {
	seconds := elapsed.Seconds()
	delta := cur.Value - prev.Value
	if delta < 0 {
		return Result{Value: cur.Value / seconds, Reset: true}
	}

	return Result{Value: delta / seconds}
}

// busyPercent normalizes active ticks against elapsed ticks. Tick counters
// that went backwards are treated as a reset and re-derived from the
// absolute readings; zero elapsed ticks means two samples collapsed.
func busyPercent(prev, cur Sample) (Result, error) {
	errFactory := errors.New()

	activeDelta := cur.Value - prev.Value
	totalDelta := cur.Total - prev.Total

	if activeDelta < 0 || totalDelta < 0 {
		if cur.Total <= 0 {
			return Result{}, errFactory.WithData(errors.ErrInvalidInterval, cur.Total)
		}

		return Result{Value: clampPercent(percentMax * cur.Value / cur.Total), Reset: true}, nil
	}

	if totalDelta == 0 {
		return Result{}, errFactory.WithData(errors.ErrInvalidInterval, totalDelta)
	}

	return Result{Value: clampPercent(percentMax * activeDelta / totalDelta)}, nil
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > percentMax {
		return percentMax
	}

	return v
}
