// Package sampler pairs each raw counter source with the rate calculators
// its metrics need, and assembles the per-domain results into one Snapshot
// per cycle. A domain that cannot be read is tagged unavailable in the
// snapshot; it never aborts the other domains or the cycle.
package sampler

import (
	"context"
	"time"

	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/rate"
)

// Sampler collects one domain's metrics into the snapshot under
// construction. Implementations own their calculators exclusively; nothing
// here is safe for concurrent use and nothing needs to be, since one cycle
// runs to completion before the next begins.
type Sampler interface {
	Domain() string
	Collect(ctx context.Context, snap *metrics.Snapshot)
}

// updateRate feeds a cumulative counter into its calculator and returns the
// rate, falling back to the last good value when the interval was invalid.
// A detected counter reset is logged for diagnostics and nothing else; the
// returned rate is already derived from the post-reset value.
func updateRate(c *rate.Calculator, domain, metric string, at time.Time, value float64) float64 {
	result, err := c.Update(rate.Sample{At: at, Value: value})
	if err != nil {
		logger.Debug().
			Str("domain", domain).
			Str("metric", metric).
			Err(err).
			Msg("skipping metric update")

		return c.Last().Value
	}

	if result.Reset {
		logger.Debug().
			Str("domain", domain).
			Str("metric", metric).
			Msg("counter reset detected")
	}

	return result.Value
}
