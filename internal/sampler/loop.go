package sampler

import (
	"context"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
)

// Emitter consumes one snapshot per cycle, in emission order. Emitter
// failures are the emitter's own concern; they are logged and never affect
// the loop's cycle count.
type Emitter interface {
	Emit(snap *metrics.Snapshot) error
}

// Cycler produces one snapshot per call. Satisfied by *Engine; tests swap
// in a stub.
type Cycler interface {
	Cycle(ctx context.Context) *metrics.Snapshot
}

// Loop drives sampling at a fixed cadence. Each cycle aims to start exactly
// one interval after the previous cycle's start; an overrun makes the next
// cycle start immediately and shows up in the snapshot's actual interval
// rather than being silently corrected.
type Loop struct {
	engine   Cycler
	interval time.Duration
	count    uint64
	emitters []Emitter
}

// NewLoop validates the cadence up front; an interval that is not strictly
// positive is the one fatal condition left once sampling would start.
func NewLoop(engine Cycler, interval time.Duration, count uint64, emitters ...Emitter) (*Loop, error) {
	errFactory := errors.New()

	if interval <= 0 {
		return nil, errFactory.WithData(errors.ErrInvalidInterval, interval)
	}

	return &Loop{
		engine:   engine,
		interval: interval,
		count:    count,
		emitters: emitters,
	}, nil
}

// Run samples until the configured count is reached or ctx is cancelled.
// Cancellation is cooperative: it is checked between cycles, never mid-
// cycle, so a snapshot is either fully emitted or not emitted at all.
func (l *Loop) Run(ctx context.Context) error {
	var emitted uint64

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := time.Now()
		snap := l.engine.Cycle(ctx)

		for _, emitter := range l.emitters {
			if err := emitter.Emit(snap); err != nil {
				logger.Error().Err(err).Msg("failed to emit snapshot")
			}
		}

		emitted++
		if l.count > 0 && emitted >= l.count {
			logger.Debug().Uint64("count", emitted).Msg("sample count reached")

			return nil
		}

		// Next cycle starts one interval after this cycle's start. If
		// the cycle overran, wait is negative and we go again at once.
		wait := time.Until(start.Add(l.interval))
		if wait <= 0 {
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()

			return nil
		case <-timer.C:
		}
	}
}
