package sampler

import (
	"context"
	"time"

	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/source"
)

// Engine runs one aggregation cycle across all domain samplers and owns the
// long-lived source handles. Calculator state lives inside the samplers for
// the engine's whole lifetime; snapshots are built fresh every cycle.
type Engine struct {
	samplers  []Sampler
	gpuSource source.GPUSource
	interval  time.Duration
	lastStart time.Time
}

// NewEngine acquires every source handle once, before the first cycle. The
// GPU source is the only one that can fail to open; on machines without
// supported hardware the GPU domain degrades to permanently unavailable
// rather than failing startup.
func NewEngine(ctx context.Context, interval time.Duration) *Engine {
	gpuSrc, err := source.NewGPUSource()
	if err != nil {
		logger.Info().Err(err).Msg("GPU counters unavailable, domain disabled")
		gpuSrc = nil
	}

	engine := NewEngineWithSamplers(interval,
		NewMemorySampler(source.NewMemorySource()),
		NewCPUSampler(source.NewCPUSource(ctx)),
		NewGPUSampler(gpuSrc),
		NewDiskSampler(source.NewDiskSource()),
		NewSystemSampler(source.NewPowerSource()),
	)
	engine.gpuSource = gpuSrc

	return engine
}

// NewEngineWithSamplers builds an engine over an explicit sampler set.
func NewEngineWithSamplers(interval time.Duration, samplers ...Sampler) *Engine {
	return &Engine{
		samplers:  samplers,
		interval:  interval,
		lastStart: time.Now(),
	}
}

// Cycle runs all samplers once and aggregates their results into a single
// snapshot. Aggregation itself cannot fail: every domain slot is present,
// populated or explicitly unavailable.
func (e *Engine) Cycle(ctx context.Context) *metrics.Snapshot {
	start := time.Now()

	// Sources must answer within the cycle's own budget.
	readCtx, cancel := context.WithTimeout(ctx, e.interval)
	defer cancel()

	snap := &metrics.Snapshot{
		Timestamp:         start,
		RequestedInterval: e.interval,
		ActualInterval:    start.Sub(e.lastStart),
	}
	e.lastStart = start

	for _, s := range e.samplers {
		s.Collect(readCtx, snap)
	}

	aggregatePower(snap)

	return snap
}

// Close releases the long-lived source handles. Called on every exit path.
func (e *Engine) Close() error {
	if e.gpuSource != nil {
		return e.gpuSource.Close()
	}

	return nil
}

// aggregatePower folds the GPU devices' power into the system total. Core
// power is a subset of package power and is reported but not re-added.
func aggregatePower(snap *metrics.Snapshot) {
	if snap.GPUStatus == metrics.StatusOK {
		for _, gpu := range snap.GPUs {
			snap.System.GPUPowerWatts += gpu.PowerWatts
		}
	}

	if snap.SystemStatus == metrics.StatusOK || snap.System.GPUPowerWatts > 0 {
		snap.System.TotalPowerWatts = snap.System.PackagePowerWatts +
			snap.System.DRAMPowerWatts +
			snap.System.GPUPowerWatts
	}
}
