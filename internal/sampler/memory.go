package sampler

import (
	"context"

	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/rate"
	"codeberg.org/mutker/bustop/internal/source"
)

// Available-memory ratios below these thresholds map to the warn and
// critical pressure levels.
const (
	pressureWarnRatio     = 0.15
	pressureCriticalRatio = 0.05
)

type memorySampler struct {
	src        source.MemorySource
	pageIns    *rate.Calculator
	pageOuts   *rate.Calculator
	pageFaults *rate.Calculator
}

func NewMemorySampler(src source.MemorySource) Sampler {
	return &memorySampler{
		src:        src,
		pageIns:    rate.New(rate.Cumulative),
		pageOuts:   rate.New(rate.Cumulative),
		pageFaults: rate.New(rate.Cumulative),
	}
}

func (*memorySampler) Domain() string {
	return "memory"
}

func (s *memorySampler) Collect(ctx context.Context, snap *metrics.Snapshot) {
	reading, err := s.src.Read(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("memory source unavailable")
		snap.MemoryStatus = metrics.StatusUnavailable

		return
	}

	snap.MemoryStatus = metrics.StatusOK
	snap.Memory = metrics.Memory{
		TotalBytes:       reading.TotalBytes,
		UsedBytes:        reading.UsedBytes,
		FreeBytes:        reading.FreeBytes,
		CachedBytes:      reading.CachedBytes,
		SwapUsedBytes:    reading.SwapUsedBytes,
		SwapTotalBytes:   reading.SwapTotalBytes,
		PageInsPerSec:    updateRate(s.pageIns, "memory", "page_ins", reading.At, float64(reading.PageIns)),
		PageOutsPerSec:   updateRate(s.pageOuts, "memory", "page_outs", reading.At, float64(reading.PageOuts)),
		PageFaultsPerSec: updateRate(s.pageFaults, "memory", "page_faults", reading.At, float64(reading.PageFaults)),
		Pressure:         pressureLevel(reading.AvailableBytes, reading.TotalBytes),
	}
}

func pressureLevel(available, total uint64) metrics.MemoryPressure {
	if total == 0 {
		return metrics.PressureNormal
	}

	ratio := float64(available) / float64(total)
	switch {
	case ratio < pressureCriticalRatio:
		return metrics.PressureCritical
	case ratio < pressureWarnRatio:
		return metrics.PressureWarn
	default:
		return metrics.PressureNormal
	}
}
