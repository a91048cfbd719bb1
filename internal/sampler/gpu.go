package sampler

import (
	"context"
	"fmt"

	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/rate"
	"codeberg.org/mutker/bustop/internal/source"
)

const millijoulesPerWattSecond = 1000.0

type gpuCalcs struct {
	energy *rate.Calculator
	util   *rate.Calculator
}

type gpuSampler struct {
	// src is nil when GPU hardware was absent at startup; the domain is
	// then permanently unavailable but still present in every snapshot.
	src   source.GPUSource
	calcs map[string]*gpuCalcs
}

func NewGPUSampler(src source.GPUSource) Sampler {
	return &gpuSampler{
		src:   src,
		calcs: make(map[string]*gpuCalcs),
	}
}

func (*gpuSampler) Domain() string {
	return "gpu"
}

func (s *gpuSampler) Collect(ctx context.Context, snap *metrics.Snapshot) {
	if s.src == nil {
		snap.GPUStatus = metrics.StatusUnavailable

		return
	}

	reading, err := s.src.Read(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("gpu source unavailable")
		snap.GPUStatus = metrics.StatusUnavailable

		return
	}

	snap.GPUStatus = metrics.StatusOK

	seen := make(map[string]struct{}, len(reading.Devices))
	for _, dev := range reading.Devices {
		key := fmt.Sprintf("%d:%s", dev.Index, dev.Name)
		seen[key] = struct{}{}

		calcs, ok := s.calcs[key]
		if !ok {
			calcs = &gpuCalcs{
				energy: rate.New(rate.Cumulative),
				util:   rate.New(rate.Gauge),
			}
			s.calcs[key] = calcs
		}

		// Energy counter is millijoules; its per-second rate is milliwatts.
		powerWatts := updateRate(calcs.energy, "gpu", "energy", reading.At,
			float64(dev.EnergyMillijoules)) / millijoulesPerWattSecond

		utilResult, _ := calcs.util.Update(rate.Sample{At: reading.At, Value: dev.UtilizationPct})

		snap.GPUs = append(snap.GPUs, metrics.GPUDevice{
			Name:          dev.Name,
			Index:         dev.Index,
			ActivePct:     utilResult.Value,
			FreqMHz:       dev.FreqMHz,
			MemUsedBytes:  dev.MemUsedBytes,
			MemTotalBytes: dev.MemTotalBytes,
			PowerWatts:    powerWatts,
			TemperatureC:  dev.TemperatureC,
		})
	}

	for key := range s.calcs {
		if _, ok := seen[key]; !ok {
			delete(s.calcs, key)
		}
	}
}
