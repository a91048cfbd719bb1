package sampler

import (
	"context"

	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/rate"
	"codeberg.org/mutker/bustop/internal/source"
)

type cpuSampler struct {
	src source.CPUSource
	// One busy-percent calculator per cluster, keyed by cluster name.
	// Clusters appearing for the first time start from the first-call
	// baseline; clusters that vanish have their state discarded.
	busy map[string]*rate.Calculator
}

func NewCPUSampler(src source.CPUSource) Sampler {
	return &cpuSampler{
		src:  src,
		busy: make(map[string]*rate.Calculator),
	}
}

func (*cpuSampler) Domain() string {
	return "cpu"
}

func (s *cpuSampler) Collect(ctx context.Context, snap *metrics.Snapshot) {
	reading, err := s.src.Read(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("cpu source unavailable")
		snap.CPUStatus = metrics.StatusUnavailable

		return
	}

	snap.CPUStatus = metrics.StatusOK

	seen := make(map[string]struct{}, len(reading.Clusters))
	for _, cluster := range reading.Clusters {
		seen[cluster.Name] = struct{}{}

		calc, ok := s.busy[cluster.Name]
		if !ok {
			calc = rate.New(rate.BusyPercent)
			s.busy[cluster.Name] = calc
		}

		active := calc.Last().Value
		result, err := calc.Update(rate.Sample{
			At:    reading.At,
			Value: cluster.ActiveTicks,
			Total: cluster.TotalTicks,
		})
		if err == nil {
			active = result.Value
		}

		snap.CPUClusters = append(snap.CPUClusters, metrics.CPUCluster{
			Name:      cluster.Name,
			FreqMHz:   cluster.FreqMHz,
			ActivePct: active,
			IdlePct:   100 - active,
		})
	}

	for name := range s.busy {
		if _, ok := seen[name]; !ok {
			delete(s.busy, name)
		}
	}
}
