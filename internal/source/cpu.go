package source

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"github.com/shirou/gopsutil/v3/cpu"
)

type cpuSource struct {
	// clusterOf maps a logical CPU index to its cluster name. Built once
	// at startup from the processor topology; the topology is static for
	// the process lifetime.
	clusterOf []string
}

// NewCPUSource returns a source that groups logical CPUs into clusters by
// physical package and reports cumulative active/total ticks per cluster.
// On machines where the topology cannot be read, all CPUs form a single
// "CPU" cluster.
func NewCPUSource(ctx context.Context) CPUSource {
	src := &cpuSource{}

	infos, err := cpu.InfoWithContext(ctx)
	if err != nil || len(infos) == 0 {
		return src
	}

	packages := make(map[string]struct{})
	for _, info := range infos {
		packages[info.PhysicalID] = struct{}{}
	}

	src.clusterOf = make([]string, len(infos))
	for i, info := range infos {
		if len(packages) > 1 {
			src.clusterOf[i] = fmt.Sprintf("CPU%s", info.PhysicalID)
		} else {
			src.clusterOf[i] = "CPU"
		}
	}

	return src
}

func (s *cpuSource) Read(ctx context.Context) (CPUReading, error) {
	errFactory := errors.New()

	times, err := cpu.TimesWithContext(ctx, true)
	if err != nil {
		return CPUReading{}, errFactory.Wrap(ErrCPUUnavailable, err)
	}
	if len(times) == 0 {
		return CPUReading{}, errFactory.New(ErrCPUUnavailable)
	}

	freqs := s.frequencies(ctx, len(times))

	byName := make(map[string]*ClusterTicks)
	var order []string
	for i, t := range times {
		name := "CPU"
		if i < len(s.clusterOf) {
			name = s.clusterOf[i]
		}

		cluster, ok := byName[name]
		if !ok {
			cluster = &ClusterTicks{Name: name}
			byName[name] = cluster
			order = append(order, name)
		}

		total := t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal
		idle := t.Idle + t.Iowait
		cluster.ActiveTicks += total - idle
		cluster.TotalTicks += total
		if i < len(freqs) && freqs[i] > cluster.FreqMHz {
			cluster.FreqMHz = freqs[i]
		}
	}

	reading := CPUReading{At: time.Now()}
	for _, name := range order {
		reading.Clusters = append(reading.Clusters, *byName[name])
	}

	return reading, nil
}

// frequencies reads the current per-CPU clock in MHz, best-effort.
func (*cpuSource) frequencies(ctx context.Context, n int) []float64 {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return nil
	}

	freqs := make([]float64, 0, n)
	for _, info := range infos {
		freqs = append(freqs, info.Mhz)
	}

	return freqs
}
