package source

import (
	"context"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// ReadHostInfo gathers static machine identity for display headers. Read
// once at startup; none of it changes while sampling.
func ReadHostInfo(ctx context.Context) (metrics.HostInfo, error) {
	errFactory := errors.New()

	info := metrics.HostInfo{CPUBrand: "Unknown"}

	counts, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return info, errFactory.Wrap(ErrHostInfoFailed, err)
	}
	info.LogicalCores = counts

	if cpuInfos, err := cpu.InfoWithContext(ctx); err == nil && len(cpuInfos) > 0 {
		info.CPUBrand = cpuInfos[0].ModelName
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.PhysicalMemory = vm.Total
	}

	if hostInfo, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = hostInfo.Hostname
		info.Platform = hostInfo.Platform
	}

	return info, nil
}
