package source

import (
	"context"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"github.com/shirou/gopsutil/v3/mem"
)

type memorySource struct{}

// NewMemorySource returns a source backed by the kernel's virtual-memory
// statistics.
func NewMemorySource() MemorySource {
	return memorySource{}
}

func (memorySource) Read(ctx context.Context) (MemoryReading, error) {
	errFactory := errors.New()

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryReading{}, errFactory.Wrap(ErrMemoryUnavailable, err)
	}

	reading := MemoryReading{
		At:             time.Now(),
		TotalBytes:     vm.Total,
		UsedBytes:      vm.Used,
		FreeBytes:      vm.Free,
		AvailableBytes: vm.Available,
		CachedBytes:    vm.Cached,
	}

	// Swap counters are best-effort: some platforms expose no paging
	// statistics, which just leaves the cumulative counters at zero.
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		reading.SwapUsedBytes = swap.Used
		reading.SwapTotalBytes = swap.Total
		reading.PageIns = swap.PgIn
		reading.PageOuts = swap.PgOut
		reading.PageFaults = swap.PgFault
	}

	return reading, nil
}
