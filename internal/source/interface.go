// Package source reads raw counters from the operating system, one source
// per monitored domain. Sources return unprocessed counter values; all
// normalization happens downstream in the samplers. A source that cannot be
// read reports an ErrUnavailable-coded error and is retried next cycle.
package source

import (
	"context"
	"time"
)

// MemoryReading is the raw virtual-memory counter set. Byte fields are
// gauges; PageIns/PageOuts/PageFaults are cumulative counters.
type MemoryReading struct {
	At             time.Time
	TotalBytes     uint64
	UsedBytes      uint64
	FreeBytes      uint64
	AvailableBytes uint64
	CachedBytes    uint64
	SwapUsedBytes  uint64
	SwapTotalBytes uint64
	PageIns        uint64
	PageOuts       uint64
	PageFaults     uint64
}

// ClusterTicks is one CPU cluster's cumulative active and total tick
// counters plus its current nominal frequency.
type ClusterTicks struct {
	Name        string
	FreqMHz     float64
	ActiveTicks float64
	TotalTicks  float64
}

// CPUReading is the per-cluster tick counters captured at one instant.
type CPUReading struct {
	At       time.Time
	Clusters []ClusterTicks
}

// GPUDeviceReading is one device's raw counters. EnergyMillijoules is
// cumulative; everything else is a gauge.
type GPUDeviceReading struct {
	Index             int
	Name              string
	UtilizationPct    float64
	FreqMHz           float64
	MemUsedBytes      uint64
	MemTotalBytes     uint64
	EnergyMillijoules uint64
	TemperatureC      float64
}

// GPUReading is the full device set captured at one instant.
type GPUReading struct {
	At      time.Time
	Devices []GPUDeviceReading
}

// DiskCounters is one block device's cumulative I/O counters.
type DiskCounters struct {
	ReadBytes  uint64
	WriteBytes uint64
	ReadOps    uint64
	WriteOps   uint64
}

// DiskReading maps stable device names to their counters.
type DiskReading struct {
	At      time.Time
	Devices map[string]DiskCounters
}

// EnergyCounter is one power domain's cumulative energy counter in
// microjoules. The counter wraps at the domain's range limit; a wrap shows
// up as a decrease and is handled like any other counter reset.
type EnergyCounter struct {
	Name              string
	EnergyMicrojoules uint64
}

// PowerReading is the power and thermal state captured at one instant.
type PowerReading struct {
	At         time.Time
	Energy     []EnergyCounter
	ZoneTempsC []float64
}

// Sources read raw counters once per cycle. Implementations must return
// within a bounded time; callers pass a deadline-carrying context.
type (
	MemorySource interface {
		Read(ctx context.Context) (MemoryReading, error)
	}

	CPUSource interface {
		Read(ctx context.Context) (CPUReading, error)
	}

	GPUSource interface {
		Read(ctx context.Context) (GPUReading, error)
		Close() error
	}

	DiskSource interface {
		Read(ctx context.Context) (DiskReading, error)
	}

	PowerSource interface {
		Read(ctx context.Context) (PowerReading, error)
	}
)
