package sampler

import (
	"context"
	"sort"

	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/rate"
	"codeberg.org/mutker/bustop/internal/source"
)

// Each counter gets its own calculator because the counters can reset
// independently, e.g. when a device is detached and reattached mid-run.
type diskCalcs struct {
	readBytes  *rate.Calculator
	writeBytes *rate.Calculator
	readOps    *rate.Calculator
	writeOps   *rate.Calculator
}

func newDiskCalcs() *diskCalcs {
	return &diskCalcs{
		readBytes:  rate.New(rate.Cumulative),
		writeBytes: rate.New(rate.Cumulative),
		readOps:    rate.New(rate.Cumulative),
		writeOps:   rate.New(rate.Cumulative),
	}
}

type diskSampler struct {
	src   source.DiskSource
	calcs map[string]*diskCalcs
}

func NewDiskSampler(src source.DiskSource) Sampler {
	return &diskSampler{
		src:   src,
		calcs: make(map[string]*diskCalcs),
	}
}

func (*diskSampler) Domain() string {
	return "disk"
}

func (s *diskSampler) Collect(ctx context.Context, snap *metrics.Snapshot) {
	reading, err := s.src.Read(ctx)
	if err != nil {
		logger.Debug().Err(err).Msg("disk source unavailable")
		snap.DiskStatus = metrics.StatusUnavailable

		return
	}

	snap.DiskStatus = metrics.StatusOK

	names := make([]string, 0, len(reading.Devices))
	for name := range reading.Devices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		counters := reading.Devices[name]

		calcs, ok := s.calcs[name]
		if !ok {
			calcs = newDiskCalcs()
			s.calcs[name] = calcs
		}

		snap.Disks = append(snap.Disks, metrics.Disk{
			Name:             name,
			ReadBytesPerSec:  updateRate(calcs.readBytes, "disk", name+"/read_bytes", reading.At, float64(counters.ReadBytes)),
			WriteBytesPerSec: updateRate(calcs.writeBytes, "disk", name+"/write_bytes", reading.At, float64(counters.WriteBytes)),
			ReadOpsPerSec:    updateRate(calcs.readOps, "disk", name+"/read_ops", reading.At, float64(counters.ReadOps)),
			WriteOpsPerSec:   updateRate(calcs.writeOps, "disk", name+"/write_ops", reading.At, float64(counters.WriteOps)),
		})
	}

	for name := range s.calcs {
		if _, ok := reading.Devices[name]; !ok {
			delete(s.calcs, name)
		}
	}
}
