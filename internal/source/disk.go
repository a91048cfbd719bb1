package source

import (
	"context"
	"strings"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"github.com/shirou/gopsutil/v3/disk"
)

type diskSource struct{}

// NewDiskSource returns a source backed by the kernel's per-block-device
// I/O counters. The device set is re-enumerated every cycle so attached
// and removed disks are picked up naturally.
func NewDiskSource() DiskSource {
	return diskSource{}
}

func (diskSource) Read(ctx context.Context) (DiskReading, error) {
	errFactory := errors.New()

	counters, err := disk.IOCountersWithContext(ctx)
	if err != nil {
		return DiskReading{}, errFactory.Wrap(ErrDiskUnavailable, err)
	}

	reading := DiskReading{
		At:      time.Now(),
		Devices: make(map[string]DiskCounters, len(counters)),
	}

	for name, st := range counters {
		// Loop and ram devices only add noise.
		if strings.HasPrefix(name, "loop") || strings.HasPrefix(name, "ram") {
			continue
		}

		reading.Devices[name] = DiskCounters{
			ReadBytes:  st.ReadBytes,
			WriteBytes: st.WriteBytes,
			ReadOps:    st.ReadCount,
			WriteOps:   st.WriteCount,
		}
	}

	return reading, nil
}
