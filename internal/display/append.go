package display

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/metrics"
)

// appendRenderer emits one compact line per cycle, suitable for piping to a
// log file.
type appendRenderer struct {
	w io.Writer
}

func (r *appendRenderer) Emit(snapshot *metrics.Snapshot) error {
	var line strings.Builder

	if snapshot.MemoryStatus == metrics.StatusOK {
		fmt.Fprintf(&line, "mem: %.1fGB used, %.1fGB free | ",
			float64(snapshot.Memory.UsedBytes)/bytesPerGB,
			float64(snapshot.Memory.FreeBytes)/bytesPerGB)
	}

	for i := range snapshot.CPUClusters {
		c := &snapshot.CPUClusters[i]
		fmt.Fprintf(&line, "%s: %.1f%% | ", c.Name, c.ActivePct)
	}

	for i := range snapshot.GPUs {
		g := &snapshot.GPUs[i]
		fmt.Fprintf(&line, "gpu%d: %.1f%% | ", g.Index, g.ActivePct)
	}

	if snapshot.System.TotalPowerWatts > 0 {
		fmt.Fprintf(&line, "power: %.1fW | ", snapshot.System.TotalPowerWatts)
	}

	for i := range snapshot.Disks {
		d := &snapshot.Disks[i]
		if i > 0 {
			line.WriteString(", ")
		}
		fmt.Fprintf(&line, "%s: %.1f/%.1f MB/s",
			d.Name,
			d.ReadBytesPerSec/bytesPerMB,
			d.WriteBytesPerSec/bytesPerMB)
	}

	if _, err := fmt.Fprintln(r.w, strings.TrimSuffix(line.String(), " | ")); err != nil {
		return errors.New().Wrap(ErrRenderFailed, err)
	}

	return nil
}
