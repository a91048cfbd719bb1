package display

import (
	"fmt"
	"io"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/metrics"
)

// clearScreen moves the cursor home after wiping the terminal so each cycle
// redraws in place.
const clearScreen = "\x1b[2J\x1b[H"

type tableRenderer struct {
	w    io.Writer
	host metrics.HostInfo
}

func (r *tableRenderer) Emit(snapshot *metrics.Snapshot) error {
	buf := &tableWriter{w: r.w}

	buf.printf("%s", clearScreen)
	buf.printf("bustop - Bus/Interconnect Monitor                    Interval: %dms\n",
		snapshot.RequestedInterval.Milliseconds())
	buf.printf("CPU: %s\n\n", r.host.CPUBrand)

	r.memorySection(buf, snapshot)
	buf.printf("\n")
	r.cpuSection(buf, snapshot)
	buf.printf("\n")
	r.gpuSection(buf, snapshot)
	buf.printf("\n")
	r.diskSection(buf, snapshot)
	buf.printf("\n")
	r.systemSection(buf, snapshot)

	if buf.err != nil {
		return errors.New().Wrap(ErrRenderFailed, buf.err)
	}

	return nil
}

func (*tableRenderer) memorySection(buf *tableWriter, snapshot *metrics.Snapshot) {
	buf.printf("MEMORY\n")
	if snapshot.MemoryStatus != metrics.StatusOK {
		buf.printf("  (no data available)\n")
		return
	}

	mem := &snapshot.Memory
	buf.printf("%12s %12s %12s %10s %12s %14s\n",
		"used_GB", "free_GB", "cached_GB", "pressure", "swap_GB", "faults/s")
	buf.printf("%12.2f %12.2f %12.2f %10s %12.2f %14.0f\n",
		float64(mem.UsedBytes)/bytesPerGB,
		float64(mem.FreeBytes)/bytesPerGB,
		float64(mem.CachedBytes)/bytesPerGB,
		mem.Pressure,
		float64(mem.SwapUsedBytes)/bytesPerGB,
		mem.PageFaultsPerSec)
}

func (*tableRenderer) cpuSection(buf *tableWriter, snapshot *metrics.Snapshot) {
	buf.printf("CPU FABRIC\n")
	if snapshot.CPUStatus != metrics.StatusOK || len(snapshot.CPUClusters) == 0 {
		buf.printf("  (no data available)\n")
		return
	}

	buf.printf("%-12s %10s %10s %10s\n", "cluster", "freq_MHz", "active%", "idle%")
	for i := range snapshot.CPUClusters {
		c := &snapshot.CPUClusters[i]
		buf.printf("%-12s %10s %10.1f %10.1f\n",
			c.Name, freqColumn(c.FreqMHz), c.ActivePct, c.IdlePct)
	}
}

func (*tableRenderer) gpuSection(buf *tableWriter, snapshot *metrics.Snapshot) {
	buf.printf("GPU FABRIC\n")
	if snapshot.GPUStatus != metrics.StatusOK || len(snapshot.GPUs) == 0 {
		buf.printf("  (no data available)\n")
		return
	}

	buf.printf("%-12s %10s %10s %10s %12s\n",
		"device", "freq_MHz", "active%", "power_W", "mem_used_GB")
	for i := range snapshot.GPUs {
		g := &snapshot.GPUs[i]
		buf.printf("%-12s %10s %10.1f %10.2f %12.2f\n",
			fmt.Sprintf("gpu%d", g.Index),
			freqColumn(g.FreqMHz), g.ActivePct, g.PowerWatts,
			float64(g.MemUsedBytes)/bytesPerGB)
	}
}

func (*tableRenderer) diskSection(buf *tableWriter, snapshot *metrics.Snapshot) {
	buf.printf("STORAGE\n")
	if snapshot.DiskStatus != metrics.StatusOK || len(snapshot.Disks) == 0 {
		buf.printf("  (no data available)\n")
		return
	}

	buf.printf("%-12s %12s %12s %10s %10s\n",
		"device", "read_MB/s", "write_MB/s", "r_ops/s", "w_ops/s")
	for i := range snapshot.Disks {
		d := &snapshot.Disks[i]
		buf.printf("%-12s %12.2f %12.2f %10.0f %10.0f\n",
			d.Name,
			d.ReadBytesPerSec/bytesPerMB,
			d.WriteBytesPerSec/bytesPerMB,
			d.ReadOpsPerSec,
			d.WriteOpsPerSec)
	}
}

func (*tableRenderer) systemSection(buf *tableWriter, snapshot *metrics.Snapshot) {
	buf.printf("SYSTEM\n")
	if snapshot.SystemStatus != metrics.StatusOK {
		buf.printf("  (no data available)\n")
		return
	}

	sys := &snapshot.System
	buf.printf("%12s %12s %12s %12s %16s\n",
		"total_W", "cpu_W", "gpu_W", "dram_W", "thermal")
	buf.printf("%12.2f %12.2f %12.2f %12.2f %16s\n",
		sys.TotalPowerWatts,
		sys.PackagePowerWatts,
		sys.GPUPowerWatts,
		sys.DRAMPowerWatts,
		sys.ThermalPressure)
}

func freqColumn(mhz float64) string {
	if mhz <= 0 {
		return "-"
	}

	return fmt.Sprintf("%.0f", mhz)
}

// tableWriter latches the first write error so sections can print without
// checking each call.
type tableWriter struct {
	w   io.Writer
	err error
}

func (t *tableWriter) printf(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}
