// Package telemetry persists snapshots to a local sqlite database so a run
// can be inspected after the fact.
package telemetry

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/logger"
	"codeberg.org/mutker/bustop/internal/metrics"

	_ "github.com/mattn/go-sqlite3"
)

const defaultDirPerm = 0o755

type Recorder interface {
	Record(ctx context.Context, snapshot *metrics.Snapshot) error
	Close() error
}

type sqliteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

func NewRecorder(dbPath string) (Recorder, error) {
	errFactory := errors.New()

	if dbPath == "" {
		return nil, errFactory.New(ErrInvalidDBPath)
	}

	logger.Debug().Msgf("Initializing telemetry database at: %s", dbPath)

	if err := os.MkdirAll(filepath.Dir(dbPath), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errFactory.Wrap(ErrStorageInit, err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteRecorder{db: db}, nil
}

// Record stores one snapshot. The scalar row and the per-device child rows
// are written in a single transaction so a snapshot is either fully
// persisted or not at all.
func (r *sqliteRecorder) Record(ctx context.Context, snapshot *metrics.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	errFactory := errors.New()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	ts := snapshot.Timestamp.UnixMilli()

	_, err = tx.ExecContext(ctx, `
        INSERT OR REPLACE INTO snapshots (
            timestamp_ms, interval_ms,
            memory_status, memory_total_bytes, memory_used_bytes,
            memory_free_bytes, memory_cached_bytes,
            swap_used_bytes, swap_total_bytes,
            page_ins_per_sec, page_outs_per_sec, page_faults_per_sec,
            memory_pressure,
            cpu_status, gpu_status, disk_status, system_status,
            total_power_watts, package_power_watts, core_power_watts,
            dram_power_watts, gpu_power_watts,
            max_temp_c, thermal_pressure
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		ts,
		snapshot.ActualInterval.Milliseconds(),
		string(snapshot.MemoryStatus),
		snapshot.Memory.TotalBytes,
		snapshot.Memory.UsedBytes,
		snapshot.Memory.FreeBytes,
		snapshot.Memory.CachedBytes,
		snapshot.Memory.SwapUsedBytes,
		snapshot.Memory.SwapTotalBytes,
		snapshot.Memory.PageInsPerSec,
		snapshot.Memory.PageOutsPerSec,
		snapshot.Memory.PageFaultsPerSec,
		string(snapshot.Memory.Pressure),
		string(snapshot.CPUStatus),
		string(snapshot.GPUStatus),
		string(snapshot.DiskStatus),
		string(snapshot.SystemStatus),
		snapshot.System.TotalPowerWatts,
		snapshot.System.PackagePowerWatts,
		snapshot.System.CorePowerWatts,
		snapshot.System.DRAMPowerWatts,
		snapshot.System.GPUPowerWatts,
		snapshot.System.MaxTempC,
		string(snapshot.System.ThermalPressure),
	)
	if err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	for i := range snapshot.CPUClusters {
		c := &snapshot.CPUClusters[i]
		_, err = tx.ExecContext(ctx, `
            INSERT OR REPLACE INTO cpu_clusters (
                timestamp_ms, name, freq_mhz, active_pct, idle_pct
            ) VALUES (?, ?, ?, ?, ?)
        `, ts, c.Name, c.FreqMHz, c.ActivePct, c.IdlePct)
		if err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	for i := range snapshot.GPUs {
		g := &snapshot.GPUs[i]
		_, err = tx.ExecContext(ctx, `
            INSERT OR REPLACE INTO gpu_devices (
                timestamp_ms, device_index, name, active_pct, freq_mhz,
                mem_used_bytes, mem_total_bytes, power_watts, temperature_c
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        `, ts, g.Index, g.Name, g.ActivePct, g.FreqMHz,
			g.MemUsedBytes, g.MemTotalBytes, g.PowerWatts, g.TemperatureC)
		if err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	for i := range snapshot.Disks {
		d := &snapshot.Disks[i]
		_, err = tx.ExecContext(ctx, `
            INSERT OR REPLACE INTO disks (
                timestamp_ms, name,
                read_bytes_per_sec, write_bytes_per_sec,
                read_ops_per_sec, write_ops_per_sec
            ) VALUES (?, ?, ?, ?, ?, ?)
        `, ts, d.Name, d.ReadBytesPerSec, d.WriteBytesPerSec,
			d.ReadOpsPerSec, d.WriteOpsPerSec)
		if err != nil {
			return errFactory.Wrap(ErrStorageAccess, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errFactory.Wrap(ErrStorageAccess, err)
	}

	return nil
}

func (r *sqliteRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.db.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}

	return nil
}

// Emitter adapts a Recorder to the sampling loop's emitter interface.
type Emitter struct {
	ctx context.Context
	rec Recorder
}

// NewEmitter wraps rec so each emitted snapshot is recorded under ctx.
func NewEmitter(ctx context.Context, rec Recorder) *Emitter {
	return &Emitter{ctx: ctx, rec: rec}
}

func (e *Emitter) Emit(snapshot *metrics.Snapshot) error {
	return e.rec.Record(e.ctx, snapshot)
}
