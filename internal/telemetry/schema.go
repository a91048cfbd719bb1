package telemetry

import (
	"database/sql"

	"codeberg.org/mutker/bustop/internal/errors"
)

// initSchema creates the snapshot tables. Variable-length domains (CPU
// clusters, GPU devices, disks) live in child tables keyed by the
// snapshot's millisecond timestamp.
func initSchema(db *sql.DB) error {
	errFactory := errors.New()

	statements := []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA synchronous = NORMAL`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			timestamp_ms INTEGER PRIMARY KEY,
			interval_ms INTEGER,
			memory_status TEXT,
			memory_total_bytes INTEGER,
			memory_used_bytes INTEGER,
			memory_free_bytes INTEGER,
			memory_cached_bytes INTEGER,
			swap_used_bytes INTEGER,
			swap_total_bytes INTEGER,
			page_ins_per_sec REAL,
			page_outs_per_sec REAL,
			page_faults_per_sec REAL,
			memory_pressure TEXT,
			cpu_status TEXT,
			gpu_status TEXT,
			disk_status TEXT,
			system_status TEXT,
			total_power_watts REAL,
			package_power_watts REAL,
			core_power_watts REAL,
			dram_power_watts REAL,
			gpu_power_watts REAL,
			max_temp_c REAL,
			thermal_pressure TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS cpu_clusters (
			timestamp_ms INTEGER,
			name TEXT,
			freq_mhz REAL,
			active_pct REAL,
			idle_pct REAL,
			PRIMARY KEY (timestamp_ms, name)
		)`,
		`CREATE TABLE IF NOT EXISTS gpu_devices (
			timestamp_ms INTEGER,
			device_index INTEGER,
			name TEXT,
			active_pct REAL,
			freq_mhz REAL,
			mem_used_bytes INTEGER,
			mem_total_bytes INTEGER,
			power_watts REAL,
			temperature_c REAL,
			PRIMARY KEY (timestamp_ms, device_index)
		)`,
		`CREATE TABLE IF NOT EXISTS disks (
			timestamp_ms INTEGER,
			name TEXT,
			read_bytes_per_sec REAL,
			write_bytes_per_sec REAL,
			read_ops_per_sec REAL,
			write_ops_per_sec REAL,
			PRIMARY KEY (timestamp_ms, name)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return errFactory.Wrap(ErrStorageInit, err)
		}
	}

	return nil
}
