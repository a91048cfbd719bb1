package telemetry_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot(ts time.Time) *metrics.Snapshot {
	return &metrics.Snapshot{
		Timestamp:      ts,
		ActualInterval: time.Second,
		Memory: metrics.Memory{
			TotalBytes:    16 << 30,
			UsedBytes:     8 << 30,
			PageInsPerSec: 120,
			Pressure:      metrics.PressureNormal,
		},
		MemoryStatus: metrics.StatusOK,
		CPUClusters: []metrics.CPUCluster{
			{Name: "cpu0", ActivePct: 25, IdlePct: 75},
			{Name: "cpu1", ActivePct: 50, IdlePct: 50},
		},
		CPUStatus:  metrics.StatusOK,
		GPUStatus:  metrics.StatusUnavailable,
		Disks:      []metrics.Disk{{Name: "sda", ReadBytesPerSec: 1024}},
		DiskStatus: metrics.StatusOK,
		System: metrics.System{
			PackagePowerWatts: 12.5,
			TotalPowerWatts:   14.0,
			ThermalPressure:   metrics.ThermalNominal,
		},
		SystemStatus: metrics.StatusOK,
	}
}

func TestRecorderRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	rec, err := telemetry.NewRecorder(dbPath)
	require.NoError(t, err)
	defer rec.Close()

	ts := time.Now()
	require.NoError(t, rec.Record(context.Background(), testSnapshot(ts)))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM cpu_clusters").Scan(&count))
	assert.Equal(t, 2, count)

	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM disks").Scan(&count))
	assert.Equal(t, 1, count)

	var status string
	require.NoError(t, db.QueryRow(
		"SELECT gpu_status FROM snapshots WHERE timestamp_ms = ?", ts.UnixMilli(),
	).Scan(&status))
	assert.Equal(t, string(metrics.StatusUnavailable), status)
}

func TestRecorderReplacesSameTimestamp(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "telemetry.db")

	rec, err := telemetry.NewRecorder(dbPath)
	require.NoError(t, err)
	defer rec.Close()

	ts := time.Now()
	require.NoError(t, rec.Record(context.Background(), testSnapshot(ts)))
	require.NoError(t, rec.Record(context.Background(), testSnapshot(ts)))

	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRecorderRequiresPath(t *testing.T) {
	_, err := telemetry.NewRecorder("")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidDBPath))
}
