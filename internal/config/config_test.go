package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/bustop/internal/config"
	"codeberg.org/mutker/bustop/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "bustop.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// setArgs replaces os.Args so Load does not see the test binary's flags.
func setArgs(t *testing.T, args ...string) {
	t.Helper()

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"bustop"}, args...)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
interval = 500
count = 10
format = "json"
log_level = "debug"
telemetry = true
database = "/var/lib/bustop/telemetry.db"
`)
	t.Setenv("BUSTOP_CONFIG", path)
	setArgs(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.Interval, "Expected Interval 500")
	assert.Equal(t, uint64(10), cfg.Count, "Expected Count 10")
	assert.Equal(t, "json", cfg.Format, "Expected Format json")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Telemetry, "Expected Telemetry true")
	assert.Equal(t, "/var/lib/bustop/telemetry.db", cfg.TelemetryDB)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BUSTOP_CONFIG", "")
	setArgs(t)

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.Equal(t, uint64(config.DefaultCount), cfg.Count)
	assert.Equal(t, config.FormatTable, cfg.Format)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.False(t, cfg.Telemetry)
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	path := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("BUSTOP_CONFIG", path)
	setArgs(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrReadConfig))
}

func TestInvalidInterval(t *testing.T) {
	path := writeConfig(t, `
interval = 0
`)
	t.Setenv("BUSTOP_CONFIG", path)
	setArgs(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestInvalidFormat(t *testing.T) {
	path := writeConfig(t, `
format = "yaml"
`)
	t.Setenv("BUSTOP_CONFIG", path)
	setArgs(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidFormat))
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("BUSTOP_CONFIG", path)
	setArgs(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestTelemetryRequiresDatabase(t *testing.T) {
	path := writeConfig(t, `
telemetry = true
`)
	t.Setenv("BUSTOP_CONFIG", path)
	setArgs(t)

	_, err := config.Load()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	path := writeConfig(t, `
interval = 500
`)
	t.Setenv("BUSTOP_CONFIG", path)

	setArgs(t, "--interval", "250", "--count", "3")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Interval, "Expected flag to override config file")
	assert.Equal(t, uint64(3), cfg.Count)
}
