package rate_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/rate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestCumulativeFirstSample(t *testing.T) {
	c := rate.New(rate.Cumulative)

	result, err := c.Update(rate.Sample{At: t0, Value: 1000})
	require.NoError(t, err)
	assert.Zero(t, result.Value, "first sample must yield a zero rate")
	assert.False(t, result.Reset)
}

func TestCumulativeRate(t *testing.T) {
	c := rate.New(rate.Cumulative)

	_, err := c.Update(rate.Sample{At: t0, Value: 1000})
	require.NoError(t, err)

	result, err := c.Update(rate.Sample{At: t0.Add(time.Second), Value: 1200})
	require.NoError(t, err)
	assert.InDelta(t, 200.0, result.Value, 1e-9, "rate over 1s should equal the delta")
	assert.False(t, result.Reset)
}

func TestCumulativeSubsecondInterval(t *testing.T) {
	c := rate.New(rate.Cumulative)

	_, err := c.Update(rate.Sample{At: t0, Value: 0})
	require.NoError(t, err)

	result, err := c.Update(rate.Sample{At: t0.Add(250 * time.Millisecond), Value: 100})
	require.NoError(t, err)
	assert.InDelta(t, 400.0, result.Value, 1e-9)
}

func TestCumulativeReset(t *testing.T) {
	c := rate.New(rate.Cumulative)

	_, err := c.Update(rate.Sample{At: t0, Value: 500000})
	require.NoError(t, err)

	// Device reattached: counter restarts far below the previous reading.
	result, err := c.Update(rate.Sample{At: t0.Add(time.Second), Value: 300})
	require.NoError(t, err)
	assert.True(t, result.Reset)
	assert.InDelta(t, 300.0, result.Value, 1e-9, "rate must come from the post-reset absolute value")
	assert.GreaterOrEqual(t, result.Value, 0.0, "rate must never be negative")
}

func TestCumulativeRateAfterReset(t *testing.T) {
	c := rate.New(rate.Cumulative)

	_, err := c.Update(rate.Sample{At: t0, Value: 500000})
	require.NoError(t, err)
	_, err = c.Update(rate.Sample{At: t0.Add(time.Second), Value: 300})
	require.NoError(t, err)

	// The reset reading became the new prior state.
	result, err := c.Update(rate.Sample{At: t0.Add(2 * time.Second), Value: 800})
	require.NoError(t, err)
	assert.False(t, result.Reset)
	assert.InDelta(t, 500.0, result.Value, 1e-9)
}

func TestInvalidIntervalKeepsLastResult(t *testing.T) {
	c := rate.New(rate.Cumulative)

	_, err := c.Update(rate.Sample{At: t0, Value: 100})
	require.NoError(t, err)
	good, err := c.Update(rate.Sample{At: t0.Add(time.Second), Value: 200})
	require.NoError(t, err)

	// Clock went backwards: no update this cycle, last value retained.
	result, err := c.Update(rate.Sample{At: t0.Add(500 * time.Millisecond), Value: 300})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
	assert.Equal(t, good, result)
	assert.Equal(t, good, c.Last())
}

func TestInvalidIntervalStillReplacesPrior(t *testing.T) {
	c := rate.New(rate.Cumulative)

	_, err := c.Update(rate.Sample{At: t0, Value: 100})
	require.NoError(t, err)

	_, err = c.Update(rate.Sample{At: t0, Value: 150})
	require.Error(t, err)

	// The failed sample became the prior reading, so the next rate is
	// computed against it rather than against the original sample.
	result, err := c.Update(rate.Sample{At: t0.Add(time.Second), Value: 250})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, result.Value, 1e-9)
}

func TestGaugePassThrough(t *testing.T) {
	c := rate.New(rate.Gauge)

	result, err := c.Update(rate.Sample{At: t0, Value: 42.5})
	require.NoError(t, err)
	assert.InDelta(t, 42.5, result.Value, 1e-9, "gauges pass through on the first call")

	result, err = c.Update(rate.Sample{At: t0.Add(time.Second), Value: 17.25})
	require.NoError(t, err)
	assert.InDelta(t, 17.25, result.Value, 1e-9)
}

func TestBusyPercentFirstSample(t *testing.T) {
	c := rate.New(rate.BusyPercent)

	result, err := c.Update(rate.Sample{At: t0, Value: 500, Total: 1000})
	require.NoError(t, err)
	assert.Zero(t, result.Value)
}

func TestBusyPercent(t *testing.T) {
	c := rate.New(rate.BusyPercent)

	_, err := c.Update(rate.Sample{At: t0, Value: 0, Total: 0})
	require.NoError(t, err)

	result, err := c.Update(rate.Sample{At: t0.Add(time.Second), Value: 250, Total: 1000})
	require.NoError(t, err)
	assert.InDelta(t, 25.0, result.Value, 1e-9)
}

func TestBusyPercentClamped(t *testing.T) {
	c := rate.New(rate.BusyPercent)

	_, err := c.Update(rate.Sample{At: t0, Value: 0, Total: 0})
	require.NoError(t, err)

	// Counter jitter: active ticks exceed elapsed ticks.
	result, err := c.Update(rate.Sample{At: t0.Add(time.Second), Value: 1100, Total: 1000})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, result.Value, 1e-9, "percentages clamp to [0, 100]")
}

func TestBusyPercentZeroElapsedTicks(t *testing.T) {
	c := rate.New(rate.BusyPercent)

	_, err := c.Update(rate.Sample{At: t0, Value: 100, Total: 1000})
	require.NoError(t, err)

	_, err = c.Update(rate.Sample{At: t0.Add(time.Second), Value: 100, Total: 1000})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestBusyPercentReset(t *testing.T) {
	c := rate.New(rate.BusyPercent)

	_, err := c.Update(rate.Sample{At: t0, Value: 9000, Total: 10000})
	require.NoError(t, err)

	result, err := c.Update(rate.Sample{At: t0.Add(time.Second), Value: 30, Total: 100})
	require.NoError(t, err)
	assert.True(t, result.Reset)
	assert.InDelta(t, 30.0, result.Value, 1e-9)
	assert.GreaterOrEqual(t, result.Value, 0.0)
	assert.LessOrEqual(t, result.Value, 100.0)
}
