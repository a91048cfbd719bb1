package sampler_test

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/bustop/internal/errors"
	"codeberg.org/mutker/bustop/internal/metrics"
	"codeberg.org/mutker/bustop/internal/sampler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCycler struct {
	interval time.Duration
	last     time.Time
}

func (s *stubCycler) Cycle(context.Context) *metrics.Snapshot {
	now := time.Now()
	snap := &metrics.Snapshot{
		Timestamp:         now,
		RequestedInterval: s.interval,
	}
	if !s.last.IsZero() {
		snap.ActualInterval = now.Sub(s.last)
	}
	s.last = now

	return snap
}

type collectingEmitter struct {
	snaps []*metrics.Snapshot
}

func (e *collectingEmitter) Emit(snap *metrics.Snapshot) error {
	e.snaps = append(e.snaps, snap)
	return nil
}

type failingEmitter struct {
	calls int
}

func (e *failingEmitter) Emit(*metrics.Snapshot) error {
	e.calls++
	return errors.New().New(errors.ErrRecordSnapshot)
}

func TestLoopRejectsInvalidInterval(t *testing.T) {
	_, err := sampler.NewLoop(&stubCycler{}, 0, 1)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestLoopEmitsExactlyCount(t *testing.T) {
	interval := 100 * time.Millisecond
	sink := &collectingEmitter{}

	loop, err := sampler.NewLoop(&stubCycler{interval: interval}, interval, 3, sink)
	require.NoError(t, err)

	start := time.Now()
	require.NoError(t, loop.Run(context.Background()))
	elapsed := time.Since(start)

	require.Len(t, sink.snaps, 3)
	for _, snap := range sink.snaps {
		assert.GreaterOrEqual(t, snap.ActualInterval, time.Duration(0))
	}
	// Three cycles means two waits between them.
	assert.GreaterOrEqual(t, elapsed, 2*interval)
	// Cycles after the first should start close to one interval apart.
	assert.InDelta(t, float64(interval), float64(sink.snaps[2].ActualInterval), float64(50*time.Millisecond))
}

func TestLoopCancellation(t *testing.T) {
	sink := &collectingEmitter{}
	loop, err := sampler.NewLoop(&stubCycler{}, 50*time.Millisecond, 0, sink)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	time.Sleep(120 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after cancellation")
	}

	// Snapshots are never torn: each emitted one was complete.
	assert.NotEmpty(t, sink.snaps)
}

func TestLoopEmitterFailureDoesNotAffectCycleCount(t *testing.T) {
	broken := &failingEmitter{}
	sink := &collectingEmitter{}

	loop, err := sampler.NewLoop(&stubCycler{}, 10*time.Millisecond, 4, broken, sink)
	require.NoError(t, err)
	require.NoError(t, loop.Run(context.Background()))

	assert.Equal(t, 4, broken.calls)
	assert.Len(t, sink.snaps, 4)
}
