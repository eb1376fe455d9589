package daemon

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_PeriodicReindex(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	var runs atomic.Int32
	id, err := s.SchedulePeriodicReindex(context.Background(), 50*time.Millisecond, func(context.Context) { runs.Add(1) })
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}

func TestScheduler_CancelStopsRunningReindex(t *testing.T) {
	s, err := NewScheduler()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{}, 1)
	var cancelled atomic.Bool
	_, err = s.SchedulePeriodicReindex(ctx, 20*time.Millisecond, func(runCtx context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-runCtx.Done()
		cancelled.Store(true)
	})
	require.NoError(t, err)

	s.Start()
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("reindex did not start")
	}
	cancel()
	assert.Eventually(t, cancelled.Load, time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop())
}
