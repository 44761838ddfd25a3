package market

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingMaintainer struct {
	refreshes atomic.Int64
	clears    atomic.Int64
}

func (m *countingMaintainer) RefreshEtfSnapshot(context.Context) error {
	m.refreshes.Add(1)
	return nil
}

func (m *countingMaintainer) ClearEquityCache() { m.clears.Add(1) }

func TestNextDailyRun(t *testing.T) {
	day := time.Date(2025, 6, 13, 8, 0, 0, 0, time.UTC)
	open := dayClock{hour: 9, min: 25}

	next := nextDailyRun(day, open)
	require.Equal(t, time.Date(2025, 6, 13, 9, 25, 0, 0, time.UTC), next)

	// already past today's slot: tomorrow
	next = nextDailyRun(day.Add(4*time.Hour), open)
	require.Equal(t, time.Date(2025, 6, 14, 9, 25, 0, 0, time.UTC), next)

	// exactly on the slot: tomorrow, not an immediate re-fire
	next = nextDailyRun(time.Date(2025, 6, 13, 9, 25, 0, 0, time.UTC), open)
	require.Equal(t, time.Date(2025, 6, 14, 9, 25, 0, 0, time.UTC), next)
}

func TestParseDayClock(t *testing.T) {
	c, err := parseDayClock("09:25")
	require.NoError(t, err)
	require.Equal(t, dayClock{hour: 9, min: 25}, c)

	c, err = parseDayClock("15:05")
	require.NoError(t, err)
	require.Equal(t, dayClock{hour: 15, min: 5}, c)

	_, err = parseDayClock("25:99")
	require.Error(t, err)

	_, err = parseDayClock("0925")
	require.Error(t, err)
}

func TestScheduler_IntervalRefreshOnlyDuringTradeTime(t *testing.T) {
	m := &countingMaintainer{}
	s, err := NewScheduler(m, "09:25", "15:05", 10*time.Millisecond,
		func() time.Time { return duringHours }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return m.refreshes.Load() >= 2 },
		time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestScheduler_IntervalIdleOutsideTradeTime(t *testing.T) {
	m := &countingMaintainer{}
	s, err := NewScheduler(m, "09:25", "15:05", 10*time.Millisecond,
		func() time.Time { return afterHours }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()
	<-done
	require.Zero(t, m.refreshes.Load())
	require.Zero(t, m.clears.Load())
}
