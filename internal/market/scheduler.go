package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// cacheMaintainer is the slice of Service the scheduler drives.
type cacheMaintainer interface {
	RefreshEtfSnapshot(ctx context.Context) error
	ClearEquityCache()
}

// Scheduler runs the three cache maintenance jobs on independent timers:
// clear the equity close cache at session open, refresh the ETF snapshot
// after session close, and refresh it periodically while the session is
// live. Each tick is independent; a failed refresh is logged and the next
// tick still fires.
type Scheduler struct {
	svc      cacheMaintainer
	open     dayClock
	closeRef dayClock
	interval time.Duration
	now      func() time.Time
	lg       *zap.Logger
}

type dayClock struct {
	hour, min int
}

func NewScheduler(svc cacheMaintainer, sessionOpen, closeRefresh string, interval time.Duration, now func() time.Time, lg *zap.Logger) (*Scheduler, error) {
	open, err := parseDayClock(sessionOpen)
	if err != nil {
		return nil, fmt.Errorf("session open: %w", err)
	}
	closeRef, err := parseDayClock(closeRefresh)
	if err != nil {
		return nil, fmt.Errorf("close refresh: %w", err)
	}
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if now == nil {
		now = time.Now
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Scheduler{
		svc:      svc,
		open:     open,
		closeRef: closeRef,
		interval: interval,
		now:      now,
		lg:       lg,
	}, nil
}

// Run blocks until ctx is cancelled, with one goroutine per job.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s.runDaily(ctx, s.open, "session-open clear", func(context.Context) error {
			s.svc.ClearEquityCache()
			return nil
		})
	}()
	go func() {
		defer wg.Done()
		s.runDaily(ctx, s.closeRef, "session-close refresh", s.svc.RefreshEtfSnapshot)
	}()
	go func() {
		defer wg.Done()
		s.runInterval(ctx)
	}()
	wg.Wait()
}

func (s *Scheduler) runDaily(ctx context.Context, at dayClock, name string, job func(context.Context) error) {
	for {
		timer := time.NewTimer(nextDailyRun(s.now(), at).Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if err := job(ctx); err != nil {
				s.lg.Warn("scheduled job failed", zap.String("job", name), zap.Error(err))
			}
		}
	}
}

func (s *Scheduler) runInterval(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !IsTradeTime(s.now()) {
				continue
			}
			if err := s.svc.RefreshEtfSnapshot(ctx); err != nil {
				s.lg.Warn("in-session etf refresh failed", zap.Error(err))
			}
		}
	}
}

// nextDailyRun finds the next wall-clock occurrence of at, today or
// tomorrow, in now's location.
func nextDailyRun(now time.Time, at dayClock) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), at.hour, at.min, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func parseDayClock(s string) (dayClock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return dayClock{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return dayClock{hour: t.Hour(), min: t.Minute()}, nil
}
