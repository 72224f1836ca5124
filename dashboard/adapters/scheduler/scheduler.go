package scheduler

import (
	"context"
	"log/slog"
	"time"

	"review-insights/dashboard/core"
)

// RefreshScheduler refreshes the cached report periodically, covering
// analysis events missed while the broker was unreachable.
type RefreshScheduler struct {
	log       *slog.Logger
	refresher core.Refresher
	interval  time.Duration
}

func NewRefreshScheduler(log *slog.Logger, refresher core.Refresher, interval time.Duration) *RefreshScheduler {
	return &RefreshScheduler{
		log:       log,
		refresher: refresher,
		interval:  interval,
	}
}

// Start refreshes once and then every interval until ctx is done. A failed
// first refresh is only logged.
func (s *RefreshScheduler) Start(ctx context.Context) {
	s.log.Info("start refresh scheduler", "interval", s.interval)
	if err := s.refresher.Refresh(ctx); err != nil {
		s.log.Warn("initial refresh failed", "error", err)
	}
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.refresher.Refresh(ctx); err != nil {
					s.log.Error("failed to refresh report", "error", err)
				}
			case <-ctx.Done():
				s.log.Info("refresh scheduler stopped")
				return
			}
		}
	}()
}
