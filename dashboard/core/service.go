package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service caches the most recent analysis report.
type Service struct {
	log      *slog.Logger
	source   ReportSource
	lock     sync.RWMutex
	snapshot *Snapshot

	// Refreshes run one at a time, so an older report never replaces a newer one.
	refreshing sync.Mutex
}

func NewService(log *slog.Logger, source ReportSource) *Service {
	return &Service{
		log:    log,
		source: source,
	}
}

func (s *Service) Snapshot() (Snapshot, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	if s.snapshot == nil {
		return Snapshot{}, false
	}
	return *s.snapshot, true
}

// Refresh replaces the cached report with the latest stored run. The cache is
// cleared when no run is stored and kept as is when the analyzer fails.
func (s *Service) Refresh(ctx context.Context) error {
	s.refreshing.Lock()
	defer s.refreshing.Unlock()

	s.log.Info("refresh started")
	defer func(start time.Time) {
		s.log.Info("refresh finished", "duration", time.Since(start))
	}(time.Now())

	latest, err := s.source.LatestRun(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.Reset()
			return nil
		}
		s.log.Error("failed to get latest run", "error", err)
		return fmt.Errorf("failed to get latest run: %w", err)
	}

	s.lock.RLock()
	current := s.snapshot
	s.lock.RUnlock()
	if current != nil && current.Report.ID == latest.ID {
		s.log.Debug("report is up to date", "run", latest.ID)
		return nil
	}

	report, err := s.source.Report(ctx, latest.ID)
	if err != nil {
		s.log.Error("failed to get report", "run", latest.ID, "error", err)
		return fmt.Errorf("failed to get report %s: %w", latest.ID, err)
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.snapshot = &Snapshot{Report: report, FetchedAt: time.Now()}
	s.log.Info("report cached", "run", report.ID, "products", len(report.Products))
	return nil
}

func (s *Service) Reset() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.snapshot = nil
	s.log.Info("cached report has been reset")
}

func (s *Service) HandleEvent(ctx context.Context, eventType EventType) error {
	switch eventType {
	case EventAnalysisCompleted:
		if err := s.Refresh(ctx); err != nil {
			return fmt.Errorf("failed to refresh report: %w", err)
		}
	case EventReset:
		s.Reset()
	default:
		s.log.Warn("unknown event type", "event", string(eventType))
	}
	return nil
}
