package core

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mocks.go -package=core

// ReportSource reads stored runs from the analyzer.
type ReportSource interface {
	LatestRun(ctx context.Context) (RunInfo, error)
	Report(ctx context.Context, id string) (Report, error)
}

type Pinger interface {
	Ping(ctx context.Context) (PingResponse, error)
}

type Refresher interface {
	Refresh(ctx context.Context) error
}

type SnapshotProvider interface {
	Snapshot() (Snapshot, bool)
}

type EventHandler interface {
	HandleEvent(ctx context.Context, eventType EventType) error
}
