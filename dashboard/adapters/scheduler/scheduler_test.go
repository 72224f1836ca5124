package scheduler_test

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"review-insights/dashboard/adapters/scheduler"
	"review-insights/dashboard/core"
)

func TestStartInitialRefresh(t *testing.T) {
	testCases := []struct {
		desc string
		err  error
	}{
		{desc: "initial refresh succeeds"},
		{desc: "initial refresh fails", err: errors.New("analyzer down")},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			refresher := core.NewMockRefresher(ctrl)
			refresher.EXPECT().Refresh(gomock.Any()).Return(tc.err)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			s := scheduler.NewRefreshScheduler(slog.Default(), refresher, time.Hour)
			s.Start(ctx)
		})
	}
}

func TestStartPeriodicRefresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	refresher := core.NewMockRefresher(ctrl)

	var calls atomic.Int32
	refresher.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}).MinTimes(3)

	ctx, cancel := context.WithCancel(context.Background())
	s := scheduler.NewRefreshScheduler(slog.Default(), refresher, 50*time.Millisecond)
	s.Start(ctx)

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	time.Sleep(100 * time.Millisecond)
}

func TestStartStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	refresher := core.NewMockRefresher(ctrl)

	var calls atomic.Int32
	refresher.EXPECT().Refresh(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	}).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	s := scheduler.NewRefreshScheduler(slog.Default(), refresher, 50*time.Millisecond)
	s.Start(ctx)
	cancel()

	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load())
}
