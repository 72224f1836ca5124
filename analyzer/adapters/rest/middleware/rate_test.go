package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"review-insights/analyzer/adapters/rest/middleware"
)

func TestRateLimit(t *testing.T) {
	testCases := []struct {
		desc     string
		rps      float64
		requests int
	}{
		{
			desc:     "requests < rate limit",
			rps:      10,
			requests: 5,
		},
		{
			desc:     "requests > rate limit",
			rps:      5,
			requests: 10,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			limiter := middleware.NewRateLimiter(tc.rps, 1)
			handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			var wg sync.WaitGroup
			var ok atomic.Int32
			start := time.Now()
			for range tc.requests {
				wg.Go(func() {
					rec := httptest.NewRecorder()
					handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
					if rec.Code == http.StatusOK {
						ok.Add(1)
					}
				})
			}
			wg.Wait()

			elapsed := time.Since(start)
			require.Equal(t, tc.requests, int(ok.Load()))
			// the first token is available immediately
			minElapsed := time.Duration(float64(tc.requests-1) / tc.rps * float64(time.Second))
			require.GreaterOrEqual(t, elapsed, minElapsed-50*time.Millisecond)
		})
	}
}

func TestRateLimitZeroRate(t *testing.T) {
	for _, rps := range []float64{0, -1} {
		limiter := middleware.NewRateLimiter(rps, 1)
		handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
		cancel()

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
	}
}

func TestRateLimitCancelledWhileWaiting(t *testing.T) {
	limiter := middleware.NewRateLimiter(0.5, 1)
	handler := limiter.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}
