package middleware

import (
	"net/http"
	"strconv"
)

// ConcurrencyLimiter rejects requests beyond a fixed number in flight
// instead of queueing them.
type ConcurrencyLimiter struct {
	sem        chan struct{}
	retryAfter int
}

func NewConcurrencyLimiter(concurrency, retryAfterSeconds int) *ConcurrencyLimiter {
	return &ConcurrencyLimiter{
		sem:        make(chan struct{}, max(concurrency, 1)),
		retryAfter: retryAfterSeconds,
	}
}

func (cl *ConcurrencyLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case cl.sem <- struct{}{}:
			defer func() { <-cl.sem }()
			next.ServeHTTP(w, r)
		default:
			if cl.retryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(cl.retryAfter))
			}
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
