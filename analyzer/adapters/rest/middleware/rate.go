package middleware

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket shared by every request it wraps. Requests
// wait for a token until their context ends.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows rps requests per second with bursts of up to burst.
// A non-positive rps admits nothing.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if rps <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(0, 0)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), max(burst, 1))}
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := rl.limiter.Wait(r.Context()); err != nil {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
