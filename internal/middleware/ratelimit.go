// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/iyunix/go-chatsync/internal/metrics"
	"github.com/iyunix/go-chatsync/internal/ratelimit"
)

// RateLimitMiddleware throttles per owner, falling back to the client IP when
// the request carries no owner. Mount it after the auth middleware.
func RateLimitMiddleware(pool *ratelimit.Pool, m *metrics.Metrics, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := OwnerIDFromContext(r.Context())
			if !ok {
				key = "ip:" + ratelimit.GetClientIP(r)
			}

			allowed, info := pool.Allow(key)
			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))

			if !allowed {
				logger.Warn("[RateLimit] request throttled", "key", key, "path", r.URL.Path)
				if m != nil {
					m.RateLimitedTotal.Inc()
				}

				retryAfter := int(math.Ceil(info.RetryAfter.Seconds()))
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success":    false,
					"error":      "Too many requests",
					"retryAfter": retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
