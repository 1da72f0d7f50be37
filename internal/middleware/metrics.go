// File: internal/middleware/metrics.go
package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/iyunix/go-chatsync/internal/metrics"
)

// MetricsMiddleware records count, latency and in-flight requests per route template.
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.HTTPRequestsInFlight.Inc()
			defer m.HTTPRequestsInFlight.Dec()

			wrapper := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapper, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.RecordRequest(route, r.Method, wrapper.statusCode, time.Since(start))
		})
	}
}
