package middleware

import (
	"net/http"
	"time"

	"github.com/estate-ease/api/internal/metrics"
)

// Metrics records request count and duration for every handled request.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			m.Observe(r.Method, r.URL.Path, rec.status, time.Since(start))
		})
	}
}
