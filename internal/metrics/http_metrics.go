package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	registerOnce sync.Once
)

// HTTPMetrics records request counts and latencies for one service.
type HTTPMetrics struct {
	ServiceName string
}

func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestCounter)
		prometheus.MustRegister(requestDuration)
	})
	return &HTTPMetrics{ServiceName: serviceName}
}

// Observe records a single completed request.
func (m *HTTPMetrics) Observe(method, path string, status int, elapsed time.Duration) {
	statusStr := strconv.Itoa(status)
	requestCounter.WithLabelValues(m.ServiceName, method, path, statusStr).Inc()
	requestDuration.WithLabelValues(m.ServiceName, method, path, statusStr).Observe(elapsed.Seconds())
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
