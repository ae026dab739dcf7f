package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricHTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tally_http_requests_total",
		Help: "HTTP requests served, by method and status class.",
	}, []string{"method", "class"})

	metricHTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tally_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func observeHTTPRequest(method, class string, elapsed time.Duration) {
	metricHTTPRequests.WithLabelValues(method, class).Inc()
	metricHTTPDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}
