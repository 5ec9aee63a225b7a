package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request throughput, latency, and live feed fanout.
type HTTPMetrics struct {
	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	feedSubscribers *prometheus.GaugeVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method, and status.",
	}, []string{"route", "method", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	feedSubscribers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "feed_subscribers",
		Help: "Active live snapshot feed subscribers per collection.",
	}, []string{"collection"})
	reg.MustRegister(requests, duration, feedSubscribers)
	return &HTTPMetrics{
		requests:        requests,
		duration:        duration,
		feedSubscribers: feedSubscribers,
	}
}

// ObserveRequest records a completed request.
func (m *HTTPMetrics) ObserveRequest(route, method, status string, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	route = normalizeLabel(route)
	m.requests.WithLabelValues(route, method, status).Inc()
	m.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// SubscriberConnected bumps the feed gauge for a collection.
func (m *HTTPMetrics) SubscriberConnected(collection string) {
	if m == nil || m.feedSubscribers == nil {
		return
	}
	m.feedSubscribers.WithLabelValues(normalizeLabel(collection)).Inc()
}

// SubscriberDisconnected lowers the feed gauge for a collection.
func (m *HTTPMetrics) SubscriberDisconnected(collection string) {
	if m == nil || m.feedSubscribers == nil {
		return
	}
	m.feedSubscribers.WithLabelValues(normalizeLabel(collection)).Dec()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
