// Package metrics exposes Prometheus metrics for calls made to the backend API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes recorded by RecordTokenRefresh.
const (
	RefreshSucceeded = "succeeded"
	RefreshFailed    = "failed"
	RefreshSkipped   = "skipped"
)

// Recorder is what the backend client and services report to.
type Recorder interface {
	RecordBackendCall(endpoint string, statusCode int, duration time.Duration)
	RecordBackendFailure(endpoint string, reason string)
	RecordTokenRefresh(outcome string)
}

type Collector struct {
	backendRequests *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
	backendFailures *prometheus.CounterVec
	tokenRefreshes  *prometheus.CounterVec
}

// NewCollector registers the gateway metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_backend_requests_total",
			Help: "Backend API responses by endpoint and status code.",
		}, []string{"endpoint", "status_code"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_backend_request_duration_seconds",
			Help:    "Backend API latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		backendFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_backend_failures_total",
			Help: "Backend API calls that produced no response, by reason.",
		}, []string{"endpoint", "reason"}),
		tokenRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_token_refresh_total",
			Help: "Access token refresh attempts during review submission.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.backendRequests,
		c.backendLatency,
		c.backendFailures,
		c.tokenRefreshes,
	)

	return c
}

func (c *Collector) RecordBackendCall(endpoint string, statusCode int, duration time.Duration) {
	c.backendRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	c.backendLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (c *Collector) RecordBackendFailure(endpoint string, reason string) {
	c.backendFailures.WithLabelValues(endpoint, reason).Inc()
}

func (c *Collector) RecordTokenRefresh(outcome string) {
	c.tokenRefreshes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used when metrics are disabled and in tests.
type Nop struct{}

func (Nop) RecordBackendCall(string, int, time.Duration) {}
func (Nop) RecordBackendFailure(string, string)          {}
func (Nop) RecordTokenRefresh(string)                    {}
