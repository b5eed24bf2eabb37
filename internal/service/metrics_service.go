package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

// MetricsService encapsulates Prometheus instrumentation shared by both services.
type MetricsService struct {
	registry           *prometheus.Registry
	handler            http.Handler
	requestDuration    *prometheus.HistogramVec
	requestTotal       *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	storeQueryDuration *prometheus.HistogramVec
	enrollmentWrites   *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of calls to remote services",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "status"})

	storeQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of store operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	enrollmentWrites := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "enrollment_writes_total",
		Help: "Enrollment add and update attempts by outcome",
	}, []string{"operation", "outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, storeQueryDuration, enrollmentWrites, goroutines)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		upstreamDuration:   upstreamDuration,
		storeQueryDuration: storeQueryDuration,
		enrollmentWrites:   enrollmentWrites,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records inbound request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstreamCall records the latency of a remote lookup. A status of 0
// means no response was received.
func (m *MetricsService) ObserveUpstreamCall(service string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(service, fmt.Sprintf("%d", status)).Observe(duration.Seconds())
}

// ObserveDBQuery records store operation timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// RecordEnrollmentWrite counts an add or update attempt. Failed remote
// lookups are counted apart from other failures.
func (m *MetricsService) RecordEnrollmentWrite(operation string, err error) {
	if m == nil {
		return
	}
	m.enrollmentWrites.WithLabelValues(operation, writeOutcome(err)).Inc()
}

func writeOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case appErrors.IsUpstreamFailure(err):
		return "upstream_failure"
	default:
		return "failure"
	}
}
