package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	reportDuration   *prometheus.HistogramVec
	revocationChecks *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors on a private registry.
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

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_fetch_duration_seconds",
		Help:    "Duration of record fetches issued while building analytics reports",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	reportDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_report_duration_seconds",
		Help:    "End to end duration of analytics report assembly",
		Buckets: prometheus.DefBuckets,
	}, []string{"report"})

	revocationChecks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "token_revocation_checks_total",
		Help: "Access token deny-list lookups by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, fetchDuration, reportDuration, revocationChecks, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		fetchDuration:    fetchDuration,
		reportDuration:   reportDuration,
		revocationChecks: revocationChecks,
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

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveFetch records how long a record fetch took. source is "grades", "attendance" or "student".
func (m *MetricsService) ObserveFetch(source string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveReport records how long a report took to assemble.
func (m *MetricsService) ObserveReport(report string, duration time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(report).Observe(duration.Seconds())
}

// RecordRevocationCheck counts deny-list lookups.
func (m *MetricsService) RecordRevocationCheck(revoked bool, err error) {
	if m == nil {
		return
	}
	result := "allowed"
	switch {
	case err != nil:
		result = "error"
	case revoked:
		result = "revoked"
	}
	m.revocationChecks.WithLabelValues(result).Inc()
}
