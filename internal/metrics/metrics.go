// Package metrics provides Prometheus metrics for packing runs and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder groups the collectors registered for one process. Every Recorder
// owns its registry so tests can create as many as they need.
type Recorder struct {
	registry *prometheus.Registry

	packRuns       *prometheus.CounterVec
	packDuration   *prometheus.HistogramVec
	itemsPacked    *prometheus.CounterVec
	itemsUnpacked  *prometheus.CounterVec
	volumeFraction *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a Recorder backed by a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		// Packing metrics
		packRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packing_runs_total",
				Help: "Total number of packing runs",
			},
			[]string{"algorithm", "complete"},
		),
		packDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "packing_run_duration_seconds",
				Help:    "Time taken by a single packing run",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"algorithm"},
		),
		itemsPacked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packing_items_packed_total",
				Help: "Total number of item units placed in a container",
			},
			[]string{"algorithm"},
		),
		itemsUnpacked: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "packing_items_unpacked_total",
				Help: "Total number of item units left out of a container",
			},
			[]string{"algorithm"},
		),
		volumeFraction: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "packing_container_volume_ratio",
				Help:    "Fraction of the container volume filled by a run",
				Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
			},
			[]string{"algorithm"},
		),

		// HTTP metrics
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "path", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// RecordPack records the outcome of one algorithm run against one container.
func (m *Recorder) RecordPack(algorithm string, complete bool, packed, unpacked int, volumeRatio float64, duration time.Duration) {
	if m == nil {
		return
	}
	m.packRuns.WithLabelValues(algorithm, strconv.FormatBool(complete)).Inc()
	m.packDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	m.itemsPacked.WithLabelValues(algorithm).Add(float64(packed))
	m.itemsUnpacked.WithLabelValues(algorithm).Add(float64(unpacked))
	m.volumeFraction.WithLabelValues(algorithm).Observe(volumeRatio)
}

// RecordRequest records a served HTTP request.
func (m *Recorder) RecordRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Recorder) Registry() *prometheus.Registry {
	return m.registry
}
