// Package metrics tracks worker activity with lock-free counters and
// exposes them through a dedicated Prometheus registry.
package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the worker's counters. Fields are updated with atomics so
// the frame loop never blocks on instrumentation.
type Metrics struct {
	// Session lifecycle
	SessionsStarted atomic.Uint64

	// Frame pipeline
	FramesProcessed atomic.Uint64
	AlertsEmitted   atomic.Uint64

	// Errors
	SourceErrors  atomic.Uint64
	ProcessErrors atomic.Uint64

	// Latest full-cycle latency (inference + filtering + annotation) in ms
	InferenceLatencyMs atomic.Uint64

	registry *prometheus.Registry
}

// New creates a Metrics instance with its collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.registerCollectors()
	return m
}

func (m *Metrics) registerCollectors() {
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "worker_sessions_started_total",
			Help: "Total detection sessions started",
		},
		func() float64 { return float64(m.SessionsStarted.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "worker_frames_processed_total",
			Help: "Total frames run through the detection cycle",
		},
		func() float64 { return float64(m.FramesProcessed.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "worker_alerts_emitted_total",
			Help: "Total detection alerts emitted",
		},
		func() float64 { return float64(m.AlertsEmitted.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "worker_source_errors_total",
			Help: "Total fatal source read failures",
		},
		func() float64 { return float64(m.SourceErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "worker_process_errors_total",
			Help: "Total failed frame processing cycles",
		},
		func() float64 { return float64(m.ProcessErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "worker_inference_latency_ms",
			Help: "Latest detection cycle latency in milliseconds",
		},
		func() float64 { return float64(m.InferenceLatencyMs.Load()) },
	))
}

// ObserveInference records the latency of one detection cycle.
func (m *Metrics) ObserveInference(d time.Duration) {
	m.InferenceLatencyMs.Store(uint64(d.Milliseconds()))
}

// Handler returns the Prometheus HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
