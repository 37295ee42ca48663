package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the preview server's collectors on a private registry, so
// several servers can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	Events         *prometheus.CounterVec
	EventLatency   prometheus.Histogram
	SessionsActive prometheus.Gauge
	Reloads        *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers every collector.
func NewMetrics() *Metrics {
	r := &Metrics{registry: prometheus.NewRegistry()}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r.Events = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringmap_events_total",
			Help: "Pointer events handled, by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	r.EventLatency = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ringmap_event_duration_seconds",
			Help:    "Time to apply one pointer event",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "ringmap_sessions_active",
			Help: "Number of live interaction sessions",
		},
	)

	r.Reloads = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "ringmap_reloads_total",
			Help: "Dataset reloads, by outcome",
		},
		[]string{"status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ringmap_render_duration_seconds",
			Help:    "Time to render a diagram, by output format",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
		[]string{"format"},
	)

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
