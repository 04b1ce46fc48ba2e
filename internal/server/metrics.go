package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/fuzzfleet/internal/render"
)

// Metrics owns the orchestrator's own Prometheus registry: HTTP exporter
// metrics plus a mirror of the fleet's last observed state. Every instance
// uses a private registry so repeated construction (tests, restarts) never
// trips duplicate registration.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	activeRequests prometheus.Gauge
	requestsTotal  prometheus.Counter

	fleetActive     prometheus.Gauge
	fleetRound      prometheus.Gauge
	fleetPollsTotal prometheus.Counter
	fleetExecutions *prometheus.GaugeVec
}

// NewMetrics creates a Metrics with its collectors registered, including
// the Go runtime and process collectors.
//
// Returns:
//   - *Metrics: Ready-to-serve metrics state.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		activeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fuzzfleet_active_requests",
			Help: "Number of HTTP requests currently being served.",
		}),
		requestsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuzzfleet_requests_total",
			Help: "Total number of HTTP requests served.",
		}),
		fleetActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fuzzfleet_fleet_active_instances",
			Help: "Number of fleet instances still running as of the last poll.",
		}),
		fleetRound: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fuzzfleet_fleet_round",
			Help: "Round currently being executed.",
		}),
		fleetPollsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fuzzfleet_fleet_polls_total",
			Help: "Total number of fleet polls performed.",
		}),
		fleetExecutions: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fuzzfleet_fleet_executions",
			Help: "Last observed executions count per instance.",
		}, []string{"instance"}),
	}
}

// IncrementActiveRequests records one more in-flight HTTP request.
func (m *Metrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
	m.requestsTotal.Inc()
}

// DecrementActiveRequests records one finished HTTP request.
func (m *Metrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// ObserveSnapshot mirrors one poll of the fleet into the exporter. Unknown
// counts leave the per-instance gauge at its previous value.
//
// Parameters:
//   - snap: The fleet state as of this poll.
func (m *Metrics) ObserveSnapshot(snap render.Snapshot) {
	m.fleetPollsTotal.Inc()
	m.fleetRound.Set(float64(snap.Round))

	active := 0
	for _, inst := range snap.Instances {
		switch inst.State {
		case render.StateStarting, render.StateRunning:
			active++
		}
		if inst.Known {
			m.fleetExecutions.WithLabelValues(inst.Name).Set(float64(inst.Count))
		}
	}
	m.fleetActive.Set(float64(active))
}

// WritePrometheus serves the registry in the Prometheus exposition format.
//
// Parameters:
//   - w: Response writer receiving the exposition.
//   - r: The incoming request.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// SnapshotSink adapts Metrics to the render.Sink interface so the
// orchestration loop feeds the exporter without knowing about Prometheus.
type SnapshotSink struct {
	metrics *Metrics
}

// NewSnapshotSink wraps m as a render.Sink.
func NewSnapshotSink(m *Metrics) SnapshotSink {
	return SnapshotSink{metrics: m}
}

// Render forwards the snapshot to the exporter.
func (s SnapshotSink) Render(snap render.Snapshot) {
	s.metrics.ObserveSnapshot(snap)
}
