// Package metrics exposes engine counters and gauges to Prometheus. Every
// method is safe on a nil *Metrics so components can run without them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "otterclip"

// Metrics contains all engine metrics
type Metrics struct {
	registry *prometheus.Registry

	HistoryItems    prometheus.Gauge
	HistoryCapacity prometheus.Gauge
	Inserts         *prometheus.CounterVec
	PressureEvents  *prometheus.CounterVec
	ImagesUnloaded  prometheus.Counter
	PersistSaves    *prometheus.CounterVec
	PersistCoalesce prometheus.Counter
	Copies          *prometheus.CounterVec
}

// New creates the metrics and registers them, with Go runtime collectors,
// on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HistoryItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "items",
			Help:      "Number of items currently held in history",
		}),
		HistoryCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "capacity",
			Help:      "Maximum number of history items",
		}),
		Inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "inserts_total",
			Help:      "Insert attempts by result (inserted, duplicate)",
		}, []string{"result"}),
		PressureEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pressure",
			Name:      "events_total",
			Help:      "Pressure signals handled by level",
		}, []string{"level"}),
		ImagesUnloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_unloaded_total",
			Help:      "Image payloads released under pressure",
		}),
		PersistSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "saves_total",
			Help:      "Persistence operations by op and status",
		}, []string{"op", "status"}),
		PersistCoalesce: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "persist",
			Name:      "coalesced_total",
			Help:      "Queued persistence operations superseded before being written",
		}),
		Copies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "copies_total",
			Help:      "Copy-to-clipboard requests by status",
		}, []string{"status"}),
	}

	m.registry.MustRegister(
		m.HistoryItems,
		m.HistoryCapacity,
		m.Inserts,
		m.PressureEvents,
		m.ImagesUnloaded,
		m.PersistSaves,
		m.PersistCoalesce,
		m.Copies,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the underlying Prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) SetHistory(items, capacity int) {
	if m == nil {
		return
	}
	m.HistoryItems.Set(float64(items))
	m.HistoryCapacity.Set(float64(capacity))
}

func (m *Metrics) Insert(inserted bool) {
	if m == nil {
		return
	}
	result := "inserted"
	if !inserted {
		result = "duplicate"
	}
	m.Inserts.WithLabelValues(result).Inc()
}

func (m *Metrics) Pressure(level string, unloaded int) {
	if m == nil {
		return
	}
	m.PressureEvents.WithLabelValues(level).Inc()
	m.ImagesUnloaded.Add(float64(unloaded))
}

func (m *Metrics) Persist(op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.PersistSaves.WithLabelValues(op, status).Inc()
}

func (m *Metrics) Coalesced() {
	if m == nil {
		return
	}
	m.PersistCoalesce.Inc()
}

func (m *Metrics) Copy(status string) {
	if m == nil {
		return
	}
	m.Copies.WithLabelValues(status).Inc()
}
