// Package metrics exports device state in the Prometheus text format.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/use-agent/printprobe/device"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics holds the collectors for all devices. Observe feeds it from
// device refreshes.
type Metrics struct {
	registry    *prometheus.Registry
	up          *prometheus.GaugeVec
	ink         *prometheus.GaugeVec
	maintenance *prometheus.GaugeVec
	duration    *prometheus.GaugeVec
	refreshes   *prometheus.CounterVec

	mu       sync.Mutex
	channels map[string]map[string]bool
}

// New creates a registry with the Go runtime collector, the exporter info
// gauge and the device collectors.
func New(namespace, version string) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	newExporterMetric(registry, namespace, version)

	m := &Metrics{
		registry:    registry,
		up:          newGaugeVec(registry, namespace, "device", "up", "Whether the last refresh of the device succeeded.", "device"),
		ink:         newGaugeVec(registry, namespace, "ink", "level_percent", "Ink level per channel in percent.", "device", "channel"),
		maintenance: newGaugeVec(registry, namespace, "maintenance_box", "percent", "Maintenance box fill level in percent.", "device"),
		duration:    newGaugeVec(registry, namespace, "refresh", "duration_seconds", "Duration of the last refresh.", "device"),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "total",
			Help:      "Device refreshes by result.",
		}, []string{"device", "result"}),
		channels: make(map[string]map[string]bool),
	}
	registry.MustRegister(m.refreshes)
	return m
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observe records one refresh. It has the device.Observer signature.
func (m *Metrics) Observe(c device.Change) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := c.DeviceID
	m.duration.WithLabelValues(id).Set(c.Duration.Seconds())
	if c.Current == nil {
		m.up.WithLabelValues(id).Set(0)
		m.refreshes.WithLabelValues(id, resultFailure).Inc()
		m.clearLevels(id, nil)
		return
	}

	m.up.WithLabelValues(id).Set(1)
	m.refreshes.WithLabelValues(id, resultSuccess).Inc()

	seen := make(map[string]bool, len(c.Current.Inks))
	for channel, level := range c.Current.Inks {
		m.ink.WithLabelValues(id, channel).Set(float64(level))
		seen[channel] = true
	}
	m.clearLevels(id, seen)
	m.channels[id] = seen

	if c.Current.MaintenanceBox != nil {
		m.maintenance.WithLabelValues(id).Set(float64(*c.Current.MaintenanceBox))
	} else {
		m.maintenance.DeleteLabelValues(id)
	}
}

// clearLevels drops the ink series of id that are not in keep. A nil keep
// drops every level series of the device.
func (m *Metrics) clearLevels(id string, keep map[string]bool) {
	for channel := range m.channels[id] {
		if !keep[channel] {
			m.ink.DeleteLabelValues(id, channel)
		}
	}
	if keep == nil {
		delete(m.channels, id)
		m.maintenance.DeleteLabelValues(id)
	}
}

func newExporterMetric(registry *prometheus.Registry, namespace, version string) {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   "exporter",
		Name:        "info",
		Help:        "Metadata about the exporter.",
		ConstLabels: prometheus.Labels{"version": version},
	})
	registry.MustRegister(g)
	g.Set(1)
}

func newGaugeVec(registry *prometheus.Registry, namespace, subsystem, name, help string, labels ...string) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
	registry.MustRegister(g)
	return g
}
