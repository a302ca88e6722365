// Package metrics is the optional observability surface: per-builder-
// instance rather than process-global state. A caller opts a store into
// it via builder.WithMetrics, and every Metrics value registers against
// the *prometheus.Registry the caller owns rather than the global default
// registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts tracker writes and tracks live object counts. The zero
// value is not usable; construct with New.
type Metrics struct {
	WritesTotal  *prometheus.CounterVec
	ObjectsStored *prometheus.GaugeVec
}

// New creates a Metrics set and registers it against reg. Registering the
// same collector twice against the same registry is an AlreadyRegistered
// error from the prometheus client; callers should construct one Metrics
// per builder.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		WritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fakecluster",
			Name:      "writes_total",
			Help:      "Total tracker writes by operation and kind.",
		}, []string{"op", "kind"}),
		ObjectsStored: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "fakecluster",
			Name:      "objects_stored",
			Help:      "Current number of stored objects by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.WritesTotal, m.ObjectsStored)
	return m
}

// ObserveWrite records one write of the given op ("add", "create",
// "update", "update-status", "delete") against kind.
func (m *Metrics) ObserveWrite(op, kind string) {
	if m == nil {
		return
	}
	m.WritesTotal.WithLabelValues(op, kind).Inc()
}

// SetObjectsStored overwrites the current gauge value for kind. The
// tracker calls this after every write that changes the object count for
// that kind, rather than incrementing/decrementing, so a missed call never
// drifts the count.
func (m *Metrics) SetObjectsStored(kind string, count int) {
	if m == nil {
		return
	}
	m.ObjectsStored.WithLabelValues(kind).Set(float64(count))
}
