package tracker

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/quakewatch/quakewatch/internal/domain"
)

const metricsNamespace = "quakewatch"

// Metrics holds the prometheus collectors of the tracker
type Metrics struct {
	Records       *prometheus.GaugeVec
	Events        prometheus.Gauge
	Notifications *prometheus.CounterVec
	Hooks         *prometheus.CounterVec
	DuplicateAdds prometheus.Counter
	LoadFailures  *prometheus.CounterVec
	Sweeps        prometheus.Counter
	Evictions     *prometheus.CounterVec
}

// NewMetrics creates the tracker collectors and registers them with reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "records",
			Help:      "Number of cached records by kind",
		}, []string{"kind"}),
		Events: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "events",
			Help:      "Number of tracked events",
		}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "notifications_total",
			Help:      "Notifications handled by kind and operation",
		}, []string{"kind", "operation"}),
		Hooks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "hook_dispatches_total",
			Help:      "Preferred solution changes dispatched to hooks by kind",
		}, []string{"kind"}),
		DuplicateAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "duplicate_adds_total",
			Help:      "Add notifications for already tracked events",
		}),
		LoadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "load_failures_total",
			Help:      "Records the loader could not fetch by kind and reason",
		}, []string{"kind", "reason"}),
		Sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "sweeps_total",
			Help:      "Eviction sweeps run",
		}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "tracker",
			Name:      "evictions_total",
			Help:      "Entries removed by the sweeper by kind",
		}, []string{"kind"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.Records,
			m.Events,
			m.Notifications,
			m.Hooks,
			m.DuplicateAdds,
			m.LoadFailures,
			m.Sweeps,
			m.Evictions,
		)
	}

	return m
}

func (m *Metrics) observeSizes(records *RecordStore, events int) {
	for _, kind := range cachedKinds {
		m.Records.WithLabelValues(string(kind)).Set(float64(records.Count(kind)))
	}
	m.Events.Set(float64(events))
}

func (m *Metrics) loadFailed(kind domain.Kind, reason string) {
	m.LoadFailures.WithLabelValues(string(kind), reason).Inc()
}
