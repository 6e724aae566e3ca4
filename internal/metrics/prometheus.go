package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// Metrics holds the token store counters.
type Metrics struct {
	Reconciliations prometheus.Counter
	SelfHeals       *prometheus.CounterVec // by token kind: access, refresh
	StorageFailures *prometheus.CounterVec // by facade operation
}

// New creates the token store metrics and registers them with reg. A nil
// reg leaves them unregistered. Registration failures are logged; the
// counters stay usable.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tokenstore_reconciliations_total",
			Help: "Total number of access tokens re-stored because their authentication fingerprint was stale.",
		}),
		SelfHeals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenstore_self_heal_total",
			Help: "Total number of records deleted because their stored blob could not be decoded.",
		}, []string{"kind"}),
		StorageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenstore_storage_failures_total",
			Help: "Total number of storage failures seen by the token store.",
		}, []string{"op"}),
	}

	if reg == nil {
		return m
	}

	for name, c := range map[string]prometheus.Collector{
		"Reconciliations": m.Reconciliations,
		"SelfHeals":       m.SelfHeals,
		"StorageFailures": m.StorageFailures,
	} {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Str("metric", name).Msg("Failed to register token store metric")
		}
	}

	return m
}

// Reconciled counts one reconciliation.
func (m *Metrics) Reconciled() {
	if m == nil {
		return
	}
	m.Reconciliations.Inc()
}

// SelfHealed counts one self-heal deletion of the given token kind.
func (m *Metrics) SelfHealed(kind string) {
	if m == nil {
		return
	}
	m.SelfHeals.WithLabelValues(kind).Inc()
}

// StorageFailed counts one storage failure in op.
func (m *Metrics) StorageFailed(op string) {
	if m == nil {
		return
	}
	m.StorageFailures.WithLabelValues(op).Inc()
}
