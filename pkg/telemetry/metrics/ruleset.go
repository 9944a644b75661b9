package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// rulesetMetrics tracks the frozen rule set.
//
// Metrics:
//   - gavel_registry_policies_loaded: size of the frozen set
//   - gavel_registry_load_timestamp_seconds: when the set was frozen
//   - gavel_registry_drift_events_total: source divergence observations
type rulesetMetrics struct {
	policiesLoaded   prometheus.Gauge
	loadTimestamp    prometheus.Gauge
	driftEventsTotal prometheus.Counter
}

func newRulesetMetrics(cfg *Config, registry *prometheus.Registry) *rulesetMetrics {
	rm := &rulesetMetrics{
		policiesLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "registry_policies_loaded",
				Help:      "Number of policies in the frozen registry",
			},
		),

		loadTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Name:      "registry_load_timestamp_seconds",
				Help:      "Unix time at which the registry froze its rule set",
			},
		),

		driftEventsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "registry_drift_events_total",
				Help:      "Total number of times the rule source diverged from the frozen set",
			},
		),
	}

	registry.MustRegister(
		rm.policiesLoaded,
		rm.loadTimestamp,
		rm.driftEventsTotal,
	)

	return rm
}

// RecordRegistryLoad records a successful registry freeze.
func (m *Metrics) RecordRegistryLoad(policies int, loadTime time.Time) {
	if !m.enabled() {
		return
	}
	m.ruleset.policiesLoaded.Set(float64(policies))
	m.ruleset.loadTimestamp.Set(float64(loadTime.Unix()))
}

// RecordDriftEvent records one observation of the rule source diverging
// from the frozen set.
func (m *Metrics) RecordDriftEvent() {
	if !m.enabled() {
		return
	}
	m.ruleset.driftEventsTotal.Inc()
}
