package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// adjudicationMetrics tracks engine evaluation outcomes.
//
// Metrics:
//   - gavel_adjudication_evaluations_total: decisions by result and policy
//   - gavel_adjudication_evaluation_duration_seconds: end-to-end latency
//   - gavel_adjudication_failclose_total: synthetic denials after failures
type adjudicationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram
	failCloseTotal     prometheus.Counter
}

func newAdjudicationMetrics(cfg *Config, registry *prometheus.Registry) *adjudicationMetrics {
	am := &adjudicationMetrics{
		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "adjudication_evaluations_total",
				Help:      "Total number of adjudicated actions by result and deciding policy",
			},
			[]string{"result", "policy_id"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "adjudication_evaluation_duration_seconds",
				Help:      "Duration of a full adjudication in seconds",
				// Evaluations are in-memory and should stay well under a
				// millisecond even for large rule sets.
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),

		failCloseTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "adjudication_failclose_total",
				Help:      "Total number of denials synthesized after an evaluation failure",
			},
		),
	}

	registry.MustRegister(
		am.evaluationsTotal,
		am.evaluationDuration,
		am.failCloseTotal,
	)

	return am
}

// RecordEvaluation records one completed adjudication.
//
// The result is the decision outcome ("ALLOW" or "DENY"), policyID the
// deciding policy (including the reserved synthetic IDs), and duration
// the wall time the engine spent producing the decision.
func (m *Metrics) RecordEvaluation(result, policyID string, duration time.Duration) {
	if !m.enabled() {
		return
	}
	m.adjudication.evaluationsTotal.WithLabelValues(result, policyID).Inc()
	m.adjudication.evaluationDuration.Observe(duration.Seconds())
}

// RecordFailClose records a denial synthesized because evaluation itself
// failed. RecordEvaluation is still called separately for the decision.
func (m *Metrics) RecordFailClose() {
	if !m.enabled() {
		return
	}
	m.adjudication.failCloseTotal.Inc()
}
