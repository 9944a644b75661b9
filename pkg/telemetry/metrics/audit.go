package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// auditMetrics tracks the audit subsystem.
//
// Metrics:
//   - gavel_audit_sink_failures_total: failed sink deliveries by sink
//   - gavel_audit_records_written_total: records durably recorded
//   - gavel_audit_records_dropped_total: records lost to backpressure
type auditMetrics struct {
	sinkFailuresTotal   *prometheus.CounterVec
	recordsWrittenTotal prometheus.Counter
	recordsDroppedTotal prometheus.Counter
}

func newAuditMetrics(cfg *Config, registry *prometheus.Registry) *auditMetrics {
	am := &auditMetrics{
		sinkFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "audit_sink_failures_total",
				Help:      "Total number of decisions an audit sink failed to accept",
			},
			[]string{"sink"},
		),

		recordsWrittenTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "audit_records_written_total",
				Help:      "Total number of audit records written to durable storage",
			},
		),

		recordsDroppedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "audit_records_dropped_total",
				Help:      "Total number of audit records dropped under backpressure",
			},
		),
	}

	registry.MustRegister(
		am.sinkFailuresTotal,
		am.recordsWrittenTotal,
		am.recordsDroppedTotal,
	)

	return am
}

// RecordSinkFailure records a sink that rejected a decision. The sink
// label names the failing sink implementation.
func (m *Metrics) RecordSinkFailure(sink string) {
	if !m.enabled() {
		return
	}
	m.audit.sinkFailuresTotal.WithLabelValues(sink).Inc()
}

// RecordAuditWrite records one audit record persisted to storage.
func (m *Metrics) RecordAuditWrite() {
	if !m.enabled() {
		return
	}
	m.audit.recordsWrittenTotal.Inc()
}

// RecordAuditDrop records one audit record lost because the write queue
// was full.
func (m *Metrics) RecordAuditDrop() {
	if !m.enabled() {
		return
	}
	m.audit.recordsDroppedTotal.Inc()
}
