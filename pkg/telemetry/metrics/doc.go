// Package metrics provides Prometheus instrumentation for the
// adjudication pipeline.
//
// All metrics share the "gavel" namespace and are grouped by component:
//
//   - gavel_adjudication_*: evaluation counts, latencies, and fail-close
//     denials produced by the engine
//   - gavel_audit_*: sink failures and records dropped or written by the
//     audit subsystem
//   - gavel_registry_*: frozen rule set size, load time, and drift events
//
// # Basic Usage
//
//	m := metrics.New(nil, nil)
//	eng, err := engine.New(reg, engine.WithMetrics(m))
//	...
//	http.Handle("/metrics", m.Handler())
//
// A nil *Metrics is valid everywhere one is accepted: every recording
// method is a no-op on a nil receiver, so callers that do not scrape
// metrics pass nil and skip the dependency entirely.
package metrics
