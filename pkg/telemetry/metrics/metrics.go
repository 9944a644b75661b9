package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "gavel"

// Config controls metric collection.
type Config struct {
	// Enabled turns collection on. When false every recording method is
	// a no-op and nothing is registered.
	// Default: true.
	Enabled bool

	// Namespace is the Prometheus namespace for all metrics.
	// Default: "gavel".
	Namespace string
}

// DefaultConfig returns the default metrics configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:   true,
		Namespace: DefaultNamespace,
	}
}

// Metrics owns every collector the adjudication pipeline records into.
// The zero-value pointer is usable: all recording methods are no-ops on
// a nil receiver, so components accept *Metrics without nil checks.
type Metrics struct {
	config   *Config
	registry *prometheus.Registry

	adjudication *adjudicationMetrics
	audit        *auditMetrics
	ruleset      *rulesetMetrics
}

// New creates a Metrics instance and registers all collectors with the
// provided registry. A nil registry gets a fresh private registry; a nil
// config gets defaults. When cfg.Enabled is false nothing is registered
// and every recording method is a no-op.
func New(cfg *Config, registry *prometheus.Registry) *Metrics {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		config:   cfg,
		registry: registry,
	}

	if cfg.Enabled {
		m.adjudication = newAdjudicationMetrics(cfg, registry)
		m.audit = newAuditMetrics(cfg, registry)
		m.ruleset = newRulesetMetrics(cfg, registry)
	}

	return m
}

// enabled reports whether recording should happen. Safe on nil.
func (m *Metrics) enabled() bool {
	return m != nil && m.config.Enabled
}

// Registry returns the Prometheus registry backing this instance, or nil
// on a nil receiver.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler exposing the registry in Prometheus
// exposition format, suitable for mounting at /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
