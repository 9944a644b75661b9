package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"arbiter-hq/gavel/pkg/policy"
	"arbiter-hq/gavel/pkg/policy/source"
)

// instrumentationName identifies this package's tracer.
const instrumentationName = "arbiter-hq/gavel/pkg/policy/registry"

// Registry is the load-once frozen policy set. Zero value is not usable;
// construct with New.
type Registry struct {
	src    source.Source
	logger *slog.Logger

	mu       sync.RWMutex
	loaded   bool
	policies []*policy.Policy
	byID     map[string]*policy.Policy
	version  string
	loadTime time.Time
}

// New creates an unloaded registry over src. Call Load before handing the
// registry to an engine.
func New(src source.Source) *Registry {
	return &Registry{
		src:    src,
		logger: slog.Default().With("component", "policy.registry"),
	}
}

// Load reads, validates, and freezes the rule set. The first successful
// call freezes; every later call returns the cached set without touching
// the source. A failed load leaves the registry unloaded, so startup code
// may retry after fixing the source.
//
// The returned slice is a copy in registry order; callers may mutate it
// freely.
func (r *Registry) Load(ctx context.Context) ([]*policy.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return r.snapshot(), nil
	}

	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "gavel.rules.load")
	defer span.End()
	span.SetAttributes(attribute.String("gavel.rules.source", r.src.Name()))

	policies, err := r.src.Load(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "rule source failed")
		return nil, &RegistryError{
			Operation: "load",
			Message:   fmt.Sprintf("rule source %s failed", r.src.Name()),
			Cause:     err,
		}
	}

	byID := make(map[string]*policy.Policy, len(policies))
	var defects []error
	for i, p := range policies {
		if p == nil {
			defects = append(defects, fmt.Errorf("definition %d is nil", i+1))
			continue
		}
		if err := p.Validate(); err != nil {
			defects = append(defects, err)
			continue
		}
		if prior, ok := byID[p.ID]; ok {
			defects = append(defects, policy.NewValidationError(p.ID, "id",
				fmt.Sprintf("duplicate id (already declared in %s)", describeOrigin(prior))))
			continue
		}
		byID[p.ID] = p
	}

	if len(defects) > 0 {
		span.SetStatus(codes.Error, "rule set validation failed")
		return nil, &RegistryError{
			Operation: "load",
			Message:   fmt.Sprintf("%d invalid definitions from %s", len(defects), r.src.Name()),
			Errors:    defects,
		}
	}

	r.policies = policies
	r.byID = byID
	r.version = policy.ContentVersion(policies)
	r.loadTime = time.Now().UTC()
	r.loaded = true

	span.SetAttributes(
		attribute.Int("gavel.rules.policies", len(policies)),
		attribute.String("gavel.rules.version", r.version),
	)

	r.logger.Info("policy registry frozen",
		"source", r.src.Name(),
		"policies", len(policies),
		"version", r.version,
	)
	return r.snapshot(), nil
}

// GetAll returns every policy in registry order. The slice is a copy;
// the policies themselves are shared and immutable. Empty before a
// successful Load.
func (r *Registry) GetAll() []*policy.Policy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot()
}

// GetByID returns the policy with the given ID, a *NotFoundError when the
// frozen set does not contain it, or a *RegistryError when the registry
// was never loaded.
func (r *Registry) GetByID(id string) (*policy.Policy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.loaded {
		return nil, &RegistryError{Operation: "get", Message: "registry is not loaded"}
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{PolicyID: id}
	}
	return p, nil
}

// Loaded reports whether the registry holds a frozen set.
func (r *Registry) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// Count returns the number of frozen policies, zero before Load.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.policies)
}

// Version returns the content version of the frozen set, empty before
// Load. The drift watcher compares on-disk rules against this value.
func (r *Registry) Version() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// LoadTime returns when the set was frozen, zero before Load.
func (r *Registry) LoadTime() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadTime
}

// SourceName identifies the configured rule source.
func (r *Registry) SourceName() string {
	return r.src.Name()
}

// snapshot copies the policy slice. Callers hold at least a read lock.
func (r *Registry) snapshot() []*policy.Policy {
	out := make([]*policy.Policy, len(r.policies))
	copy(out, r.policies)
	return out
}

// describeOrigin names where a policy was declared, for duplicate-id
// diagnostics.
func describeOrigin(p *policy.Policy) string {
	if p.SourceFile == "" {
		return "the rule set"
	}
	if p.Line > 0 {
		return fmt.Sprintf("%s:%d", p.SourceFile, p.Line)
	}
	return p.SourceFile
}
