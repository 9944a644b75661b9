package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"arbiter-hq/gavel/pkg/action"
	"arbiter-hq/gavel/pkg/audit"
	"arbiter-hq/gavel/pkg/decision"
	"arbiter-hq/gavel/pkg/policy"
	"arbiter-hq/gavel/pkg/policy/evaluator"
	"arbiter-hq/gavel/pkg/policy/registry"
	"arbiter-hq/gavel/pkg/telemetry/metrics"
)

// instrumentationName identifies this package's tracer.
const instrumentationName = "arbiter-hq/gavel/pkg/policy/engine"

// Engine adjudicates actions against the frozen rule set of a loaded
// registry. It is safe for concurrent use: the policy set is immutable
// and each evaluation works on its own state.
type Engine struct {
	registry *registry.Registry

	// policies is the frozen set snapshotted at construction. The
	// registry never changes it after a successful load.
	policies []*policy.Policy

	eval    *evaluator.Evaluator
	sink    audit.Sink
	metrics *metrics.Metrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the audit sink that receives every decision. Without a
// sink decisions are returned but not retained anywhere.
func WithSink(s audit.Sink) Option {
	return func(e *Engine) {
		e.sink = s
	}
}

// WithMetrics sets the metrics instance. A nil value is valid and
// disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithTracerProvider sets the tracer provider used to create evaluation
// spans. By default the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracer = tp.Tracer(instrumentationName)
	}
}

// New creates an Engine over reg. The registry must already be loaded: an
// engine over an unloaded registry would see zero policies and wave every
// action through, so construction refuses it instead.
func New(reg *registry.Registry, opts ...Option) (*Engine, error) {
	if reg == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	if !reg.Loaded() {
		return nil, fmt.Errorf("registry is not loaded: call Load before constructing the engine")
	}

	e := &Engine{
		registry: reg,
		policies: reg.GetAll(),
		eval:     evaluator.New(),
		tracer:   otel.Tracer(instrumentationName),
		logger:   slog.Default().With("component", "policy.engine"),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.metrics.RecordRegistryLoad(len(e.policies), reg.LoadTime())

	return e, nil
}

// RuleSetVersion returns the content version of the rule set this engine
// adjudicates against.
func (e *Engine) RuleSetVersion() string {
	return e.registry.Version()
}

// Evaluate adjudicates act and returns exactly one decision. It never
// returns nil, never panics, and has no error return: every internal
// failure becomes a hard denial under the reserved GVL-FAILCLOSE policy
// ID. The context carries trace metadata only; cancellation does not
// interrupt an adjudication in progress.
//
// The decision is offered to the audit sink before it is returned. A
// sink failure is logged and counted but never blocks the caller.
func (e *Engine) Evaluate(ctx context.Context, act *action.Action) *decision.Decision {
	start := time.Now()

	_, span := e.tracer.Start(ctx, "gavel.adjudicate")
	defer span.End()

	d := e.adjudicate(act)

	if act != nil {
		span.SetAttributes(
			attribute.String("gavel.action.type", act.Type),
			attribute.String("gavel.action.target", act.Target),
		)
	}
	span.SetAttributes(
		attribute.String("gavel.decision.result", string(d.Result)),
		attribute.String("gavel.decision.policy_id", d.PolicyID),
	)
	if d.PolicyID == policy.FailCloseID {
		span.SetStatus(codes.Error, d.Reason)
	}

	e.metrics.RecordEvaluation(string(d.Result), d.PolicyID, time.Since(start))
	e.record(d, act)

	return d
}

// adjudicate walks the rule set and combines matches under deny-overrides.
// The named return lets the panic handler substitute a fail-close denial.
func (e *Engine) adjudicate(act *action.Action) (d *decision.Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during adjudication, denying by default", "panic", r)
			e.metrics.RecordFailClose()
			d = e.failClose(act, NewFailCloseError("", fmt.Errorf("internal panic: %v", r)))
		}
	}()

	if act == nil {
		e.logger.Error("nil action submitted for adjudication, denying by default")
		e.metrics.RecordFailClose()
		return e.failClose(nil, NewFailCloseError("", errors.New("no action was submitted")))
	}

	var firstAllow *decision.Decision
	for _, pol := range e.policies {
		match, err := e.eval.Evaluate(act, pol)
		if err != nil {
			e.logger.Error("policy evaluation failed, denying by default",
				"policy_id", pol.ID,
				"action_id", act.ID,
				"error", err)
			e.metrics.RecordFailClose()
			return e.failClose(act, NewFailCloseError(pol.ID, err))
		}
		if match == nil {
			continue
		}
		if match.Denied() {
			return match
		}
		if firstAllow == nil {
			firstAllow = match
		}
	}

	if firstAllow != nil {
		return firstAllow
	}

	return decision.New(act, policy.DefaultAllowID, decision.ResultAllow,
		"no policy matched; action permitted by default")
}

// failClose synthesizes the hard denial returned when adjudication itself
// failed. It handles a nil action: the denial then carries no action
// fields but still identifies the failure.
func (e *Engine) failClose(act *action.Action, cause *FailCloseError) *decision.Decision {
	reason := fmt.Sprintf("%v; denying by default", cause)
	if act != nil {
		return decision.New(act, policy.FailCloseID, decision.ResultDeny, reason)
	}
	return &decision.Decision{
		DecisionID: uuid.New().String(),
		PolicyID:   policy.FailCloseID,
		Result:     decision.ResultDeny,
		Reason:     reason,
		Severity:   decision.SeverityHard,
		Timestamp:  time.Now().UTC(),
	}
}

// record offers the decision to the audit sink. Sink failures are
// surfaced through the log and the failure counter, never to the caller.
func (e *Engine) record(d *decision.Decision, act *action.Action) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Record(d, act); err != nil {
		e.logger.Warn("audit sink rejected decision",
			"decision_id", d.DecisionID,
			"policy_id", d.PolicyID,
			"error", err)
		e.metrics.RecordSinkFailure(fmt.Sprintf("%T", e.sink))
	}
}
