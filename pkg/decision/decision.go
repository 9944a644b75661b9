package decision

import (
	"time"

	"github.com/google/uuid"

	"arbiter-hq/gavel/pkg/action"
)

// Result is the adjudication outcome.
type Result string

const (
	// ResultAllow permits the action.
	ResultAllow Result = "ALLOW"

	// ResultDeny blocks the action.
	ResultDeny Result = "DENY"
)

// Severity grades a decision. It is derived from the result, never set
// independently.
type Severity string

const (
	// SeveritySoft marks allow decisions.
	SeveritySoft Severity = "soft"

	// SeverityHard marks deny decisions, including fail-close denials.
	SeverityHard Severity = "hard"
)

// severityFor derives the decision severity from the result.
func severityFor(result Result) Severity {
	if result == ResultDeny {
		return SeverityHard
	}
	return SeveritySoft
}

// Decision is the immutable adjudication result for one action. Exactly
// one Decision exists per evaluation; the audit subsystem retains copies.
type Decision struct {
	// DecisionID uniquely identifies this adjudication.
	DecisionID string

	// ActionID back-references the adjudicated action. The decision does
	// not own the action.
	ActionID string

	// ActionType is the adjudicated action's type, carried for audit.
	ActionType string

	// ActionTarget is the adjudicated action's target, carried for audit.
	ActionTarget string

	// ActionMetadata is a copy of the adjudicated action's metadata.
	ActionMetadata map[string]string

	// PolicyID names the policy that produced the decision, or one of the
	// reserved synthetic IDs for fail-close and default-allow decisions.
	PolicyID string

	// Result is ALLOW or DENY.
	Result Result

	// Reason explains the decision. Never empty on a denial.
	Reason string

	// Suggestion is an optional natural-language replan hint attached to
	// denials. Empty when the producing policy has no hint-table entry.
	Suggestion string

	// Alternative is an optional structured replan hint attached to
	// denials.
	Alternative map[string]string

	// Severity is hard for denials, soft for allows.
	Severity Severity

	// Timestamp records when the decision was made, in UTC.
	Timestamp time.Time
}

// New creates a Decision for act with a fresh DecisionID and a UTC
// timestamp. Severity is derived from result. The action's metadata is
// copied.
func New(act *action.Action, policyID string, result Result, reason string) *Decision {
	return &Decision{
		DecisionID:     uuid.New().String(),
		ActionID:       act.ID,
		ActionType:     act.Type,
		ActionTarget:   act.Target,
		ActionMetadata: act.Metadata(),
		PolicyID:       policyID,
		Result:         result,
		Reason:         reason,
		Severity:       severityFor(result),
		Timestamp:      time.Now().UTC(),
	}
}

// WithHint returns a copy of the decision carrying the given replan hint.
// The alternative map is copied.
func (d *Decision) WithHint(suggestion string, alternative map[string]string) *Decision {
	out := *d
	out.Suggestion = suggestion
	if len(alternative) > 0 {
		out.Alternative = make(map[string]string, len(alternative))
		for k, v := range alternative {
			out.Alternative[k] = v
		}
	} else {
		out.Alternative = nil
	}
	return &out
}

// Denied reports whether the decision blocks the action.
func (d *Decision) Denied() bool {
	return d.Result == ResultDeny
}
