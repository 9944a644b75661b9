package evaluator

import (
	"fmt"

	"arbiter-hq/gavel/pkg/action"
	"arbiter-hq/gavel/pkg/decision"
	"arbiter-hq/gavel/pkg/policy"
	"arbiter-hq/gavel/pkg/policy/hints"
)

// Evaluator matches actions against single policies. The zero value is
// ready to use; New exists for symmetry with the other components.
type Evaluator struct{}

// New creates an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// Evaluate checks act against pol's condition set.
//
// It returns (nil, nil) when the conditions are not satisfied, a decision
// when they are, and a *EvaluationError when matching itself failed. Deny
// decisions carry the replan hint from the canonical hint table when one
// exists; a missing table entry yields an empty suggestion, not an error.
func (e *Evaluator) Evaluate(act *action.Action, pol *policy.Policy) (*decision.Decision, error) {
	matched, err := match(act, pol)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, nil
	}

	if pol.Severity == policy.SeverityDeny {
		reason := fmt.Sprintf("action %q on %q violates policy %s (%s)",
			act.Type, act.Target, pol.ID, pol.Name)
		d := decision.New(act, pol.ID, decision.ResultDeny, reason)
		if h, ok := hints.Lookup(pol.ID); ok {
			d = d.WithHint(h.Suggestion, h.Alternative)
		}
		return d, nil
	}

	reason := fmt.Sprintf("action permitted by policy %s (%s)", pol.ID, pol.Name)
	return decision.New(act, pol.ID, decision.ResultAllow, reason), nil
}
