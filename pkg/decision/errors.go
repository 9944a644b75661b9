package decision

import "fmt"

// DeniedError is the error-shaped form of a deny decision, for callers
// that propagate denials through error returns. The engine itself never
// raises it: a denial is an expected adjudication outcome, not a failure.
type DeniedError struct {
	Decision *Decision
}

// Error implements the error interface.
func (e *DeniedError) Error() string {
	return fmt.Sprintf("action %s denied by policy %s: %s",
		e.Decision.ActionID, e.Decision.PolicyID, e.Decision.Reason)
}

// ErrIfDenied returns a *DeniedError when the decision blocks the action,
// nil otherwise.
func ErrIfDenied(d *Decision) error {
	if d.Denied() {
		return &DeniedError{Decision: d}
	}
	return nil
}
