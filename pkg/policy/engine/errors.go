package engine

import "fmt"

// FailCloseError names the internal failure behind a synthetic denial.
// It never reaches Evaluate's callers directly; its message becomes the
// Reason of the GVL-FAILCLOSE decision.
type FailCloseError struct {
	PolicyID string // Policy under evaluation when the failure occurred, empty if none
	Cause    error  // Underlying error
}

// Error implements the error interface.
func (e *FailCloseError) Error() string {
	if e.PolicyID != "" {
		return fmt.Sprintf("evaluation of policy %s failed: %v", e.PolicyID, e.Cause)
	}
	return fmt.Sprintf("evaluation failed: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *FailCloseError) Unwrap() error {
	return e.Cause
}

// NewFailCloseError creates a new FailCloseError.
func NewFailCloseError(policyID string, cause error) *FailCloseError {
	return &FailCloseError{
		PolicyID: policyID,
		Cause:    cause,
	}
}
