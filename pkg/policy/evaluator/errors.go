package evaluator

import "fmt"

// EvaluationError reports an unexpected failure while matching one policy
// against one action. It always propagates to the engine, which converts
// it into a fail-close denial; it is never swallowed here.
type EvaluationError struct {
	PolicyID     string // Policy being matched when the failure occurred
	ConditionKey string // Operator key whose evaluation failed
	Cause        error  // Underlying error
}

// Error implements the error interface.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error [policy=%s, condition=%s]: %v", e.PolicyID, e.ConditionKey, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// NewEvaluationError creates a new EvaluationError.
func NewEvaluationError(policyID, conditionKey string, cause error) *EvaluationError {
	return &EvaluationError{
		PolicyID:     policyID,
		ConditionKey: conditionKey,
		Cause:        cause,
	}
}
