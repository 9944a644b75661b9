package policy

import "fmt"

// ValidationError describes one malformed policy definition, surfaced at
// load time. The registry aggregates these and refuses the whole load.
type ValidationError struct {
	PolicyID string // ID of the offending definition, may be empty
	Field    string // Definition field that is malformed
	Message  string // What is wrong with it
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.PolicyID != "" {
		return fmt.Sprintf("invalid policy %q: field %q: %s", e.PolicyID, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid policy: field %q: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(policyID, field, message string) *ValidationError {
	return &ValidationError{
		PolicyID: policyID,
		Field:    field,
		Message:  message,
	}
}
