package registry

import (
	"fmt"
	"strings"
)

// RegistryError is a fatal load-time failure. The engine must never start
// without a frozen registry, so callers treat this as a startup abort.
type RegistryError struct {
	// Operation is the registry operation that failed ("load", "get").
	Operation string

	// Message describes the failure.
	Message string

	// Errors lists the individual defects found during a load, one per
	// malformed or colliding definition. Empty for non-aggregate failures.
	Errors []error

	// Cause is the underlying error, may be nil.
	Cause error
}

// Error implements the error interface.
func (e *RegistryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "registry %s failed: %s", e.Operation, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	for _, err := range e.Errors {
		fmt.Fprintf(&b, "\n  - %v", err)
	}
	return b.String()
}

// Unwrap returns the aggregated defects and the cause for errors.Is and
// errors.As.
func (e *RegistryError) Unwrap() []error {
	errs := make([]error, 0, len(e.Errors)+1)
	errs = append(errs, e.Errors...)
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// NotFoundError reports a lookup for a policy ID the frozen set does not
// contain.
type NotFoundError struct {
	PolicyID string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("policy %q not found in registry", e.PolicyID)
}
