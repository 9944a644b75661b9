package source

import (
	"fmt"
	"strings"
)

// LoadError describes a failure to read or parse one rule file or source.
type LoadError struct {
	FilePath string // File being loaded, may be empty for source-level failures
	Line     int    // 1-based line of the defect, zero when unknown
	Message  string // What went wrong
	Cause    error  // Underlying error, may be nil
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("failed to load rules")
	if e.FilePath != "" {
		fmt.Fprintf(&b, " from %s", e.FilePath)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap returns the underlying cause error.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// NewLoadError creates a new LoadError.
func NewLoadError(filePath, message string, cause error) *LoadError {
	return &LoadError{
		FilePath: filePath,
		Message:  message,
		Cause:    cause,
	}
}

// ErrorList aggregates every failure found during a load, so one pass
// surfaces all defects instead of stopping at the first.
type ErrorList struct {
	Errors []error
}

// Add appends an error to the list. Nil errors are ignored.
func (l *ErrorList) Add(err error) {
	if err != nil {
		l.Errors = append(l.Errors, err)
	}
}

// HasErrors reports whether any error was collected.
func (l *ErrorList) HasErrors() bool {
	return len(l.Errors) > 0
}

// Error implements the error interface.
func (l *ErrorList) Error() string {
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors loading rules:", len(l.Errors))
	for _, err := range l.Errors {
		fmt.Fprintf(&b, "\n  - %v", err)
	}
	return b.String()
}

// Unwrap returns the collected errors for errors.Is and errors.As.
func (l *ErrorList) Unwrap() []error {
	return l.Errors
}
