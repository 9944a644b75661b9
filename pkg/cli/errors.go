package cli

import (
	"errors"
	"fmt"
)

// Process exit statuses used by the gavel command.
const (
	// ExitOK indicates the command completed successfully.
	ExitOK = 0

	// ExitFailure indicates a runtime failure such as an unreachable
	// store or an unreadable file.
	ExitFailure = 1

	// ExitInvalid indicates the input was processed but failed
	// validation, for example a rule set with duplicate identifiers.
	ExitInvalid = 2
)

// ExitError wraps a command failure with the process exit status it
// maps to.
type ExitError struct {
	// Code is the exit status to terminate with.
	Code int

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError wraps err with an explicit exit status.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// ExitCode resolves the process exit status for a command error. A nil
// error maps to ExitOK, an ExitError anywhere in the chain supplies
// its own code, and any other error maps to ExitFailure.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ConfigError indicates the configuration file could not be loaded.
type ConfigError struct {
	// Path is the configuration file that failed to load.
	Path string

	// Err is the underlying load or validation failure.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a ConfigError for the given file.
func NewConfigError(path string, err error) *ConfigError {
	return &ConfigError{Path: path, Err: err}
}

// CommandError indicates a command failed during execution.
type CommandError struct {
	// Command is the name of the command that failed.
	Command string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a CommandError for the given command.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}
