package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitError(t *testing.T) {
	underlying := errors.New("rule set invalid")
	err := NewExitError(ExitInvalid, underlying)

	if err.Code != ExitInvalid {
		t.Errorf("Code = %d, want %d", err.Code, ExitInvalid)
	}
	if err.Error() != "rule set invalid" {
		t.Errorf("Error() = %q, want %q", err.Error(), "rule set invalid")
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should reach the wrapped error")
	}
}

func TestExitErrorNilCause(t *testing.T) {
	err := &ExitError{Code: 3}

	if err.Error() != "exit status 3" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exit status 3")
	}
	if err.Unwrap() != nil {
		t.Errorf("Unwrap() = %v, want nil", err.Unwrap())
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "nil error",
			err:  nil,
			want: ExitOK,
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: ExitFailure,
		},
		{
			name: "exit error",
			err:  NewExitError(ExitInvalid, errors.New("invalid")),
			want: ExitInvalid,
		},
		{
			name: "wrapped exit error",
			err:  fmt.Errorf("validate: %w", NewExitError(ExitInvalid, errors.New("invalid"))),
			want: ExitInvalid,
		},
		{
			name: "command error wrapping exit error",
			err:  NewCommandError("validate", NewExitError(2, errors.New("invalid"))),
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConfigError(t *testing.T) {
	underlying := errors.New("no such file or directory")
	err := NewConfigError("/etc/gavel/gavel.yaml", underlying)

	expected := "configuration /etc/gavel/gavel.yaml: no such file or directory"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, underlying) {
		t.Error("errors.Is() should reach the wrapped error")
	}
}

func TestCommandError(t *testing.T) {
	underlying := errors.New("store unavailable")
	err := NewCommandError("audit query", underlying)

	expected := "audit query: store unavailable"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if err.Unwrap() != underlying {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), underlying)
	}
}
