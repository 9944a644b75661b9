package source

import (
	"context"

	"arbiter-hq/gavel/pkg/policy"
)

// StaticSource serves an in-memory rule set. Library consumers that embed
// their rules use it instead of file loading; tests use it to drive the
// registry without fixtures.
type StaticSource struct {
	// Policies is the set to serve, in evaluation order.
	Policies []*policy.Policy

	// Err, when non-nil, is returned by Load instead of the set.
	Err error

	// SourceName overrides the name reported in logs and errors.
	// Default: "static".
	SourceName string
}

// Name implements Source.
func (s *StaticSource) Name() string {
	if s.SourceName != "" {
		return s.SourceName
	}
	return "static"
}

// Load implements Source. The returned slice is a fresh copy; the
// policies themselves are shared and treated as immutable.
func (s *StaticSource) Load(ctx context.Context) ([]*policy.Policy, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if len(s.Policies) == 0 {
		return nil, NewLoadError("", "static source holds zero rule definitions", nil)
	}
	out := make([]*policy.Policy, len(s.Policies))
	copy(out, s.Policies)
	return out, nil
}
