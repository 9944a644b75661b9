package evaluator

import (
	"fmt"
	"regexp"
	"strings"

	"arbiter-hq/gavel/pkg/action"
	"arbiter-hq/gavel/pkg/policy"
)

// match reports whether act satisfies every operator listed in pol's
// condition set. Operators check in canonical key order; the first
// unsatisfied one stops the policy.
func match(act *action.Action, pol *policy.Policy) (bool, error) {
	c := &pol.Conditions

	// An operator this build does not recognize cannot be verified to
	// hold, so the conjunction fails.
	if len(c.Unknown) > 0 {
		return false, nil
	}

	if c.ActionType != nil && act.Type != *c.ActionType {
		return false, nil
	}
	if c.ActionTypePrefix != nil && !strings.HasPrefix(act.Type, *c.ActionTypePrefix) {
		return false, nil
	}
	if c.Target != nil && act.Target != *c.Target {
		return false, nil
	}
	if c.TargetContains != nil && !strings.Contains(act.Target, *c.TargetContains) {
		return false, nil
	}
	if c.TargetRegex != nil {
		re, err := regexp.Compile(*c.TargetRegex)
		if err != nil {
			return false, NewEvaluationError(pol.ID, policy.KeyTargetRegex,
				fmt.Errorf("invalid target pattern %q: %w", *c.TargetRegex, err))
		}
		if !re.MatchString(act.Target) {
			return false, nil
		}
	}

	for _, key := range c.MetadataPresent {
		if !act.HasMeta(key) {
			return false, nil
		}
	}
	for key, want := range c.MetadataEquals {
		v, ok := act.Meta(key)
		if !ok || v != want {
			return false, nil
		}
	}
	for key, threshold := range c.MetadataGT {
		// Absent or non-numeric values read as zero.
		n, _ := act.MetaNumber(key)
		if n <= threshold {
			return false, nil
		}
	}
	for key, set := range c.MetadataIn {
		v, ok := act.Meta(key)
		if !ok || !inSet(v, set) {
			return false, nil
		}
	}
	for key, set := range c.MetadataNotIn {
		// An absent key holds: an unknown value is not in the set. A rule
		// denying values outside an approved set must not be bypassed by
		// omitting the key.
		v, ok := act.Meta(key)
		if ok && inSet(v, set) {
			return false, nil
		}
	}

	return true, nil
}

func inSet(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
