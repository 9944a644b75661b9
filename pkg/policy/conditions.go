package policy

import "fmt"

// Condition operator keys as they appear in rule sources. The set is
// closed: matching dispatches on exactly these names and nothing else.
const (
	KeyActionType       = "action_type"
	KeyActionTypePrefix = "action_type_prefix"
	KeyTarget           = "target"
	KeyTargetContains   = "target_contains"
	KeyTargetRegex      = "target_regex"
	KeyMetadataPresent  = "metadata_present"
	KeyMetadataEquals   = "metadata_equals"
	KeyMetadataGT       = "metadata_gt"
	KeyMetadataIn       = "metadata_in"
	KeyMetadataNotIn    = "metadata_not_in"
	KeyAlways           = "always"
)

// Conditions is the conjunctive predicate set of one policy. A nil pointer
// field or empty collection means the operator is not listed; every listed
// operator must hold for the policy to match.
//
// Pattern syntax under TargetRegex is deliberately not checked here: a
// pattern that fails to compile surfaces as a typed evaluation error so
// the engine can fail the adjudication closed.
type Conditions struct {
	// ActionType requires an exact match on the action's type.
	ActionType *string

	// ActionTypePrefix requires the action's type to start with the value.
	ActionTypePrefix *string

	// Target requires an exact match on the action's target.
	Target *string

	// TargetContains requires the value to be a substring of the target.
	TargetContains *string

	// TargetRegex requires the target to match the RE2 pattern.
	TargetRegex *string

	// MetadataPresent requires every listed metadata key to be present.
	MetadataPresent []string

	// MetadataEquals requires each metadata key to equal the given value.
	MetadataEquals map[string]string

	// MetadataGT requires each metadata key to hold a numeric value
	// strictly greater than the threshold.
	MetadataGT map[string]float64

	// MetadataIn requires each metadata key's value to be in the listed
	// set.
	MetadataIn map[string][]string

	// MetadataNotIn requires each metadata key's value to be absent from
	// the listed set.
	MetadataNotIn map[string][]string

	// Always marks the unconditional operator.
	Always bool

	// Unknown holds operator keys the parser did not recognize. Any entry
	// makes the policy non-matching: an unlisted operator cannot be
	// verified to hold, so the conjunction conservatively fails.
	Unknown []string
}

// Empty reports whether no operator key at all is listed.
func (c *Conditions) Empty() bool {
	return len(c.Keys()) == 0
}

// Keys returns the listed operator keys in canonical order, with unknown
// keys last. Used for diagnostics and rule inspection.
func (c *Conditions) Keys() []string {
	var keys []string
	if c.ActionType != nil {
		keys = append(keys, KeyActionType)
	}
	if c.ActionTypePrefix != nil {
		keys = append(keys, KeyActionTypePrefix)
	}
	if c.Target != nil {
		keys = append(keys, KeyTarget)
	}
	if c.TargetContains != nil {
		keys = append(keys, KeyTargetContains)
	}
	if c.TargetRegex != nil {
		keys = append(keys, KeyTargetRegex)
	}
	if len(c.MetadataPresent) > 0 {
		keys = append(keys, KeyMetadataPresent)
	}
	if len(c.MetadataEquals) > 0 {
		keys = append(keys, KeyMetadataEquals)
	}
	if len(c.MetadataGT) > 0 {
		keys = append(keys, KeyMetadataGT)
	}
	if len(c.MetadataIn) > 0 {
		keys = append(keys, KeyMetadataIn)
	}
	if len(c.MetadataNotIn) > 0 {
		keys = append(keys, KeyMetadataNotIn)
	}
	if c.Always {
		keys = append(keys, KeyAlways)
	}
	keys = append(keys, c.Unknown...)
	return keys
}

// validate checks structural problems a rule author can fix: empty
// metadata key names and empty value sets.
func (c *Conditions) validate() error {
	for _, key := range c.MetadataPresent {
		if key == "" {
			return fmt.Errorf("%s lists an empty metadata key", KeyMetadataPresent)
		}
	}
	for key := range c.MetadataEquals {
		if key == "" {
			return fmt.Errorf("%s lists an empty metadata key", KeyMetadataEquals)
		}
	}
	for key := range c.MetadataGT {
		if key == "" {
			return fmt.Errorf("%s lists an empty metadata key", KeyMetadataGT)
		}
	}
	for key, set := range c.MetadataIn {
		if key == "" {
			return fmt.Errorf("%s lists an empty metadata key", KeyMetadataIn)
		}
		if len(set) == 0 {
			return fmt.Errorf("%s set for key %q is empty", KeyMetadataIn, key)
		}
	}
	for key, set := range c.MetadataNotIn {
		if key == "" {
			return fmt.Errorf("%s lists an empty metadata key", KeyMetadataNotIn)
		}
		if len(set) == 0 {
			return fmt.Errorf("%s set for key %q is empty", KeyMetadataNotIn, key)
		}
	}
	return nil
}
