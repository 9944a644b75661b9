package policy

import "fmt"

// Severity is the effect a matching policy has on the action under
// adjudication.
type Severity string

const (
	// SeverityAllow marks a policy whose match permits the action.
	SeverityAllow Severity = "allow"

	// SeverityDeny marks a policy whose match blocks the action. A deny
	// match always wins over any allow match.
	SeverityDeny Severity = "deny"
)

// Valid reports whether s is a declared severity.
func (s Severity) Valid() bool {
	return s == SeverityAllow || s == SeverityDeny
}

// ParseSeverity converts a rule-source severity string into a Severity.
func ParseSeverity(raw string) (Severity, error) {
	s := Severity(raw)
	if !s.Valid() {
		return "", fmt.Errorf("severity must be %q or %q, got %q", SeverityAllow, SeverityDeny, raw)
	}
	return s, nil
}

// Policy is one immutable rule. Instances are built by the rule source at
// load time and shared read-only afterwards; nothing mutates a Policy
// after the registry freezes.
type Policy struct {
	// ID uniquely identifies the policy. Must carry the GVL- prefix and
	// must not be a reserved synthetic ID.
	ID string

	// Name is a short human-readable label.
	Name string

	// Description explains what the policy governs and why.
	Description string

	// Severity is the effect of a match: allow or deny.
	Severity Severity

	// Conditions is the conjunctive predicate set. Every listed operator
	// must hold for the policy to match.
	Conditions Conditions

	// SourceFile is the file the definition was parsed from, when the
	// source is file-backed. Used in load diagnostics only.
	SourceFile string

	// Line is the 1-based line of the definition in SourceFile, when the
	// parser could recover it. Zero when unknown.
	Line int
}

// Validate checks the definition for structural problems. It returns a
// *ValidationError describing the first defect found, or nil.
func (p *Policy) Validate() error {
	if p.ID == "" {
		return NewValidationError(p.ID, "id", "id is required")
	}
	if !ValidID(p.ID) {
		return NewValidationError(p.ID, "id", fmt.Sprintf("id must carry the %q prefix", IDPrefix))
	}
	if ReservedID(p.ID) {
		return NewValidationError(p.ID, "id", fmt.Sprintf("id %q is reserved for synthetic decisions", p.ID))
	}
	if p.Name == "" {
		return NewValidationError(p.ID, "name", "name is required")
	}
	if p.Description == "" {
		return NewValidationError(p.ID, "description", "description is required")
	}
	if !p.Severity.Valid() {
		return NewValidationError(p.ID, "severity",
			fmt.Sprintf("severity must be %q or %q, got %q", SeverityAllow, SeverityDeny, p.Severity))
	}
	if p.Conditions.Empty() {
		return NewValidationError(p.ID, "conditions", "at least one condition key is required (use always: true for an unconditional rule)")
	}
	if err := p.Conditions.validate(); err != nil {
		return NewValidationError(p.ID, "conditions", err.Error())
	}
	return nil
}
