// Package policy defines the immutable rule model: a policy pairs a
// conjunctive condition set with an allow or deny severity. Policies are
// parsed once at load time from a rule source and never change for the
// process lifetime.
//
// # Rule Identifiers
//
// Every policy ID carries the reserved "GVL-" prefix and must be unique
// across the loaded set. Two IDs are reserved for synthetic decisions and
// rejected in rule sources:
//
//   - GVL-FAILCLOSE: attached to denials produced when evaluation fails
//   - GVL-DEFAULT-ALLOW: attached to the default allow when nothing matched
//
// # Conditions
//
// A condition set lists operator keys that must all hold for the policy to
// match (strict conjunction, no disjunction operator exists):
//
//	conditions:
//	  action_type_prefix: "file."
//	  target_regex: '^\.github/workflows/'
//
// Operator keys not recognized by this package are preserved on the parsed
// policy and make it non-matching at evaluation time. That closed-world
// rule keeps a definition written against a newer operator set from
// accidentally allowing, or accidentally blocking, unrelated actions.
package policy
