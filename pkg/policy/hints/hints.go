// Package hints carries the canonical table mapping deny-policy IDs to
// replan hints. A hint tells the agent how to reshape a blocked action
// into a compliant one: a natural-language suggestion plus an optional
// structured alternative.
//
// The table is fixed at build time. A deny policy without an entry yields
// a denial with an empty suggestion; that gap is explicit and never a
// failure.
package hints

import "sort"

// ReplanHint is the guidance attached to a denial.
type ReplanHint struct {
	// Suggestion is the natural-language replan hint.
	Suggestion string

	// Alternative optionally sketches a compliant reshaping of the action
	// as structured fields the agent runtime can act on.
	Alternative map[string]string
}

// table is the canonical policy-ID → hint mapping for the shipped
// governance rules.
var table = map[string]ReplanHint{
	"GVL-GOV-001": {
		Suggestion: "move change to non-governance path",
		Alternative: map[string]string{
			"action_type":   "file.write",
			"target_prefix": "docs/proposals/",
		},
	},
	"GVL-GOV-002": {
		Suggestion: "open a pull request against a feature branch instead of pushing to a protected ref",
		Alternative: map[string]string{
			"action_type":   "git.push",
			"target_prefix": "refs/heads/feature/",
		},
	},
	"GVL-GOV-003": {
		Suggestion: "request a maintainer to rotate credentials; never write secret material directly",
	},
	"GVL-SEC-001": {
		Suggestion: "drop the elevated flag and rerun the tool with default privileges",
		Alternative: map[string]string{
			"action_type": "tool.invoke",
			"metadata":    "elevated=false",
		},
	},
	"GVL-SEC-002": {
		Suggestion: "target a host on the approved egress list or file an allowlist request",
	},
	"GVL-FS-001": {
		Suggestion: "split the write into chunks under the size ceiling or stage the file for review",
		Alternative: map[string]string{
			"action_type": "file.write",
			"metadata":    "size_bytes<=1048576",
		},
	},
	"GVL-REL-001": {
		Suggestion: "tag a release candidate and let the release pipeline perform the publish",
		Alternative: map[string]string{
			"action_type": "git.tag",
			"target":      "refs/tags/rc-*",
		},
	},
}

// Lookup returns the hint for a deny-policy ID. The returned hint is a
// copy; mutating it does not affect the table. The second return is false
// when the table has no entry.
func Lookup(policyID string) (*ReplanHint, bool) {
	h, ok := table[policyID]
	if !ok {
		return nil, false
	}
	out := &ReplanHint{Suggestion: h.Suggestion}
	if len(h.Alternative) > 0 {
		out.Alternative = make(map[string]string, len(h.Alternative))
		for k, v := range h.Alternative {
			out.Alternative[k] = v
		}
	}
	return out, true
}

// PolicyIDs returns the IDs with hint-table entries, sorted.
func PolicyIDs() []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
