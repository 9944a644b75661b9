package policy

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ContentVersion computes a stable content hash over a policy set: the
// first 16 hex characters of a sha256 over each policy's canonical form,
// in set order. Two sets with the same rules in the same order share a
// version; any semantic change (id, name, description, severity, any
// condition) produces a new one. Source formatting does not contribute.
func ContentVersion(policies []*Policy) string {
	h := sha256.New()
	for _, p := range policies {
		h.Write([]byte(canonicalForm(p)))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

// canonicalForm renders one policy as a deterministic string: scalar
// fields first, then each listed operator with its values, map keys
// sorted.
func canonicalForm(p *Policy) string {
	var b strings.Builder
	b.WriteString(p.ID)
	b.WriteByte('\n')
	b.WriteString(p.Name)
	b.WriteByte('\n')
	b.WriteString(p.Description)
	b.WriteByte('\n')
	b.WriteString(string(p.Severity))
	b.WriteByte('\n')

	c := &p.Conditions
	if c.ActionType != nil {
		fmt.Fprintf(&b, "%s=%s\n", KeyActionType, *c.ActionType)
	}
	if c.ActionTypePrefix != nil {
		fmt.Fprintf(&b, "%s=%s\n", KeyActionTypePrefix, *c.ActionTypePrefix)
	}
	if c.Target != nil {
		fmt.Fprintf(&b, "%s=%s\n", KeyTarget, *c.Target)
	}
	if c.TargetContains != nil {
		fmt.Fprintf(&b, "%s=%s\n", KeyTargetContains, *c.TargetContains)
	}
	if c.TargetRegex != nil {
		fmt.Fprintf(&b, "%s=%s\n", KeyTargetRegex, *c.TargetRegex)
	}
	if len(c.MetadataPresent) > 0 {
		keys := append([]string(nil), c.MetadataPresent...)
		sort.Strings(keys)
		fmt.Fprintf(&b, "%s=%s\n", KeyMetadataPresent, strings.Join(keys, ","))
	}
	for _, key := range sortedKeys(c.MetadataEquals) {
		fmt.Fprintf(&b, "%s.%s=%s\n", KeyMetadataEquals, key, c.MetadataEquals[key])
	}
	for _, key := range sortedKeys(c.MetadataGT) {
		fmt.Fprintf(&b, "%s.%s=%s\n", KeyMetadataGT, key,
			strconv.FormatFloat(c.MetadataGT[key], 'g', -1, 64))
	}
	for _, key := range sortedKeys(c.MetadataIn) {
		fmt.Fprintf(&b, "%s.%s=%s\n", KeyMetadataIn, key, strings.Join(c.MetadataIn[key], ","))
	}
	for _, key := range sortedKeys(c.MetadataNotIn) {
		fmt.Fprintf(&b, "%s.%s=%s\n", KeyMetadataNotIn, key, strings.Join(c.MetadataNotIn[key], ","))
	}
	if c.Always {
		fmt.Fprintf(&b, "%s=true\n", KeyAlways)
	}
	if len(c.Unknown) > 0 {
		unknown := append([]string(nil), c.Unknown...)
		sort.Strings(unknown)
		fmt.Fprintf(&b, "unknown=%s\n", strings.Join(unknown, ","))
	}
	return b.String()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
