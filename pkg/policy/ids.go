package policy

import "strings"

// IDPrefix is the reserved prefix every policy ID must carry.
const IDPrefix = "GVL-"

const (
	// FailCloseID tags denials synthesized when evaluation fails. It never
	// corresponds to a loaded policy.
	FailCloseID = "GVL-FAILCLOSE"

	// DefaultAllowID tags the default allow returned when no policy
	// matched. It never corresponds to a loaded policy.
	DefaultAllowID = "GVL-DEFAULT-ALLOW"
)

// ReservedID reports whether id is one of the synthetic decision IDs that
// rule sources may not declare.
func ReservedID(id string) bool {
	return id == FailCloseID || id == DefaultAllowID
}

// ValidID reports whether id is well-formed: it carries the reserved
// prefix and has a non-empty remainder.
func ValidID(id string) bool {
	return strings.HasPrefix(id, IDPrefix) && len(id) > len(IDPrefix)
}
