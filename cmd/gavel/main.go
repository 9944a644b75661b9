// Gavel is a fail-closed policy engine for autonomous agent runtimes.
//
// The gavel command ships the operational tooling around the library:
// rule validation, rule set inspection, and audit store maintenance.
//
// Usage:
//
//	# Validate a rules directory
//	gavel validate rules/
//
//	# List the configured rule set
//	gavel rules list
//
//	# Show one policy in detail
//	gavel rules show GVL-SEC-001
//
//	# Query recorded decisions
//	gavel audit query --result deny --limit 50
//
//	# Export the audit log
//	gavel audit export --format csv --output audit.csv
//
//	# Apply the retention policy once
//	gavel audit prune
//
//	# Show version information
//	gavel version
package main

func main() {
	Execute()
}
