// Package registry holds the frozen policy set the engine adjudicates
// against.
//
// A Registry loads exactly once: the first successful Load validates every
// definition, checks ID uniqueness, and freezes the set for the process
// lifetime. Later Load calls return the cached set without touching the
// source, so any number of call sites can share one registry safely.
//
// Loading is atomic. Either the complete validated set becomes visible or
// none of it does; no caller ever observes a partial registry. Every
// defect found during a load is aggregated into one *RegistryError so a
// rule author sees the full list, not just the first problem.
//
// The frozen set carries a content version (a digest of the canonical rule
// forms) and the load time. The drift watcher compares on-disk rules
// against the version; the audit trail records it as rule-set provenance.
package registry
