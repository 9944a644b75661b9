// Package decision defines the adjudication result for one action and its
// externally consumable serialization contract.
//
// A Decision is created exactly once per evaluation and never mutated. The
// Contract is the projection crossing process boundaries: every
// human/machine-relevant field, no internal bookkeeping, lossless JSON
// round-trip.
//
// Severity is derived from the result: denials (including fail-close
// denials) are hard, allows (including the default allow) are soft.
package decision
