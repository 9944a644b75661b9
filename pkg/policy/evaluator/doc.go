// Package evaluator implements condition matching for single policies: a
// pure function from (action, policy) to an optional decision.
//
// The operator set is closed and dispatched explicitly. Nothing in this
// package interprets expression text; a rule can only combine the
// enumerated operators, and every operator key must hold for the policy
// to match (strict conjunction).
//
// Operators check in canonical key order and the first unsatisfied one
// stops the policy. Two outcomes leave the happy path:
//
//   - a policy listing an operator key this package does not recognize
//     never matches (closed world: an unverifiable conjunct fails the
//     conjunction, so a defect can only suppress a rule, not widen it)
//   - a target pattern that fails to compile returns a typed
//     *EvaluationError so the engine can fail the adjudication closed
//
// The evaluator is stateless, does no I/O, and is safe for arbitrary
// concurrent use.
package evaluator
