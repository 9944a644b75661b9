// Package engine adjudicates actions against a frozen rule set.
//
// The engine is the only component that turns an action into a decision.
// It walks the registry's policies in declaration order, asks the
// evaluator whether each one matches, and combines the matches under a
// deny-overrides rule.
//
// # Fail-Closed Adjudication
//
// Evaluate always returns exactly one decision. It has no error return
// and never panics: any internal failure, from a pattern that does not
// compile to a nil action, produces a synthetic hard denial carrying the
// reserved GVL-FAILCLOSE policy ID and a reason naming the failure. An
// adjudicator that cannot decide must not let the action proceed.
//
// # Deny Overrides
//
// The first matching deny policy ends the walk and wins over every
// allow, matched or not. When only allows match, the first one decides.
// When nothing matches, the engine returns a soft allow under the
// reserved GVL-DEFAULT-ALLOW policy ID so that callers can distinguish
// "permitted by rule" from "permitted by default".
//
// # Audit
//
// Every decision is offered to the configured audit sink before Evaluate
// returns. A sink failure never blocks the decision; it is logged and
// counted instead.
//
// # Basic Usage
//
//	reg := registry.New(source.NewFileSource("rules/"))
//	if _, err := reg.Load(ctx); err != nil {
//		return err
//	}
//	eng, err := engine.New(reg, engine.WithSink(audit.NewTrail(nil)))
//	if err != nil {
//		return err
//	}
//	d := eng.Evaluate(ctx, action.New("file.write", "/etc/passwd", nil))
//	if d.Denied() {
//		fmt.Println(d.Reason)
//	}
package engine
