// Package audit records adjudication decisions for inspection, compliance,
// and forensics. Every decision the engine returns is handed to a Sink;
// what the sink does with it never blocks or fails the adjudication.
//
// # Records
//
// A Record is the flattened, serializable form of one decision: the full
// decision contract, the originating action's identifying fields, the time
// it was recorded, and the rule-set provenance (content version and git
// commit) active when the decision was made.
//
// # Sinks
//
// Three Sink implementations exist, composable through FanOut:
//
//   - Trail: bounded in-memory buffer with query helpers, oldest records
//     evicted first
//   - recorder.Recorder: async writer decoupling adjudication from a
//     persistent Store
//   - FanOut: hands each decision to several sinks
//
// # Basic Usage
//
//	trail := audit.NewTrail(nil)
//
//	store, err := storage.NewSQLiteStore(&storage.SQLiteConfig{
//	    Path: "data/audit.db",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	rec := recorder.New(store, nil)
//	defer rec.Close()
//
//	sink := audit.FanOut(trail, rec)
//	// hand sink to engine.New
//
// # Querying
//
//	denied := trail.GetDenied()
//
//	records, err := store.Query(ctx, &audit.Query{
//	    PolicyID: "GVL-GOV-001",
//	    Result:   decision.ResultDeny,
//	    Limit:    100,
//	})
//
// Retention pruning and export live in the retention and export
// subpackages.
package audit
