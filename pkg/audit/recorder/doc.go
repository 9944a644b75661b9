// Package recorder writes audit records to durable storage without
// blocking adjudication.
//
// The Recorder implements audit.Sink over any audit.Store. Decisions are
// converted to records and enqueued on a bounded channel; a background
// worker drains the channel into the store. When the channel is full the
// record is dropped with a warning rather than stalling the engine: an
// adjudicator that blocks on its audit trail fails its callers in a
// worse way than one that loses a record under pressure.
//
// Close drains the channel before returning, so records accepted before
// shutdown are written.
package recorder
