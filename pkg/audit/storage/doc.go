// Package storage provides durable backends for audit records.
//
// Two implementations of the audit.Store interface live here:
//
//   - MemoryStore: an in-memory store for tests and short-lived tooling
//   - SQLiteStore: a file-backed store with WAL mode and schema
//     versioning, the default for anything that must survive a restart
//
// Both apply the same query semantics: conjunctive filters, sorting by
// decision time, and offset/limit pagination.
package storage
