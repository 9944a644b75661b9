// Package export serializes audit records for external consumption.
//
// Two implementations of the audit.Exporter interface live here:
//
//   - JSONExporter: machine-readable, optionally pretty-printed
//   - CSVExporter: spreadsheet-friendly, nested fields flattened to
//     JSON cells
//
// Exporters are stateless; the same instance can serve concurrent
// exports.
package export
