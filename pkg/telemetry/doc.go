// Package telemetry groups the observability subpackages.
//
// # Components
//
//   - logging: structured slog logging with secret redaction and trace
//     correlation
//   - metrics: Prometheus collectors for the adjudication pipeline
//   - tracing: OpenTelemetry span export
//
// There is no combined facade: each subpackage is constructed from its
// own config section and consumed independently. Components take a
// *metrics.Metrics and read the process logger from slog.Default; trace
// exporting is wired once at startup via tracing.New.
//
// The library never serves HTTP. The Prometheus registry and any probe
// surfaces are exposed by the embedding process.
package telemetry
