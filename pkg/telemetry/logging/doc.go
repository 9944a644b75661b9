// Package logging builds the structured loggers used across the
// module.
//
// # Overview
//
// The package configures Go's standard log/slog package to provide:
//   - JSON and text output formats
//   - Automatic secret redaction (tokens, API keys, passwords)
//   - Trace correlation via trace_id and span_id attributes
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	// Build a logger and make it the process default. Components
//	// derive their loggers from slog.Default, so Install should run
//	// before anything else is constructed.
//	logger, err := logging.Install(logging.Config{
//	    Level:         "info",
//	    Format:        "json",
//	    RedactSecrets: true,
//	})
//	if err != nil {
//	    return err
//	}
//
//	logger.Info("rule set loaded",
//	    "version", "a1b2c3d4e5f60708",
//	    "rules", 7,
//	)
//
// # Secret Redaction
//
// When RedactSecrets is enabled, attribute values are rewritten before
// they reach the output:
//
//   - Values under sensitive keys (token, api_key, password, ...) keep
//     a four character prefix: sk-abc123xyz becomes sk-a***
//   - Bearer credentials inside any string value: Bearer abc123
//     becomes Bearer ***
//   - Inline assignments inside any string value: password=hunter2
//     becomes password=***
//
// # Trace Correlation
//
// Records logged through the context variants (InfoContext and
// friends) carry the identifiers of the span active on the context, so
// log lines can be joined with exported traces. Contexts without an
// active span add nothing.
package logging
