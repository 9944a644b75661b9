package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Format is the output encoding for log records.
type Format string

const (
	// FormatJSON emits one JSON object per record.
	FormatJSON Format = "json"
	// FormatText emits key=value lines.
	FormatText Format = "text"
)

// Config controls how a logger is built.
type Config struct {
	// Level is the minimum level that gets emitted ("debug", "info",
	// "warn", "error").
	// Default: "info".
	Level string

	// Format selects the output encoding ("json" or "text").
	// Default: "json".
	Format string

	// AddSource includes the file and line of the call site in each
	// record.
	// Default: false.
	AddSource bool

	// RedactSecrets rewrites attribute values that look like
	// credentials before they reach the output.
	// Default: false.
	RedactSecrets bool

	// Writer receives the encoded records.
	// Default: os.Stdout.
	Writer io.Writer
}

// DefaultConfig returns the configuration used by the reference
// config file: info level, JSON output, secrets redacted.
func DefaultConfig() Config {
	return Config{
		Level:         "info",
		Format:        "json",
		RedactSecrets: true,
	}
}

// New builds a *slog.Logger from cfg.
//
// The logger always carries trace correlation; redaction is attached
// when cfg.RedactSecrets is set.
func New(cfg Config) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	format, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch format {
	case FormatText:
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	if cfg.RedactSecrets {
		handler = NewRedactingHandler(handler)
	}
	handler = NewTraceHandler(handler)

	return slog.New(handler), nil
}

// Install builds a logger from cfg and makes it the process default.
// Components derive their loggers from slog.Default, so Install should
// run before anything else is constructed.
func Install(cfg Config) (*slog.Logger, error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// parseLevel parses a log level string into slog.Level.
func parseLevel(levelStr string) (slog.Level, error) {
	switch levelStr {
	case "debug", "DEBUG":
		return slog.LevelDebug, nil
	case "info", "INFO", "":
		return slog.LevelInfo, nil
	case "warn", "WARN", "warning", "WARNING":
		return slog.LevelWarn, nil
	case "error", "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", levelStr)
	}
}

// parseFormat parses a log format string into Format.
func parseFormat(formatStr string) (Format, error) {
	switch formatStr {
	case "json", "JSON", "":
		return FormatJSON, nil
	case "text", "TEXT":
		return FormatText, nil
	default:
		return FormatJSON, fmt.Errorf("unknown log format: %s", formatStr)
	}
}
