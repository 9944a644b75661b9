package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"arbiter-hq/gavel/pkg/telemetry/tracing"
)

// FieldError is a validation failure on one configuration field.
type FieldError struct {
	// Field is the dotted path of the field, e.g. "audit.sqlite.path".
	Field string

	// Message describes the failure.
	Message string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field failure found in a
// configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the whole configuration and returns a
// *ValidationError naming every offending field, or nil when the
// configuration is valid.
func (c *Config) Validate() error {
	var errs []FieldError

	errs = append(errs, validateRules(&c.Rules)...)
	errs = append(errs, validateEngine(&c.Engine)...)
	errs = append(errs, validateAudit(&c.Audit)...)
	errs = append(errs, validateRetention(&c.Retention)...)
	errs = append(errs, validateTelemetry(&c.Telemetry)...)

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func validateRules(cfg *RulesConfig) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case "file":
		if cfg.Path == "" {
			errs = append(errs, FieldError{
				Field:   "rules.path",
				Message: "path is required in file mode",
			})
		}
	case "git":
		if cfg.Git.Repository == "" {
			errs = append(errs, FieldError{
				Field:   "rules.git.repository",
				Message: "repository is required in git mode",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "rules.mode",
			Message: fmt.Sprintf("unknown mode %q (valid: file, git)", cfg.Mode),
		})
	}

	switch cfg.Git.Auth.Type {
	case "", "none":
	case "token":
		if cfg.Git.Auth.Token == "" {
			errs = append(errs, FieldError{
				Field:   "rules.git.auth.token",
				Message: "token is required for token auth",
			})
		}
	case "ssh":
		if cfg.Git.Auth.SSHKeyPath == "" {
			errs = append(errs, FieldError{
				Field:   "rules.git.auth.ssh_key_path",
				Message: "ssh_key_path is required for ssh auth",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "rules.git.auth.type",
			Message: fmt.Sprintf("unknown auth type %q (valid: none, token, ssh)", cfg.Git.Auth.Type),
		})
	}

	if cfg.Git.Depth < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.git.depth",
			Message: "depth must be non-negative",
		})
	}
	if cfg.WatchDebounce < 0 {
		errs = append(errs, FieldError{
			Field:   "rules.watch_debounce",
			Message: "watch debounce must be non-negative",
		})
	}

	return errs
}

func validateEngine(cfg *EngineConfig) []FieldError {
	var errs []FieldError

	switch cfg.Sink {
	case "recorder", "trail", "none":
	default:
		errs = append(errs, FieldError{
			Field:   "engine.sink",
			Message: fmt.Sprintf("unknown sink %q (valid: recorder, trail, none)", cfg.Sink),
		})
	}

	if cfg.TrailCapacity < 0 {
		errs = append(errs, FieldError{
			Field:   "engine.trail_capacity",
			Message: "trail capacity must be non-negative",
		})
	}

	return errs
}

func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "sqlite":
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "audit.sqlite.path",
				Message: "path is required for the sqlite backend",
			})
		}
	case "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "audit.backend",
			Message: fmt.Sprintf("unknown backend %q (valid: sqlite, memory)", cfg.Backend),
		})
	}

	if cfg.SQLite.MaxOpenConns < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.max_open_conns",
			Message: "max open connections must be non-negative",
		})
	}
	if cfg.SQLite.MaxIdleConns < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.max_idle_conns",
			Message: "max idle connections must be non-negative",
		})
	}
	if cfg.SQLite.BusyTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite.busy_timeout",
			Message: "busy timeout must be non-negative",
		})
	}
	if cfg.Recorder.AsyncBuffer < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.recorder.async_buffer",
			Message: "async buffer must be non-negative",
		})
	}
	if cfg.Recorder.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.recorder.write_timeout",
			Message: "write timeout must be non-negative",
		})
	}
	if cfg.Query.DefaultLimit <= 0 {
		errs = append(errs, FieldError{
			Field:   "audit.query.default_limit",
			Message: "default limit must be positive",
		})
	}
	if cfg.Query.MaxLimit < cfg.Query.DefaultLimit {
		errs = append(errs, FieldError{
			Field:   "audit.query.max_limit",
			Message: "max limit must be at least the default limit",
		})
	}

	return errs
}

func validateRetention(cfg *RetentionConfig) []FieldError {
	var errs []FieldError

	if cfg.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "retention.days",
			Message: "days must be non-negative",
		})
	}
	if cfg.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "retention.max_records",
			Message: "max records must be non-negative",
		})
	}
	if cfg.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.PruneSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "retention.prune_schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}
	if cfg.ArchiveBeforeDelete && cfg.ArchivePath == "" {
		errs = append(errs, FieldError{
			Field:   "retention.archive_path",
			Message: "archive path is required when archiving is enabled",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (valid: json, text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "namespace is required when metrics are enabled",
		})
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
		if err := tracing.ValidateSampler(cfg.Tracing.Sampler, cfg.Tracing.SampleRatio); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sampler",
				Message: err.Error(),
			})
		}
	}

	return errs
}
