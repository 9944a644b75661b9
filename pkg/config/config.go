package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for a gavel deployment.
type Config struct {
	// Rules configures where policy rules are loaded from.
	Rules RulesConfig `yaml:"rules"`

	// Engine configures how the adjudicator is assembled.
	Engine EngineConfig `yaml:"engine"`

	// Audit configures durable decision recording.
	Audit AuditConfig `yaml:"audit"`

	// Retention configures pruning of stored audit records.
	Retention RetentionConfig `yaml:"retention"`

	// Telemetry configures logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// RulesConfig configures the rule source.
type RulesConfig struct {
	// Mode selects how rules are loaded.
	// Options: "file" (local file or directory), "git" (repository).
	// Default: "file"
	Mode string `yaml:"mode"`

	// Path is the rule file or directory when Mode is "file".
	// Default: "rules/"
	Path string `yaml:"path"`

	// Git configures repository-based rule loading when Mode is "git".
	Git GitRulesConfig `yaml:"git"`

	// Watch enables drift detection on file-backed sources. Drift is
	// reported and counted; the frozen rule set is never reloaded.
	// Default: false
	Watch bool `yaml:"watch"`

	// WatchDebounce is the quiet period after a burst of file events
	// before the source is re-read for comparison.
	// Default: 250ms
	WatchDebounce Duration `yaml:"watch_debounce"`
}

// GitRulesConfig configures repository-based rule loading.
type GitRulesConfig struct {
	// Repository is the clone URL or local path of the rule repository.
	// Required when rules.mode is "git".
	Repository string `yaml:"repository"`

	// Branch is the branch to check out.
	// Default: "main"
	Branch string `yaml:"branch"`

	// Dir is the subdirectory holding rule files. Empty means the
	// repository root.
	// Default: ""
	Dir string `yaml:"dir"`

	// LocalPath is where the checkout lives. Empty uses a directory
	// under the system temp directory.
	// Default: ""
	LocalPath string `yaml:"local_path"`

	// Depth enables shallow cloning when positive.
	// Default: 1
	Depth int `yaml:"depth"`

	// CloneTimeout bounds the clone operation.
	// Default: 60s
	CloneTimeout Duration `yaml:"clone_timeout"`

	// Auth configures repository credentials.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig configures git transport credentials.
type GitAuthConfig struct {
	// Type selects the credential kind.
	// Options: "none" (public), "token" (HTTPS token), "ssh" (key file).
	// Default: "none"
	Type string `yaml:"type"`

	// Token is the HTTPS access token when Type is "token".
	Token string `yaml:"token"`

	// SSHKeyPath is the private key path when Type is "ssh".
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase unlocks an encrypted key, empty when the key is
	// not encrypted.
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// EngineConfig configures adjudicator assembly.
type EngineConfig struct {
	// Sink selects the audit sink handed to the engine.
	// Options: "recorder" (async durable store), "trail" (bounded
	// in-memory), "none".
	// Default: "recorder"
	Sink string `yaml:"sink"`

	// TrailCapacity caps the in-memory trail when Sink is "trail".
	// Default: 1000
	TrailCapacity int `yaml:"trail_capacity"`
}

// AuditConfig configures durable decision recording.
type AuditConfig struct {
	// Enabled controls whether decisions are recorded at all.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the audit store.
	// Options: "sqlite", "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLite contains SQLite-specific settings.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Recorder contains async recorder settings.
	Recorder RecorderConfig `yaml:"recorder"`

	// Query contains query defaults for tooling.
	Query QueryConfig `yaml:"query"`

	// Export contains export defaults for tooling.
	Export ExportConfig `yaml:"export"`
}

// SQLiteConfig contains SQLite-specific settings.
type SQLiteConfig struct {
	// Path is the database file path.
	// Default: "data/audit.db"
	Path string `yaml:"path"`

	// MaxOpenConns caps open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns caps idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a locked database is retried.
	// Default: 5s
	BusyTimeout Duration `yaml:"busy_timeout"`
}

// RecorderConfig contains async recorder settings.
type RecorderConfig struct {
	// AsyncBuffer is the write queue capacity. Records beyond it are
	// dropped rather than blocking adjudication.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout bounds a single storage write.
	// Default: 5s
	WriteTimeout Duration `yaml:"write_timeout"`
}

// QueryConfig contains query defaults for tooling.
type QueryConfig struct {
	// DefaultLimit is the record cap applied when a query names none.
	// Default: 100
	DefaultLimit int `yaml:"default_limit"`

	// MaxLimit is the largest record cap a single query may request.
	// Default: 10000
	MaxLimit int `yaml:"max_limit"`
}

// ExportConfig contains export defaults for tooling.
type ExportConfig struct {
	// JSONPretty enables indented JSON exports.
	// Default: true
	JSONPretty bool `yaml:"json_pretty"`

	// CSVIncludeHeader emits a header row in CSV exports.
	// Default: true
	CSVIncludeHeader bool `yaml:"csv_include_header"`
}

// RetentionConfig configures pruning of stored audit records.
type RetentionConfig struct {
	// Days is how long records are retained. 0 keeps them forever.
	// Default: 90
	Days int `yaml:"days"`

	// PruneSchedule is a cron expression for scheduled pruning. Empty
	// disables the scheduler.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`

	// ArchiveBeforeDelete exports records to JSON before deletion.
	// Default: false
	ArchiveBeforeDelete bool `yaml:"archive_before_delete"`

	// ArchivePath is the directory archive files are written to.
	// Default: "data/archives/"
	ArchivePath string `yaml:"archive_path"`

	// MaxRecords caps total stored records. 0 means unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// TelemetryConfig configures observability.
type TelemetryConfig struct {
	// Logging contains logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains OpenTelemetry settings.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum level emitted.
	// Options: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the output encoding.
	// Options: "json", "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets scrubs token-shaped values from log attributes.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains Prometheus settings. Collectors register
// against a registry; serving it is the embedding process's concern.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "gavel"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName identifies this process in trace backends.
	// Default: "gavel"
	ServiceName string `yaml:"service_name"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS on the collector connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout bounds individual export calls.
	// Default: 10s
	Timeout Duration `yaml:"timeout"`

	// Sampler selects the sampling strategy.
	// Options: "always", "never", "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction sampled under the ratio strategy.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}

// Duration wraps time.Duration so YAML accepts duration strings such
// as "250ms" and "5s" as well as integer nanoseconds.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case int:
		*d = Duration(v)
	case int64:
		*d = Duration(v)
	case float64:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("invalid duration value %v", raw)
	}
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}
