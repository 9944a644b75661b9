package config

import "time"

// Default values for configuration fields.
const (
	// Rules defaults
	DefaultRulesMode       = "file"
	DefaultRulesPath       = "rules/"
	DefaultGitBranch       = "main"
	DefaultGitDepth        = 1
	DefaultGitCloneTimeout = 60 * time.Second
	DefaultGitAuthType     = "none"
	DefaultWatchDebounce   = 250 * time.Millisecond

	// Engine defaults
	DefaultEngineSink    = "recorder"
	DefaultTrailCapacity = 1000

	// Audit defaults
	DefaultAuditEnabled       = true
	DefaultAuditBackend       = "sqlite"
	DefaultSQLitePath         = "data/audit.db"
	DefaultSQLiteMaxOpenConns = 10
	DefaultSQLiteMaxIdleConns = 5
	DefaultSQLiteWALMode      = true
	DefaultSQLiteBusyTimeout  = 5 * time.Second
	DefaultRecorderBuffer     = 1000
	DefaultRecorderTimeout    = 5 * time.Second
	DefaultQueryLimit         = 100
	DefaultQueryMaxLimit      = 10000
	DefaultExportJSONPretty   = true
	DefaultExportCSVHeader    = true

	// Retention defaults
	DefaultRetentionDays = 90
	DefaultPruneSchedule = "0 3 * * *"
	DefaultArchivePath   = "data/archives/"

	// Telemetry defaults
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultLogRedact        = true
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "gavel"
	DefaultTracingService   = "gavel"
	DefaultTracingEndpoint  = "localhost:4317"
	DefaultTracingInsecure  = true
	DefaultTracingTimeout   = 10 * time.Second
	DefaultTracingSampler   = "always"
	DefaultTracingRatio     = 1.0
)

// DefaultConfig returns a configuration with every field at its
// default. LoadFromFile unmarshals on top of this, so a file only
// needs the fields it changes.
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			Mode: DefaultRulesMode,
			Path: DefaultRulesPath,
			Git: GitRulesConfig{
				Branch:       DefaultGitBranch,
				Depth:        DefaultGitDepth,
				CloneTimeout: Duration(DefaultGitCloneTimeout),
				Auth: GitAuthConfig{
					Type: DefaultGitAuthType,
				},
			},
			Watch:         false,
			WatchDebounce: Duration(DefaultWatchDebounce),
		},
		Engine: EngineConfig{
			Sink:          DefaultEngineSink,
			TrailCapacity: DefaultTrailCapacity,
		},
		Audit: AuditConfig{
			Enabled: DefaultAuditEnabled,
			Backend: DefaultAuditBackend,
			SQLite: SQLiteConfig{
				Path:         DefaultSQLitePath,
				MaxOpenConns: DefaultSQLiteMaxOpenConns,
				MaxIdleConns: DefaultSQLiteMaxIdleConns,
				WALMode:      DefaultSQLiteWALMode,
				BusyTimeout:  Duration(DefaultSQLiteBusyTimeout),
			},
			Recorder: RecorderConfig{
				AsyncBuffer:  DefaultRecorderBuffer,
				WriteTimeout: Duration(DefaultRecorderTimeout),
			},
			Query: QueryConfig{
				DefaultLimit: DefaultQueryLimit,
				MaxLimit:     DefaultQueryMaxLimit,
			},
			Export: ExportConfig{
				JSONPretty:       DefaultExportJSONPretty,
				CSVIncludeHeader: DefaultExportCSVHeader,
			},
		},
		Retention: RetentionConfig{
			Days:          DefaultRetentionDays,
			PruneSchedule: DefaultPruneSchedule,
			ArchivePath:   DefaultArchivePath,
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:         DefaultLogLevel,
				Format:        DefaultLogFormat,
				RedactSecrets: DefaultLogRedact,
			},
			Metrics: MetricsConfig{
				Enabled:   DefaultMetricsEnabled,
				Namespace: DefaultMetricsNamespace,
			},
			Tracing: TracingConfig{
				Enabled:     false,
				ServiceName: DefaultTracingService,
				Endpoint:    DefaultTracingEndpoint,
				Insecure:    DefaultTracingInsecure,
				Timeout:     Duration(DefaultTracingTimeout),
				Sampler:     DefaultTracingSampler,
				SampleRatio: DefaultTracingRatio,
			},
		},
	}
}
