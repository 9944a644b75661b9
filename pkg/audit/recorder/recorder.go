package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"arbiter-hq/gavel/pkg/action"
	"arbiter-hq/gavel/pkg/audit"
	"arbiter-hq/gavel/pkg/decision"
	"arbiter-hq/gavel/pkg/telemetry/metrics"
)

// errQueueFull reports a record dropped because the write queue had no
// room. Callers see it wrapped in an *audit.RecorderError.
var errQueueFull = errors.New("audit write queue is full")

// Config contains configuration for the audit recorder.
type Config struct {
	// Enabled enables audit recording.
	// Default: true.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// Provenance is stamped onto every record.
	Provenance audit.Provenance
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder persists decisions asynchronously. It implements audit.Sink:
// Record never blocks on storage, so the engine's latency is independent
// of the backend's.
type Recorder struct {
	store      audit.Store
	config     *Config
	recordChan chan *audit.Record
	wg         sync.WaitGroup
	done       chan struct{}
	logger     *slog.Logger
	metrics    *metrics.Metrics

	written uint64
	dropped uint64
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithMetrics sets the metrics instance used to count writes and drops.
// A nil value is valid and disables recording.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// New creates a recorder over the given storage backend and starts its
// background writer. A nil config uses defaults.
func New(store audit.Store, config *Config, opts ...Option) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if config.AsyncBuffer <= 0 {
		config.AsyncBuffer = DefaultConfig().AsyncBuffer
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultConfig().WriteTimeout
	}

	r := &Recorder{
		store:      store,
		config:     config,
		recordChan: make(chan *audit.Record, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	for _, opt := range opts {
		opt(r)
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record implements audit.Sink. It converts the decision to a record,
// stamps provenance, and enqueues it for async writing. When the queue
// is full the record is dropped and a *audit.RecorderError returned;
// the caller is never blocked.
func (r *Recorder) Record(d *decision.Decision, act *action.Action) error {
	if !r.config.Enabled {
		return nil
	}

	record := audit.NewRecord(d, act)
	record.RuleSetVersion = r.config.Provenance.RuleSetVersion
	record.RuleSetCommit = r.config.Provenance.RuleSetCommit

	select {
	case r.recordChan <- record:
		return nil
	case <-r.done:
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
			"decision_id", record.DecisionID,
		)
		atomic.AddUint64(&r.dropped, 1)
		r.metrics.RecordAuditDrop()
		return audit.NewRecorderError(record.ID, context.Canceled)
	default:
		r.logger.Warn("audit write queue full, dropping record",
			"record_id", record.ID,
			"decision_id", record.DecisionID,
			"channel_capacity", r.config.AsyncBuffer,
		)
		atomic.AddUint64(&r.dropped, 1)
		r.metrics.RecordAuditDrop()
		return audit.NewRecorderError(record.ID, errQueueFull)
	}
}

// Close gracefully shuts down the recorder by draining the async channel
// and waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	r.logger.Info("shutting down audit recorder")

	close(r.done)
	r.wg.Wait()

	r.logger.Info("audit recorder shut down complete",
		"written", atomic.LoadUint64(&r.written),
		"dropped", atomic.LoadUint64(&r.dropped),
	)
	return nil
}

// Written returns the number of records successfully written to storage.
func (r *Recorder) Written() uint64 {
	return atomic.LoadUint64(&r.written)
}

// Dropped returns the number of records dropped under backpressure.
func (r *Recorder) Dropped() uint64 {
	return atomic.LoadUint64(&r.dropped)
}

// worker is the background goroutine that drains the record channel and
// writes records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records from the channel before exit.
			r.logger.Debug("draining audit channel before shutdown",
				"pending_count", len(r.recordChan),
			)

			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *audit.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.store.Append(ctx, record); err != nil {
		r.logger.Error("failed to store audit record",
			"record_id", record.ID,
			"decision_id", record.DecisionID,
			"error", err,
		)
		return
	}

	atomic.AddUint64(&r.written, 1)
	r.metrics.RecordAuditWrite()

	duration := time.Since(start)
	r.logger.Debug("audit record written",
		"record_id", record.ID,
		"policy_id", record.PolicyID,
		"result", record.Result,
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow audit write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}
