package retention

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"arbiter-hq/gavel/pkg/audit"
	"arbiter-hq/gavel/pkg/audit/export"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain audit records.
	// 0 keeps records forever.
	// Default: 90
	RetentionDays int

	// PruneSchedule is a cron expression for scheduled pruning.
	// Empty disables the scheduler.
	// Default: "0 3 * * *" (daily at 3 AM)
	PruneSchedule string

	// ArchiveBeforeDelete exports records to JSON before deletion.
	// Default: false
	ArchiveBeforeDelete bool

	// ArchivePath is the directory archive files are written to.
	// Default: "data/archives/"
	ArchivePath string

	// MaxRecords caps the total number of stored records; the oldest
	// beyond the cap are pruned. 0 means unlimited.
	// Default: 0
	MaxRecords int64
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays:       90,
		PruneSchedule:       "0 3 * * *",
		ArchiveBeforeDelete: false,
		ArchivePath:         "data/archives/",
		MaxRecords:          0,
	}
}

// Pruner enforces the retention policy on an audit store.
type Pruner struct {
	store     audit.Store
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a retention pruner over store.
func NewPruner(store audit.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		store:  store,
		config: config,
		logger: slog.Default().With("component", "audit.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)

	return pruner
}

// Prune deletes records older than the retention period, then the
// oldest records beyond the maximum count. Both phases can run in one
// call. Returns the total number of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return totalDeleted, audit.NewRetentionError(p.config.RetentionDays, err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return totalDeleted, audit.NewRetentionError(p.config.RetentionDays, err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned records by count",
			"deleted_count", deleted,
			"max_records", p.config.MaxRecords,
		)
	}

	if totalDeleted > 0 {
		p.logger.Info("audit pruning completed",
			"total_deleted", totalDeleted,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	}

	return totalDeleted, nil
}

// pruneByAge deletes records whose decision time is older than the
// retention period.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
	query := &audit.Query{EndTime: &cutoff}

	if p.config.ArchiveBeforeDelete {
		records, err := p.store.Query(ctx, query)
		if err != nil {
			return 0, fmt.Errorf("querying records for archive: %w", err)
		}
		if err := p.archiveRecords(ctx, records); err != nil {
			return 0, err
		}
	}

	return p.store.Delete(ctx, query)
}

// pruneByCount deletes the oldest records beyond MaxRecords. Records
// sharing the cutoff decision time are deleted together.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.Count(ctx, &audit.Query{})
	if err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	if count <= p.config.MaxRecords {
		return 0, nil
	}

	toDelete := count - p.config.MaxRecords
	oldest, err := p.store.Query(ctx, &audit.Query{
		SortOrder: audit.SortAsc,
		Limit:     int(toDelete),
	})
	if err != nil {
		return 0, fmt.Errorf("querying oldest records: %w", err)
	}
	if len(oldest) == 0 {
		return 0, nil
	}

	if p.config.ArchiveBeforeDelete {
		if err := p.archiveRecords(ctx, oldest); err != nil {
			return 0, err
		}
	}

	cutoff := oldest[len(oldest)-1].DecisionTime
	return p.store.Delete(ctx, &audit.Query{EndTime: &cutoff})
}

// archiveRecords exports records to a timestamped JSON file under the
// archive directory.
func (p *Pruner) archiveRecords(ctx context.Context, records []*audit.Record) error {
	if len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(p.config.ArchivePath, 0o755); err != nil {
		return fmt.Errorf("creating archive directory: %w", err)
	}

	name := fmt.Sprintf("audit-%s.json", time.Now().UTC().Format("2006-01-02-150405"))
	path := filepath.Join(p.config.ArchivePath, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer f.Close()

	exporter := export.NewJSONExporter(true)
	if err := exporter.Export(ctx, records, f); err != nil {
		return fmt.Errorf("writing archive: %w", err)
	}

	p.logger.Info("audit records archived",
		"archive_file", path,
		"record_count", len(records),
	)
	return nil
}

// Start begins scheduled pruning.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops scheduled pruning, waiting for a running cycle to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning, or nil
// when no schedule is active.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
