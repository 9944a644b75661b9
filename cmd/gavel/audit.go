package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"arbiter-hq/gavel/pkg/audit"
	"arbiter-hq/gavel/pkg/audit/export"
	"arbiter-hq/gavel/pkg/audit/retention"
	"arbiter-hq/gavel/pkg/audit/storage"
	"arbiter-hq/gavel/pkg/cli"
	"arbiter-hq/gavel/pkg/config"
	"arbiter-hq/gavel/pkg/decision"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Query and maintain the audit store",
	Long: `Query, export, and prune recorded decisions.

The audit store is selected by the audit section of the configuration
file. Subcommands:
  query   - Query records with filters
  export  - Export records to JSON or CSV
  prune   - Apply the retention policy

Examples:
  # Denials in a time window
  gavel audit query --result deny --time-range "2026-08-01T00:00:00Z/2026-08-22T00:00:00Z"

  # Everything a policy decided, newest first
  gavel audit query --policy GVL-SEC-001 --sort desc

  # Full export for offline analysis
  gavel audit export --format csv --output audit.csv`,
}

var auditQueryFlags struct {
	policy     string
	result     string
	actionType string
	timeRange  string
	limit      int
	offset     int
	sort       string
	format     string
	output     string
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit records",
	Long: `Query audit records with various filters.

Time Range Format:
  RFC3339 interval format: "start/end"
  Example: "2026-08-01T00:00:00Z/2026-08-22T00:00:00Z"

When no limit is given the configured default limit applies.`,
	RunE: queryAudit,
}

var auditExportFlags struct {
	policy    string
	result    string
	timeRange string
	limit     int
	format    string
	output    string
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export audit records",
	Long: `Export audit records to JSON or CSV.

Unlike query, export applies no default limit: everything matching
the filters is written.`,
	RunE: exportAudit,
}

var auditPruneFlags struct {
	days       int
	maxRecords int64
	daemon     bool
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy",
	Long: `Delete audit records past the retention window.

Without flags the configured retention settings apply. With --daemon
the command keeps running and prunes on the configured cron schedule
until interrupted.`,
	RunE: pruneAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd, auditExportCmd, auditPruneCmd)

	auditQueryCmd.Flags().StringVar(&auditQueryFlags.policy, "policy", "", "filter by deciding policy ID")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.result, "result", "", "filter by result: allow, deny")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.actionType, "action-type", "", "filter by action type")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	auditQueryCmd.Flags().IntVar(&auditQueryFlags.limit, "limit", 0, "max results (default: configured limit)")
	auditQueryCmd.Flags().IntVar(&auditQueryFlags.offset, "offset", 0, "pagination offset")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.sort, "sort", "", "sort by decision time: asc, desc")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.format, "format", "text", "output format: text, json, csv")
	auditQueryCmd.Flags().StringVarP(&auditQueryFlags.output, "output", "o", "", "output file (default: stdout)")

	auditExportCmd.Flags().StringVar(&auditExportFlags.policy, "policy", "", "filter by deciding policy ID")
	auditExportCmd.Flags().StringVar(&auditExportFlags.result, "result", "", "filter by result: allow, deny")
	auditExportCmd.Flags().StringVar(&auditExportFlags.timeRange, "time-range", "", "time range (RFC3339 interval: start/end)")
	auditExportCmd.Flags().IntVar(&auditExportFlags.limit, "limit", 0, "max records (default: all matching)")
	auditExportCmd.Flags().StringVar(&auditExportFlags.format, "format", "json", "output format: json, csv")
	auditExportCmd.Flags().StringVarP(&auditExportFlags.output, "output", "o", "", "output file (default: stdout)")

	auditPruneCmd.Flags().IntVar(&auditPruneFlags.days, "days", -1, "retention window in days (default: configured value)")
	auditPruneCmd.Flags().Int64Var(&auditPruneFlags.maxRecords, "max-records", -1, "record cap, oldest beyond it are pruned (default: configured value)")
	auditPruneCmd.Flags().BoolVar(&auditPruneFlags.daemon, "daemon", false, "keep running and prune on the configured schedule")
}

// openStore opens the audit backend named by the configuration.
func openStore(cfg *config.Config) (audit.Store, error) {
	switch cfg.Audit.Backend {
	case "sqlite":
		return storage.NewSQLiteStore(&storage.SQLiteConfig{
			Path:         cfg.Audit.SQLite.Path,
			MaxOpenConns: cfg.Audit.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Audit.SQLite.MaxIdleConns,
			WALMode:      cfg.Audit.SQLite.WALMode,
			BusyTimeout:  cfg.Audit.SQLite.BusyTimeout.Std(),
		})
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported audit backend %q (supported: sqlite, memory)", cfg.Audit.Backend)
	}
}

// parseTimeRange parses an RFC3339 "start/end" interval. Both bounds
// are required when the range is given at all.
func parseTimeRange(raw string) (start, end *time.Time, err error) {
	if raw == "" {
		return nil, nil, nil
	}

	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("invalid time range %q (expected: start/end)", raw)
	}

	s, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid start time: %w", err)
	}
	e, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid end time: %w", err)
	}
	return &s, &e, nil
}

func parseResult(raw string) (decision.Result, error) {
	switch strings.ToLower(raw) {
	case "":
		return "", nil
	case "allow":
		return decision.ResultAllow, nil
	case "deny":
		return decision.ResultDeny, nil
	default:
		return "", fmt.Errorf("invalid result %q (valid: allow, deny)", raw)
	}
}

type queryArgs struct {
	policy     string
	result     string
	actionType string
	timeRange  string
	limit      int
	offset     int
	sort       string
}

// buildQuery assembles a store query from command flags. The
// configured default limit applies only when defaultLimit is set;
// exports pass false so an unbounded export stays unbounded.
func buildQuery(cfg *config.Config, a queryArgs, defaultLimit bool) (*audit.Query, error) {
	if a.sort != "" && a.sort != audit.SortAsc && a.sort != audit.SortDesc {
		return nil, fmt.Errorf("invalid sort order %q (valid: asc, desc)", a.sort)
	}

	result, err := parseResult(a.result)
	if err != nil {
		return nil, err
	}

	q := &audit.Query{
		PolicyID:   a.policy,
		Result:     result,
		ActionType: a.actionType,
		Limit:      a.limit,
		Offset:     a.offset,
		SortOrder:  a.sort,
	}

	q.StartTime, q.EndTime, err = parseTimeRange(a.timeRange)
	if err != nil {
		return nil, err
	}

	if q.Limit == 0 && defaultLimit {
		q.Limit = cfg.Audit.Query.DefaultLimit
	}
	if max := cfg.Audit.Query.MaxLimit; max > 0 && q.Limit > max {
		return nil, fmt.Errorf("limit %d exceeds the configured maximum %d", q.Limit, max)
	}

	return q, nil
}

func queryAudit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(auditQueryFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	q, err := buildQuery(cfg, queryArgs{
		policy:     auditQueryFlags.policy,
		result:     auditQueryFlags.result,
		actionType: auditQueryFlags.actionType,
		timeRange:  auditQueryFlags.timeRange,
		limit:      auditQueryFlags.limit,
		offset:     auditQueryFlags.offset,
		sort:       auditQueryFlags.sort,
	}, true)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.Query(ctx, q)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}

	out, err := cli.OpenOutput(auditQueryFlags.output)
	if err != nil {
		return err
	}
	defer out.Close()

	switch format {
	case cli.FormatJSON:
		return export.NewJSONExporter(cfg.Audit.Export.JSONPretty).Export(ctx, records, out)
	case cli.FormatCSV:
		return export.NewCSVExporter(cfg.Audit.Export.CSVIncludeHeader).Export(ctx, records, out)
	default:
		return writeRecordsTable(out, records)
	}
}

func writeRecordsTable(w io.Writer, records []*audit.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No records found.")
		return err
	}

	table := cli.NewTable(w, "DECIDED", "POLICY", "RESULT", "ACTION", "TARGET")
	for _, r := range records {
		table.Row(
			r.DecisionTime.UTC().Format(time.RFC3339),
			r.PolicyID,
			string(r.Result),
			r.ActionType,
			r.ActionTarget,
		)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d records\n", len(records))
	return err
}

func exportAudit(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(auditExportFlags.format)
	if err != nil {
		return err
	}
	if format == cli.FormatText {
		return fmt.Errorf("export requires --format json or csv")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	q, err := buildQuery(cfg, queryArgs{
		policy:    auditExportFlags.policy,
		result:    auditExportFlags.result,
		timeRange: auditExportFlags.timeRange,
		limit:     auditExportFlags.limit,
	}, false)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("audit export", err)
	}
	defer store.Close()

	ctx := context.Background()
	records, err := store.Query(ctx, q)
	if err != nil {
		return cli.NewCommandError("audit export", err)
	}

	out, err := cli.OpenOutput(auditExportFlags.output)
	if err != nil {
		return err
	}
	defer out.Close()

	if format == cli.FormatCSV {
		return export.NewCSVExporter(cfg.Audit.Export.CSVIncludeHeader).Export(ctx, records, out)
	}
	return export.NewJSONExporter(cfg.Audit.Export.JSONPretty).Export(ctx, records, out)
}

func pruneAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rc := &retention.Config{
		RetentionDays:       cfg.Retention.Days,
		PruneSchedule:       cfg.Retention.PruneSchedule,
		ArchiveBeforeDelete: cfg.Retention.ArchiveBeforeDelete,
		ArchivePath:         cfg.Retention.ArchivePath,
		MaxRecords:          cfg.Retention.MaxRecords,
	}
	if auditPruneFlags.days >= 0 {
		rc.RetentionDays = auditPruneFlags.days
	}
	if auditPruneFlags.maxRecords >= 0 {
		rc.MaxRecords = auditPruneFlags.maxRecords
	}

	store, err := openStore(cfg)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	defer store.Close()

	pruner := retention.NewPruner(store, rc)

	if auditPruneFlags.daemon {
		ctx, stop := cli.SetupSignalHandler()
		defer stop()

		if err := pruner.Start(ctx); err != nil {
			return cli.NewCommandError("audit prune", err)
		}
		defer pruner.Stop()

		if next := pruner.NextPruning(); next != nil {
			fmt.Printf("Retention scheduler running, next pruning at %s\n", next.Format(time.RFC3339))
		}
		<-ctx.Done()
		return nil
	}

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	fmt.Printf("Pruned %d records\n", deleted)
	return nil
}
