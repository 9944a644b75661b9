// Package retention enforces retention limits on stored audit records.
//
// The pruner deletes records in two phases: first by age (records whose
// decision time is older than the retention period) and then by count
// (oldest records beyond a maximum total). Either phase can be disabled
// by leaving its limit at zero. Records can be archived to JSON files
// before deletion.
//
// # Basic Usage
//
//	pruner := retention.NewPruner(store, &retention.Config{
//	    RetentionDays:       90,
//	    PruneSchedule:       "0 3 * * *",
//	    ArchiveBeforeDelete: true,
//	    ArchivePath:         "data/archives/",
//	})
//
//	if err := pruner.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pruner.Stop()
//
// Pruning can also be triggered manually:
//
//	deleted, err := pruner.Prune(ctx)
//
// # Scheduling
//
// The scheduler accepts standard five-field cron expressions:
//
//   - "0 3 * * *": daily at 3 AM (default)
//   - "0 0 * * 0": weekly on Sunday at midnight
//   - "0 */6 * * *": every 6 hours
//
// An empty PruneSchedule disables scheduled pruning; Start returns
// without error and only manual Prune calls take effect.
package retention
