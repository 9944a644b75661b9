package retention

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"arbiter-hq/gavel/pkg/audit"
	"arbiter-hq/gavel/pkg/audit/storage"
	"arbiter-hq/gavel/pkg/decision"
)

func agedRecord(id string, decisionTime time.Time) *audit.Record {
	return &audit.Record{
		ID:           id,
		DecisionID:   "dec-" + id,
		ActionType:   "file.write",
		ActionTarget: "/workspace/out.txt",
		PolicyID:     "GVL-FS-001",
		Result:       decision.ResultAllow,
		Reason:       "workspace writes permitted",
		Severity:     decision.SeveritySoft,
		DecisionTime: decisionTime,
		RecordedTime: decisionTime,
	}
}

func seedAged(t *testing.T, store audit.Store, ages map[string]int) {
	t.Helper()
	now := time.Now().UTC()
	for id, days := range ages {
		record := agedRecord(id, now.AddDate(0, 0, -days))
		if err := store.Append(context.Background(), record); err != nil {
			t.Fatalf("Append(%s) error = %v", id, err)
		}
	}
}

func remainingIDs(t *testing.T, store audit.Store) map[string]bool {
	t.Helper()
	records, err := store.Query(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	ids := make(map[string]bool, len(records))
	for _, r := range records {
		ids[r.ID] = true
	}
	return ids
}

func TestPruner_PruneByAge(t *testing.T) {
	store := storage.NewMemoryStore()
	config := DefaultConfig()
	config.RetentionDays = 7

	pruner := NewPruner(store, config)
	seedAged(t, store, map[string]int{
		"old-1":    10,
		"old-2":    8,
		"recent-1": 5,
		"recent-2": 3,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	ids := remainingIDs(t, store)
	if len(ids) != 2 {
		t.Fatalf("remaining = %d, want 2", len(ids))
	}
	for _, id := range []string{"old-1", "old-2"} {
		if ids[id] {
			t.Errorf("record %s survived pruning", id)
		}
	}
}

func TestPruner_RetentionDisabled(t *testing.T) {
	store := storage.NewMemoryStore()
	config := DefaultConfig()
	config.RetentionDays = 0
	config.MaxRecords = 0

	pruner := NewPruner(store, config)
	seedAged(t, store, map[string]int{"ancient": 400})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}
	if !remainingIDs(t, store)["ancient"] {
		t.Error("record pruned with retention disabled")
	}
}

func TestPruner_PruneByCount(t *testing.T) {
	store := storage.NewMemoryStore()
	config := DefaultConfig()
	config.RetentionDays = 0
	config.MaxRecords = 2

	pruner := NewPruner(store, config)
	seedAged(t, store, map[string]int{
		"day-5": 5,
		"day-4": 4,
		"day-3": 3,
		"day-2": 2,
		"day-1": 1,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}

	ids := remainingIDs(t, store)
	for _, id := range []string{"day-1", "day-2"} {
		if !ids[id] {
			t.Errorf("newest record %s was pruned", id)
		}
	}
}

func TestPruner_AgeAndCount(t *testing.T) {
	store := storage.NewMemoryStore()
	config := DefaultConfig()
	config.RetentionDays = 7
	config.MaxRecords = 1

	pruner := NewPruner(store, config)
	seedAged(t, store, map[string]int{
		"old-1": 10,
		"old-2": 8,
		"day-3": 3,
		"day-2": 2,
		"day-1": 1,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 4 {
		t.Errorf("deleted = %d, want 4", deleted)
	}

	ids := remainingIDs(t, store)
	if len(ids) != 1 || !ids["day-1"] {
		t.Errorf("remaining = %v, want only day-1", ids)
	}
}

func TestPruner_ArchiveBeforeDelete(t *testing.T) {
	store := storage.NewMemoryStore()
	archiveDir := filepath.Join(t.TempDir(), "archives")

	config := DefaultConfig()
	config.RetentionDays = 7
	config.ArchiveBeforeDelete = true
	config.ArchivePath = archiveDir

	pruner := NewPruner(store, config)
	seedAged(t, store, map[string]int{
		"old-1": 10,
		"old-2": 9,
		"fresh": 1,
	})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}

	entries, err := os.ReadDir(archiveDir)
	if err != nil {
		t.Fatalf("reading archive dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("archive files = %d, want 1", len(entries))
	}

	name := entries[0].Name()
	if !strings.HasPrefix(name, "audit-") || !strings.HasSuffix(name, ".json") {
		t.Errorf("archive file name = %q, want audit-*.json", name)
	}

	data, err := os.ReadFile(filepath.Join(archiveDir, name))
	if err != nil {
		t.Fatalf("reading archive file: %v", err)
	}
	var archived []*audit.Record
	if err := json.Unmarshal(data, &archived); err != nil {
		t.Fatalf("archive is not a JSON array: %v", err)
	}
	if len(archived) != 2 {
		t.Errorf("archived records = %d, want 2", len(archived))
	}
}

func TestPruner_NoArchiveWhenNothingPruned(t *testing.T) {
	store := storage.NewMemoryStore()
	archiveDir := filepath.Join(t.TempDir(), "archives")

	config := DefaultConfig()
	config.RetentionDays = 7
	config.ArchiveBeforeDelete = true
	config.ArchivePath = archiveDir

	pruner := NewPruner(store, config)
	seedAged(t, store, map[string]int{"fresh": 1})

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("deleted = %d, want 0", deleted)
	}

	if entries, err := os.ReadDir(archiveDir); err == nil && len(entries) > 0 {
		t.Errorf("archive files = %d, want none", len(entries))
	}
}

func TestPruner_NilConfigDefaults(t *testing.T) {
	pruner := NewPruner(storage.NewMemoryStore(), nil)

	if pruner.config.RetentionDays != 90 {
		t.Errorf("RetentionDays = %d, want 90", pruner.config.RetentionDays)
	}
	if pruner.config.PruneSchedule != "0 3 * * *" {
		t.Errorf("PruneSchedule = %q, want %q", pruner.config.PruneSchedule, "0 3 * * *")
	}
	if pruner.config.MaxRecords != 0 {
		t.Errorf("MaxRecords = %d, want 0", pruner.config.MaxRecords)
	}
}
