package storage

import (
	"context"
	"errors"
	"sort"
	"sync"

	"arbiter-hq/gavel/pkg/audit"
)

var errNilRecord = errors.New("record cannot be nil")

// MemoryStore implements audit.Store with an in-memory slice. It is
// intended for tests and short-lived tooling; records do not survive the
// process.
type MemoryStore struct {
	mu      sync.RWMutex
	records []*audit.Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements audit.Store. The record is deep-copied; later caller
// mutations do not reach the store.
func (s *MemoryStore) Append(ctx context.Context, record *audit.Record) error {
	if record == nil {
		return audit.NewStorageError("memory", "append", errNilRecord)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())
	return nil
}

// Query implements audit.Store. Results are deep copies sorted by
// decision time, ascending unless the query says otherwise.
func (s *MemoryStore) Query(ctx context.Context, q *audit.Query) ([]*audit.Record, error) {
	if q == nil {
		q = &audit.Query{}
	}

	s.mu.RLock()
	var results []*audit.Record
	for _, record := range s.records {
		if q.Matches(record) {
			results = append(results, record.Clone())
		}
	}
	s.mu.RUnlock()

	sortRecords(results, q.SortOrder)

	return paginate(results, q.Offset, q.Limit), nil
}

// Count implements audit.Store. Pagination is ignored: the count covers
// every matching record.
func (s *MemoryStore) Count(ctx context.Context, q *audit.Query) (int64, error) {
	if q == nil {
		q = &audit.Query{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, record := range s.records {
		if q.Matches(record) {
			count++
		}
	}
	return count, nil
}

// Delete implements audit.Store and returns the number of records
// removed. Pagination is ignored: every matching record goes.
func (s *MemoryStore) Delete(ctx context.Context, q *audit.Query) (int64, error) {
	if q == nil {
		q = &audit.Query{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.records[:0]
	var deleted int64
	for _, record := range s.records {
		if q.Matches(record) {
			deleted++
			continue
		}
		kept = append(kept, record)
	}
	s.records = kept

	return deleted, nil
}

// Close implements audit.Store and discards all records.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

// Size returns the number of stored records (for tests).
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// sortRecords orders records by decision time, oldest first for
// ascending. Ties keep insertion order.
func sortRecords(records []*audit.Record, order string) {
	desc := order == audit.SortDesc
	sort.SliceStable(records, func(i, j int) bool {
		if desc {
			return records[i].DecisionTime.After(records[j].DecisionTime)
		}
		return records[i].DecisionTime.Before(records[j].DecisionTime)
	})
}

// paginate applies offset and limit. A zero limit means no cap.
func paginate(records []*audit.Record, offset, limit int) []*audit.Record {
	if offset > 0 {
		if offset >= len(records) {
			return []*audit.Record{}
		}
		records = records[offset:]
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
