package audit

import (
	"log/slog"
	"sync"

	"arbiter-hq/gavel/pkg/action"
	"arbiter-hq/gavel/pkg/decision"
)

// DefaultTrailCapacity is the retention cap used when none is configured.
const DefaultTrailCapacity = 1000

// TrailConfig configures a Trail.
type TrailConfig struct {
	// Capacity is the retention cap; once full, the oldest record is
	// evicted per append. Default: 1000.
	Capacity int

	// Provenance is stamped onto every record.
	Provenance Provenance
}

// Trail is a bounded in-memory audit sink with query helpers. Appends
// never block and never fail; once the capacity is reached the oldest
// record is evicted. Safe for concurrent use.
type Trail struct {
	mu      sync.RWMutex
	buf     []*Record
	start   int
	count   int
	evicted uint64
	prov    Provenance
	logger  *slog.Logger
}

// NewTrail creates a bounded trail. A nil config uses defaults.
func NewTrail(cfg *TrailConfig) *Trail {
	if cfg == nil {
		cfg = &TrailConfig{}
	}
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultTrailCapacity
	}
	return &Trail{
		buf:    make([]*Record, capacity),
		prov:   cfg.Provenance,
		logger: slog.Default().With("component", "audit.trail"),
	}
}

// Record implements Sink. The error return is always nil; it exists to
// satisfy the interface.
func (t *Trail) Record(d *decision.Decision, act *action.Action) error {
	rec := NewRecord(d, act)
	rec.RuleSetVersion = t.prov.RuleSetVersion
	rec.RuleSetCommit = t.prov.RuleSetCommit

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.count < len(t.buf) {
		t.buf[(t.start+t.count)%len(t.buf)] = rec
		t.count++
		return nil
	}

	// Full: overwrite the oldest slot.
	t.buf[t.start] = rec
	t.start = (t.start + 1) % len(t.buf)
	t.evicted++
	if t.evicted == 1 {
		t.logger.Debug("audit trail at capacity, evicting oldest records",
			"capacity", len(t.buf),
		)
	}
	return nil
}

// GetAll returns every retained record, oldest first. Records are deep
// copies.
func (t *Trail) GetAll() []*Record {
	return t.filter(func(*Record) bool { return true })
}

// GetDenied returns the retained DENY records, oldest first.
func (t *Trail) GetDenied() []*Record {
	return t.filter(func(r *Record) bool { return r.Denied() })
}

// GetByPolicy returns the retained records decided by the given policy,
// oldest first. Works for reserved synthetic IDs too.
func (t *Trail) GetByPolicy(policyID string) []*Record {
	return t.filter(func(r *Record) bool { return r.PolicyID == policyID })
}

// Len returns the number of retained records.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Capacity returns the retention cap.
func (t *Trail) Capacity() int {
	return len(t.buf)
}

// Evicted returns how many records have been evicted since creation.
func (t *Trail) Evicted() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.evicted
}

func (t *Trail) filter(keep func(*Record) bool) []*Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*Record, 0, t.count)
	for i := 0; i < t.count; i++ {
		rec := t.buf[(t.start+i)%len(t.buf)]
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}
