package audit

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"arbiter-hq/gavel/pkg/action"
	"arbiter-hq/gavel/pkg/decision"
)

// Record is one immutable audit entry: the decision contract plus the
// originating action's identifying fields and recording metadata.
type Record struct {
	// ID uniquely identifies the record (UUID v4).
	ID string `json:"id"`

	// DecisionID references the recorded decision.
	DecisionID string `json:"decision_id"`

	// ActionID references the adjudicated action.
	ActionID string `json:"action_id"`

	// ActionType is the adjudicated action's type.
	ActionType string `json:"action_type"`

	// ActionTarget is the adjudicated action's target.
	ActionTarget string `json:"action_target"`

	// ActionMetadata is a copy of the action's metadata.
	ActionMetadata map[string]string `json:"action_metadata,omitempty"`

	// PolicyID names the policy that decided, or a reserved synthetic ID.
	PolicyID string `json:"policy_id"`

	// Result is ALLOW or DENY.
	Result decision.Result `json:"result"`

	// Reason explains the decision.
	Reason string `json:"reason"`

	// Suggestion is the replan hint attached to a denial, may be empty.
	Suggestion string `json:"suggestion,omitempty"`

	// Alternative is the structured replan hint, may be empty.
	Alternative map[string]string `json:"alternative,omitempty"`

	// Severity is hard for denials, soft for allows.
	Severity decision.Severity `json:"severity"`

	// DecisionTime is when the decision was made.
	DecisionTime time.Time `json:"decision_time"`

	// RecordedTime is when this record was built.
	RecordedTime time.Time `json:"recorded_time"`

	// RuleSetVersion is the content version of the frozen registry the
	// decision was made under, when the sink knows it.
	RuleSetVersion string `json:"rule_set_version,omitempty"`

	// RuleSetCommit is the git commit the rule set was loaded from, when
	// the rules came from a git source.
	RuleSetCommit string `json:"rule_set_commit,omitempty"`
}

// Provenance identifies the rule set active when decisions were made.
// Sinks stamp it onto every record they build.
type Provenance struct {
	// RuleSetVersion is the registry's content version.
	RuleSetVersion string

	// RuleSetCommit is the rule repository commit SHA, may be empty.
	RuleSetCommit string
}

// NewRecord builds a record from a decision and its originating action.
// The action's fields are authoritative when act is non-nil; otherwise the
// copies carried on the decision are used. Maps are copied.
func NewRecord(d *decision.Decision, act *action.Action) *Record {
	rec := &Record{
		ID:           uuid.New().String(),
		DecisionID:   d.DecisionID,
		ActionID:     d.ActionID,
		ActionType:   d.ActionType,
		ActionTarget: d.ActionTarget,
		PolicyID:     d.PolicyID,
		Result:       d.Result,
		Reason:       d.Reason,
		Suggestion:   d.Suggestion,
		Severity:     d.Severity,
		DecisionTime: d.Timestamp,
		RecordedTime: time.Now().UTC(),
	}

	if act != nil {
		rec.ActionID = act.ID
		rec.ActionType = act.Type
		rec.ActionTarget = act.Target
		rec.ActionMetadata = act.Metadata()
	} else {
		rec.ActionMetadata = copyMap(d.ActionMetadata)
	}
	rec.Alternative = copyMap(d.Alternative)

	return rec
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	out := *r
	out.ActionMetadata = copyMap(r.ActionMetadata)
	out.Alternative = copyMap(r.Alternative)
	return &out
}

// Denied reports whether the record captures a denial.
func (r *Record) Denied() bool {
	return r.Result == decision.ResultDeny
}

func copyMap(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Sort orders accepted by Query.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query filters audit records. Zero-valued fields do not filter.
type Query struct {
	// PolicyID filters by deciding policy.
	PolicyID string

	// Result filters by ALLOW or DENY.
	Result decision.Result

	// ActionType filters by the adjudicated action's type.
	ActionType string

	// StartTime bounds DecisionTime from below, inclusive.
	StartTime *time.Time

	// EndTime bounds DecisionTime from above, inclusive.
	EndTime *time.Time

	// Limit caps the number of returned records; zero means no cap.
	Limit int

	// Offset skips the first N matching records.
	Offset int

	// SortOrder orders by DecisionTime: SortAsc or SortDesc.
	// Default: SortAsc.
	SortOrder string
}

// Matches reports whether the record passes the query's filters. Limit,
// Offset, and SortOrder are pagination concerns and not checked here.
func (q *Query) Matches(r *Record) bool {
	if q.PolicyID != "" && r.PolicyID != q.PolicyID {
		return false
	}
	if q.Result != "" && r.Result != q.Result {
		return false
	}
	if q.ActionType != "" && r.ActionType != q.ActionType {
		return false
	}
	if q.StartTime != nil && r.DecisionTime.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && r.DecisionTime.After(*q.EndTime) {
		return false
	}
	return true
}

// Store is a persistent audit backend. Implementations must be safe for
// concurrent use; individual appends are atomic, cross-writer total order
// is not guaranteed.
type Store interface {
	// Append persists one record.
	Append(ctx context.Context, record *Record) error

	// Query retrieves records matching the filters, empty when none match.
	Query(ctx context.Context, q *Query) ([]*Record, error)

	// Count returns the number of records matching the filters.
	Count(ctx context.Context, q *Query) (int64, error)

	// Delete removes records matching the filters and returns how many.
	Delete(ctx context.Context, q *Query) (int64, error)

	// Close releases backend resources.
	Close() error
}

// Exporter writes records to an output stream in some format.
type Exporter interface {
	Export(ctx context.Context, records []*Record, w io.Writer) error
}
