package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"io"
	"time"

	"arbiter-hq/gavel/pkg/audit"
)

// csvHeader matches the column order of recordToRow.
var csvHeader = []string{
	"id",
	"decision_id",
	"action_id",
	"action_type",
	"action_target",
	"action_metadata",
	"policy_id",
	"result",
	"reason",
	"suggestion",
	"alternative",
	"severity",
	"decision_time",
	"recorded_time",
	"ruleset_version",
	"ruleset_commit",
}

// CSVExporter writes audit records as CSV rows. Map-valued fields are
// flattened to JSON cells.
type CSVExporter struct {
	// IncludeHeader emits a header row before the first record.
	IncludeHeader bool
}

// NewCSVExporter creates a CSV exporter.
func NewCSVExporter(includeHeader bool) *CSVExporter {
	return &CSVExporter{IncludeHeader: includeHeader}
}

// Export writes records to w, one row per record.
func (e *CSVExporter) Export(_ context.Context, records []*audit.Record, w io.Writer) error {
	cw := csv.NewWriter(w)

	if e.IncludeHeader {
		if err := cw.Write(csvHeader); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	for _, record := range records {
		row, err := recordToRow(record)
		if err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
		if err := cw.Write(row); err != nil {
			return audit.NewExportError("csv", len(records), err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return audit.NewExportError("csv", len(records), err)
	}
	return nil
}

func recordToRow(r *audit.Record) ([]string, error) {
	metadata, err := formatJSON(r.ActionMetadata)
	if err != nil {
		return nil, err
	}
	alternative, err := formatJSON(r.Alternative)
	if err != nil {
		return nil, err
	}

	return []string{
		r.ID,
		r.DecisionID,
		r.ActionID,
		r.ActionType,
		r.ActionTarget,
		metadata,
		r.PolicyID,
		string(r.Result),
		r.Reason,
		r.Suggestion,
		alternative,
		string(r.Severity),
		formatTime(r.DecisionTime),
		formatTime(r.RecordedTime),
		r.RuleSetVersion,
		r.RuleSetCommit,
	}, nil
}

// formatTime renders t as RFC 3339; the zero time becomes an empty cell.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// formatJSON renders a map as a JSON cell; an empty map becomes an
// empty cell.
func formatJSON(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
