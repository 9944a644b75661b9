package export

import (
	"context"
	"encoding/json"
	"io"

	"arbiter-hq/gavel/pkg/audit"
)

// JSONExporter writes audit records as a JSON array.
type JSONExporter struct {
	// Pretty enables indented output for human inspection.
	Pretty bool
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes records to w as a single JSON array. A nil or empty
// slice produces "[]" so consumers always receive valid JSON.
func (e *JSONExporter) Export(_ context.Context, records []*audit.Record, w io.Writer) error {
	if records == nil {
		records = []*audit.Record{}
	}

	var (
		data []byte
		err  error
	)
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return audit.NewExportError("json", len(records), err)
	}

	if _, err := w.Write(data); err != nil {
		return audit.NewExportError("json", len(records), err)
	}
	return nil
}
