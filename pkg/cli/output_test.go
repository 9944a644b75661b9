package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    OutputFormat
		wantErr bool
	}{
		{
			name: "empty defaults to text",
			raw:  "",
			want: FormatText,
		},
		{
			name: "text",
			raw:  "text",
			want: FormatText,
		},
		{
			name: "json",
			raw:  "json",
			want: FormatJSON,
		},
		{
			name: "csv",
			raw:  "csv",
			want: FormatCSV,
		},
		{
			name:    "unknown format",
			raw:     "xml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ParseOutputFormat() expected error, got nil")
				}
				if !strings.Contains(err.Error(), "unknown output format") {
					t.Errorf("error = %v, want mention of unknown output format", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOutputFormat() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	payload := map[string]any{
		"policy_id": "GVL-SEC-001",
		"result":    "deny",
	}

	if err := WriteJSON(&buf, payload); err != nil {
		t.Fatalf("WriteJSON() unexpected error: %v", err)
	}

	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("output should end with a newline")
	}
	if !strings.Contains(buf.String(), "  \"policy_id\"") {
		t.Error("output should be indented")
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["policy_id"] != "GVL-SEC-001" {
		t.Errorf("policy_id = %v, want %q", decoded["policy_id"], "GVL-SEC-001")
	}
}

func TestOpenOutputStdout(t *testing.T) {
	w, err := OpenOutput("")
	if err != nil {
		t.Fatalf("OpenOutput() unexpected error: %v", err)
	}
	if w == nil {
		t.Fatal("OpenOutput() returned nil writer")
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() on stdout writer = %v, want nil", err)
	}
}

func TestOpenOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	w, err := OpenOutput(path)
	if err != nil {
		t.Fatalf("OpenOutput() unexpected error: %v", err)
	}
	if _, err := w.Write([]byte("payload")); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("file content = %q, want %q", string(data), "payload")
	}
}

func TestOpenOutputBadPath(t *testing.T) {
	_, err := OpenOutput(filepath.Join(t.TempDir(), "missing", "out.json"))
	if err == nil {
		t.Fatal("OpenOutput() expected error for missing directory, got nil")
	}
}
