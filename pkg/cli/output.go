package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormat selects how a command renders its results.
type OutputFormat string

const (
	// FormatText renders human readable terminal output.
	FormatText OutputFormat = "text"

	// FormatJSON renders machine readable JSON.
	FormatJSON OutputFormat = "json"

	// FormatCSV renders comma separated values.
	FormatCSV OutputFormat = "csv"
)

// ParseOutputFormat validates a --format flag value. An empty value
// selects text output.
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch raw {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unknown output format %q (valid: text, json, csv)", raw)
	}
}

// WriteJSON encodes v to w with two space indentation and a trailing
// newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// OpenOutput resolves a --output flag value to a writer. An empty path
// selects standard output, whose Close is a no-op so callers can
// always defer it.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
