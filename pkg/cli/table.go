package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table renders aligned column output for terminal listings.
type Table struct {
	tw *tabwriter.Writer
}

// NewTable creates a table writing to w. When headers are given they
// become the first row.
func NewTable(w io.Writer, headers ...string) *Table {
	t := &Table{
		tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0),
	}
	if len(headers) > 0 {
		fmt.Fprintln(t.tw, strings.Join(headers, "\t"))
	}
	return t
}

// Row appends one row of cells.
func (t *Table) Row(cells ...string) {
	fmt.Fprintln(t.tw, strings.Join(cells, "\t"))
}

// Flush writes the aligned output to the underlying writer. No output
// is produced until Flush is called.
func (t *Table) Flush() error {
	return t.tw.Flush()
}
