// Package output renders CLI results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formats accepted by Printer.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Printer writes values in one format.
type Printer struct {
	w      io.Writer
	format string
}

// NewPrinter returns a Printer for format. Unknown formats are rejected.
func NewPrinter(w io.Writer, format string) (*Printer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", FormatTable:
		format = FormatTable
	case FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q: use table, json or yaml", format)
	}
	return &Printer{w: w, format: format}, nil
}

// Format returns the selected format.
func (p *Printer) Format() string { return p.format }

// Structured writes v as JSON or YAML and reports whether it did. Table
// output is left to the caller.
func (p *Printer) Structured(v interface{}) (bool, error) {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// Table is a simple fixed-width text table.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a Table with headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, rows: [][]string{}}
}

// AddRow appends a row; missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the table to w.
func (t *Table) Render(w io.Writer) {
	// Calculate column widths
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		parts := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	writeRow(t.headers)
	seps := make([]string, len(widths))
	for i, n := range widths {
		seps[i] = strings.Repeat("-", n)
	}
	writeRow(seps)
	for _, row := range t.rows {
		writeRow(row)
	}
}
