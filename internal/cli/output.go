package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/pnguyen215/shell-sub002/internal/apperr"
	pkgstrings "github.com/pnguyen215/shell-sub002/pkg/strings"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return f, nil
	case "":
		return OutputFormatTable, nil
	default:
		return "", apperr.Invalid("output", s, "must be one of table, json, yaml")
	}
}

// Table is tabular output together with the structured data it was built
// from. JSON and YAML render Data; table renders Headers and Rows.
type Table struct {
	Headers []string
	Rows    [][]string
	Data    any
}

// Printer renders command results in the selected format.
type Printer struct {
	out       io.Writer
	format    OutputFormat
	noHeaders bool
	maxWidth  int
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer, format OutputFormat, noHeaders bool) *Printer {
	return &Printer{
		out:       out,
		format:    format,
		noHeaders: noHeaders,
		maxWidth:  pkgstrings.DefaultValueMaxLen,
	}
}

// Format returns the selected output format.
func (p *Printer) Format() OutputFormat {
	return p.format
}

// Structured reports whether output is JSON or YAML.
func (p *Printer) Structured() bool {
	return p.format == OutputFormatJSON || p.format == OutputFormatYAML
}

// Writer returns the destination writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// PrintTable renders t in the selected format.
func (p *Printer) PrintTable(t Table) error {
	if p.Structured() {
		return p.PrintData(t.Data)
	}

	w := table.NewWriter()
	w.SetOutputMirror(p.out)
	w.SetStyle(PlainStyle())
	if !p.noHeaders {
		header := make(table.Row, len(t.Headers))
		for i, h := range t.Headers {
			header[i] = h
		}
		w.AppendHeader(header)
	}
	for _, r := range t.Rows {
		row := make(table.Row, len(r))
		for i, cell := range r {
			row[i] = pkgstrings.Truncate(cell, p.maxWidth)
		}
		w.AppendRow(row)
	}
	if len(t.Rows) == 0 && p.noHeaders {
		return nil
	}
	w.Render()
	return nil
}

// PrintData renders v as JSON or YAML. In table mode it falls back to
// fmt's default formatting.
func (p *Printer) PrintData(v any) error {
	switch p.format {
	case OutputFormatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(p.out, v)
		return err
	}
}

// PrintLines writes one value per line in table mode and the slice itself
// in structured modes.
func (p *Printer) PrintLines(lines []string) error {
	if p.Structured() {
		if lines == nil {
			lines = []string{}
		}
		return p.PrintData(lines)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(p.out, l); err != nil {
			return err
		}
	}
	return nil
}

// PrintValue writes a single scalar result. Structured modes wrap it in a
// one-field object keyed by name.
func (p *Printer) PrintValue(name, value string) error {
	if p.Structured() {
		return p.PrintData(map[string]string{name: value})
	}
	_, err := fmt.Fprintln(p.out, value)
	return err
}
