package table

// export.go renders a table as CSV, TSV or an HTML fragment.
//
// None of the writers escape more than they must: CSV quotes only fields
// holding a comma or a double quote, TSV never quotes, and HTML output
// is not escaped at all. Cell content that may contain markup has to be
// cleaned by the caller before HTML export.

import (
	"fmt"
	"io"
	"strings"
)

// ExportOptions adjusts serialization.
type ExportOptions struct {
	// OmitHeaders drops the header line (CSV, TSV) or <thead> (HTML).
	OmitHeaders bool
	// Caption adds a <caption> to HTML output.
	Caption string
}

// CSV renders the table as comma-separated text.
func (t *Table) CSV(opts ExportOptions) string {
	var b strings.Builder
	_ = t.WriteCSV(&b, opts)
	return b.String()
}

// TSV renders the table as tab-separated text.
func (t *Table) TSV(opts ExportOptions) string {
	var b strings.Builder
	_ = t.WriteTSV(&b, opts)
	return b.String()
}

// HTML renders the table as a <table> fragment.
func (t *Table) HTML(opts ExportOptions) string {
	var b strings.Builder
	_ = t.WriteHTML(&b, opts)
	return b.String()
}

// WriteCSV writes comma-separated lines, one per row, after an optional
// header line.
func (t *Table) WriteCSV(w io.Writer, opts ExportOptions) error {
	return t.writeDelimited(w, ",", csvField, opts)
}

// WriteTSV writes tab-separated lines. Tabs and newlines inside cells are
// written as they are.
func (t *Table) WriteTSV(w io.Writer, opts ExportOptions) error {
	return t.writeDelimited(w, "\t", func(s string) string { return s }, opts)
}

func (t *Table) writeDelimited(w io.Writer, sep string, field func(string) string, opts ExportOptions) error {
	var lines []string
	if !opts.OmitHeaders && t.HasHeaders() {
		names := t.Headers()
		for i, name := range names {
			names[i] = field(name)
		}
		lines = append(lines, strings.Join(names, sep))
	}

	cells := make([]string, t.width)
	for r := range t.rows {
		for c := range cells {
			cells[c] = field(t.cell(r, c).Text())
		}
		lines = append(lines, strings.Join(cells, sep))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// csvField quotes s when it holds a comma or a double quote, escaping
// inner quotes with a backslash so ParseLine reads it back.
func csvField(s string) string {
	if !strings.ContainsAny(s, `,"`) {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// WriteHTML writes a minimal <table> fragment.
func (t *Table) WriteHTML(w io.Writer, opts ExportOptions) error {
	var b strings.Builder
	b.WriteString("<table>")
	if opts.Caption != "" {
		fmt.Fprintf(&b, "<caption>%s</caption>", opts.Caption)
	}

	if !opts.OmitHeaders && t.HasHeaders() {
		b.WriteString("<thead><tr>")
		for _, name := range t.Headers() {
			fmt.Fprintf(&b, "<th>%s</th>", name)
		}
		b.WriteString("</tr></thead>")
	}

	b.WriteString("<tbody>")
	for r := range t.rows {
		b.WriteString("<tr>")
		for c := 0; c < t.width; c++ {
			fmt.Fprintf(&b, "<td>%s</td>", t.cell(r, c).Text())
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")

	_, err := io.WriteString(w, b.String())
	return err
}
