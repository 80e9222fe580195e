// Package table provides an in-memory tabular data container.
//
// A Table holds rows of cells addressed by position or by name. Columns
// may carry unique names; rows are found by name through the row-key
// column. Tables are built from delimited text, arrays or configuration
// objects (see Input and Classify), mutated in place, summarized with the
// statistics helpers, sorted, and written back out as CSV, TSV or HTML.
//
// # Construction
//
//	t, err := table.New(table.DelimitedText{Text: "a,b,c\n1,2,3"})
//	// headers a, b, c; one row [1 2 3]
//
//	t, err = table.Build(map[string]any{"headers": []any{"x", "y"}}, 1, 2)
//	// headers x, y; one row [1 2]
//
// # Addressing
//
// Rows and columns are referenced with Ref values: Pos(i) or Name(s).
// Resolve* methods fail on a miss; Resolve*OrCreate methods grow the
// table instead.
//
// # Concurrency
//
// A Table is not safe for concurrent use. Callers that share one must
// serialize access themselves.
package table

import (
	"fmt"
	"maps"
)

// Table is a rectangular grid of Values. Stored rows may be shorter than
// the column count; missing trailing cells read as empty.
type Table struct {
	rows    [][]Value
	headers map[string]int
	width   int
	rowKey  int
	limits  Limits
}

func newTable() *Table {
	return &Table{headers: make(map[string]int)}
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return len(t.rows) }

// NumColumns returns the column count shared by every row.
func (t *Table) NumColumns() int { return t.width }

// RowKeyColumn returns the position of the column used to find rows by name.
func (t *Table) RowKeyColumn() int { return t.rowKey }

// SetRowKeyColumn changes the row-key column. The column must exist.
func (t *Table) SetRowKeyColumn(ref Ref) error {
	pos, err := t.ResolveColumn(ref)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRowKeyColumn, err)
	}
	t.rowKey = pos
	return nil
}

// Headers returns column names by position; unnamed columns are "".
func (t *Table) Headers() []string {
	names := make([]string, t.width)
	for name, pos := range t.headers {
		if pos < t.width {
			names[pos] = name
		}
	}
	return names
}

// HeaderMap returns a copy of the name to position mapping.
func (t *Table) HeaderMap() map[string]int {
	return copyHeaders(t.headers)
}

// HasHeaders reports whether any column is named.
func (t *Table) HasHeaders() bool { return len(t.headers) > 0 }

// Cell returns the value at row, col.
func (t *Table) Cell(row, col Ref) (Value, error) {
	r, err := t.ResolveRow(row)
	if err != nil {
		return Value{}, err
	}
	c, err := t.ResolveColumn(col)
	if err != nil {
		return Value{}, err
	}
	return t.cell(r, c), nil
}

// Row returns a copy of a row padded to the column count.
func (t *Table) Row(ref Ref) ([]Value, error) {
	r, err := t.ResolveRow(ref)
	if err != nil {
		return nil, err
	}
	return t.paddedRow(r), nil
}

// RowRecord returns a row keyed by column name. Unnamed columns are omitted.
func (t *Table) RowRecord(ref Ref) (map[string]Value, error) {
	r, err := t.ResolveRow(ref)
	if err != nil {
		return nil, err
	}
	return t.record(r), nil
}

// Column returns a copy of a column, one value per row.
func (t *Table) Column(ref Ref) ([]Value, error) {
	c, err := t.ResolveColumn(ref)
	if err != nil {
		return nil, err
	}
	return t.column(c), nil
}

// ColumnRecord returns a column keyed by each row's row-key text. Later
// rows win when keys repeat.
func (t *Table) ColumnRecord(ref Ref) (map[string]Value, error) {
	c, err := t.ResolveColumn(ref)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Value, len(t.rows))
	for r := range t.rows {
		out[t.cell(r, t.rowKey).Text()] = t.cell(r, c)
	}
	return out, nil
}

// Rows returns a padded copy of every row.
func (t *Table) Rows() [][]Value {
	out := make([][]Value, len(t.rows))
	for r := range t.rows {
		out[r] = t.paddedRow(r)
	}
	return out
}

// Records returns every row keyed by column name.
func (t *Table) Records() []map[string]Value {
	out := make([]map[string]Value, len(t.rows))
	for r := range t.rows {
		out[r] = t.record(r)
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	return &Table{
		rows:    t.Rows(),
		headers: copyHeaders(t.headers),
		width:   t.width,
		rowKey:  t.rowKey,
		limits:  t.limits,
	}
}

func (t *Table) cell(r, c int) Value {
	if r < 0 || r >= len(t.rows) || c < 0 || c >= len(t.rows[r]) {
		return Value{}
	}
	return t.rows[r][c]
}

func (t *Table) paddedRow(r int) []Value {
	row := make([]Value, t.width)
	copy(row, t.rows[r])
	return row
}

func (t *Table) column(c int) []Value {
	out := make([]Value, len(t.rows))
	for r := range t.rows {
		out[r] = t.cell(r, c)
	}
	return out
}

func (t *Table) record(r int) map[string]Value {
	out := make(map[string]Value, len(t.headers))
	for name, pos := range t.headers {
		out[name] = t.cell(r, pos)
	}
	return out
}

// appendRow stores a copy of row, growing the column count if needed.
func (t *Table) appendRow(row []Value) (int, error) {
	if err := t.reserve(len(t.rows)+1, len(row)); err != nil {
		return 0, err
	}
	t.grow(len(row))
	stored := make([]Value, t.width)
	copy(stored, row)
	t.rows = append(t.rows, stored)
	return len(t.rows) - 1, nil
}

// grow raises the column count to width, backfilling every row with
// explicit empty slots. It never shrinks.
func (t *Table) grow(width int) {
	if width <= t.width {
		return
	}
	t.width = width
	for r, row := range t.rows {
		t.rows[r] = padTo(row, width)
	}
}

// extend is grow within the table's limits.
func (t *Table) extend(width int) error {
	if err := t.reserve(0, width); err != nil {
		return err
	}
	t.grow(width)
	return nil
}

// padTo lengthens row to n empty-filled cells. Spare capacity is reused
// and doubled when it runs out, so adding columns one at a time stays
// linear per row.
func padTo(row []Value, n int) []Value {
	if len(row) >= n {
		return row
	}
	if cap(row) < n {
		grown := make([]Value, len(row), max(n, 2*cap(row)))
		copy(grown, row)
		row = grown
	}
	old := len(row)
	row = row[:n]
	clear(row[old:])
	return row
}

func checkHeaderMap(m map[string]int, width int) error {
	if len(m) != width {
		return fmt.Errorf("%w: %d header names for %d columns", ErrHeaderMismatch, len(m), width)
	}
	seen := make(map[int]string, len(m))
	for name, pos := range m {
		if pos < 0 || pos >= width {
			return fmt.Errorf("%w: header %q points at position %d outside %d columns", ErrHeaderMismatch, name, pos, width)
		}
		if other, dup := seen[pos]; dup {
			return fmt.Errorf("%w: headers %q and %q both point at position %d", ErrHeaderMismatch, other, name, pos)
		}
		seen[pos] = name
	}
	return nil
}

func copyHeaders(m map[string]int) map[string]int {
	if m == nil {
		return make(map[string]int)
	}
	return maps.Clone(m)
}
