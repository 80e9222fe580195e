package table

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortConfig adjusts the comparator-driven sorts.
type SortConfig struct {
	// Reverse flips the final order after sorting with a comparator.
	Reverse bool
}

// RowComparator orders two rows, returning a negative, zero or positive int.
type RowComparator func(a, b []Value) int

// RecordComparator orders two rows given as name-keyed records.
type RecordComparator func(a, b map[string]Value) int

// ColumnKeyFunc maps a column to the string it is ordered by.
type ColumnKeyFunc func(name string, values []Value) string

// newCollator returns a collator for text comparison. Collators keep
// internal buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Und)
}

// CompareValues orders two cells: numbers by value, everything else by
// collated text.
func CompareValues(a, b Value) int {
	return compareWith(newCollator(), a, b)
}

func compareWith(col *collate.Collator, a, b Value) int {
	if a.IsNumber() && b.IsNumber() {
		return cmp.Compare(a.num, b.num)
	}
	return col.CompareString(a.Text(), b.Text())
}

// SortRows orders rows by one or more columns. Keys are compared left to
// right and the first difference decides; rows equal on every key keep
// their order. With no keys the row-key column is used.
func (t *Table) SortRows(keys ...Ref) error {
	cols := make([]int, 0, max(1, len(keys)))
	for _, k := range keys {
		c, err := t.ResolveColumn(k)
		if err != nil {
			return err
		}
		cols = append(cols, c)
	}
	if len(cols) == 0 {
		if t.width == 0 {
			return nil
		}
		cols = append(cols, t.rowKey)
	}

	col := newCollator()
	slices.SortStableFunc(t.rows, func(a, b []Value) int {
		for _, c := range cols {
			if d := compareWith(col, at(a, c), at(b, c)); d != 0 {
				return d
			}
		}
		return 0
	})
	return nil
}

// SortRowsFunc orders rows with a custom comparator.
func (t *Table) SortRowsFunc(compare RowComparator, cfg SortConfig) {
	slices.SortStableFunc(t.rows, compare)
	if cfg.Reverse {
		slices.Reverse(t.rows)
	}
}

// SortRecordsFunc orders rows with a comparator that sees each row keyed
// by column name.
func (t *Table) SortRecordsFunc(compare RecordComparator, cfg SortConfig) {
	type keyed struct {
		rec map[string]Value
		row []Value
	}
	items := make([]keyed, len(t.rows))
	for r, row := range t.rows {
		items[r] = keyed{rec: t.record(r), row: row}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return compare(a.rec, b.rec)
	})
	if cfg.Reverse {
		slices.Reverse(items)
	}

	for r, it := range items {
		t.rows[r] = it.row
	}
}

// SortColumns moves the given columns to the front, in the given order,
// followed by the remaining named columns sorted by name and then the
// unnamed ones in their current order. Rows and headers are rebuilt.
func (t *Table) SortColumns(keys ...Ref) error {
	used := make([]bool, t.width)
	order := make([]int, 0, t.width)
	for _, k := range keys {
		c, err := t.ResolveColumn(k)
		if err != nil {
			return err
		}
		if !used[c] {
			used[c] = true
			order = append(order, c)
		}
	}

	names := t.Headers()
	var named, unnamed []int
	for c := 0; c < t.width; c++ {
		if used[c] {
			continue
		}
		if names[c] != "" {
			named = append(named, c)
		} else {
			unnamed = append(unnamed, c)
		}
	}

	col := newCollator()
	slices.SortStableFunc(named, func(a, b int) int {
		return col.CompareString(names[a], names[b])
	})

	order = append(order, named...)
	order = append(order, unnamed...)
	t.permuteColumns(order, names)
	return nil
}

// SortColumnsFunc orders every column by the collated string key returns
// for it. Columns with equal keys keep their order.
func (t *Table) SortColumnsFunc(key ColumnKeyFunc) {
	names := t.Headers()
	keys := make([]string, t.width)
	order := make([]int, t.width)
	for c := range order {
		order[c] = c
		keys[c] = key(names[c], t.column(c))
	}

	col := newCollator()
	slices.SortStableFunc(order, func(a, b int) int {
		return col.CompareString(keys[a], keys[b])
	})
	t.permuteColumns(order, names)
}

// permuteColumns rebuilds rows and headers so that new position i holds
// old column order[i]. The old state is read in full before either
// collection is replaced.
func (t *Table) permuteColumns(order []int, names []string) {
	rows := make([][]Value, len(t.rows))
	for r := range t.rows {
		row := make([]Value, len(order))
		for i, c := range order {
			row[i] = t.cell(r, c)
		}
		rows[r] = row
	}

	headers := make(map[string]int, len(t.headers))
	rowKey := t.rowKey
	for i, c := range order {
		if names[c] != "" {
			headers[names[c]] = i
		}
		if c == t.rowKey {
			rowKey = i
		}
	}

	t.rows, t.headers, t.rowKey = rows, headers, rowKey
}

func at(row []Value, c int) Value {
	if c < len(row) {
		return row[c]
	}
	return Value{}
}
