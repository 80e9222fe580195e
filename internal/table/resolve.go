package table

import (
	"fmt"
	"slices"
)

// ResolveRow maps a row reference to a position. Positions must be in
// range; names are matched exactly against the text of the row-key column.
func (t *Table) ResolveRow(ref Ref) (int, error) {
	return t.resolveRow(ref, false)
}

// ResolveRowOrCreate is ResolveRow that grows the table on a miss. A
// position past the end extends the table so the row exists; an unknown
// name appends a row whose key cell holds the name.
func (t *Table) ResolveRowOrCreate(ref Ref) (int, error) {
	return t.resolveRow(ref, true)
}

// ResolveColumn maps a column reference to a position. Names are looked
// up in the headers.
func (t *Table) ResolveColumn(ref Ref) (int, error) {
	return t.resolveColumn(ref, false)
}

// ResolveColumnOrCreate is ResolveColumn that adds columns on a miss: a
// position past the end adds unnamed columns up to it, an unknown name
// adds one named column. Growth stops at the table's Limits.
func (t *Table) ResolveColumnOrCreate(ref Ref) (int, error) {
	return t.resolveColumn(ref, true)
}

func (t *Table) resolveRow(ref Ref, create bool) (int, error) {
	if ref.IsName() {
		name := ref.Label()
		for r := range t.rows {
			if v := t.cell(r, t.rowKey); !v.IsEmpty() && v.Text() == name {
				return r, nil
			}
		}
		if !create {
			return 0, fmt.Errorf("%w: unable to find row %s", ErrRowNotFound, ref)
		}
		if err := t.reserve(len(t.rows)+1, t.rowKey+1); err != nil {
			return 0, err
		}
		t.grow(t.rowKey + 1)
		row := make([]Value, t.width)
		row[t.rowKey] = String(name)
		t.rows = append(t.rows, row)
		return len(t.rows) - 1, nil
	}

	pos := ref.Position()
	if pos < 0 {
		return 0, fmt.Errorf("%w: negative row position %d", ErrInvalidRef, pos)
	}
	if pos < len(t.rows) {
		return pos, nil
	}
	if !create {
		return 0, fmt.Errorf("%w: row %d does not exist", ErrRowNotFound, pos)
	}
	if err := t.reserve(pos+1, 0); err != nil {
		return 0, err
	}
	t.rows = slices.Grow(t.rows, pos+1-len(t.rows))
	for len(t.rows) <= pos {
		t.rows = append(t.rows, make([]Value, t.width))
	}
	return pos, nil
}

func (t *Table) resolveColumn(ref Ref, create bool) (int, error) {
	if ref.IsName() {
		if pos, ok := t.headers[ref.Label()]; ok {
			return pos, nil
		}
		if !create {
			return 0, fmt.Errorf("%w: no column named %s", ErrColumnNotFound, ref)
		}
		return t.AddColumn(ColumnSpec{Name: ref.Label()})
	}

	pos := ref.Position()
	if pos < 0 {
		return 0, fmt.Errorf("%w: negative column position %d", ErrInvalidRef, pos)
	}
	if pos < t.width {
		return pos, nil
	}
	if !create {
		return 0, fmt.Errorf("%w: column %d does not exist", ErrColumnNotFound, pos)
	}
	if err := t.extend(pos + 1); err != nil {
		return 0, err
	}
	return pos, nil
}
