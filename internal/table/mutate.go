package table

import "fmt"

// ColumnSpec describes a column to append. Name is optional; Data holds
// one value per existing row, and rows past its end stay empty.
type ColumnSpec struct {
	Name string
	Data []Value
}

// AddColumn appends a column at the current width and returns its position.
func (t *Table) AddColumn(spec ColumnSpec) (int, error) {
	if spec.Name != "" {
		if _, dup := t.headers[spec.Name]; dup {
			return 0, fmt.Errorf("%w: %q", ErrDuplicateColumn, spec.Name)
		}
	}

	pos := t.width
	if err := t.extend(pos + 1); err != nil {
		return 0, err
	}
	if spec.Name != "" {
		t.headers[spec.Name] = pos
	}
	for r := range t.rows {
		if r >= len(spec.Data) {
			break
		}
		t.rows[r][pos] = spec.Data[r]
	}
	return pos, nil
}

// SetHeaders appends one column per name, in order, as AddColumn does.
// An empty name adds an unnamed column. Either every column is added or,
// when a name is already taken, none is.
func (t *Table) SetHeaders(names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, dup := t.headers[name]; dup || seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[name] = true
	}

	base := t.width
	if err := t.extend(base + len(names)); err != nil {
		return err
	}
	for i, name := range names {
		if name != "" {
			t.headers[name] = base + i
		}
	}
	return nil
}

// RenameColumns names columns by position. A name at a position past the
// width adds a column; an empty name leaves its column as it is. Either
// every name is applied or, on a duplicate, none is.
func (t *Table) RenameColumns(names []string) error {
	next := copyHeaders(t.headers)

	for pos, name := range names {
		if name == "" {
			continue
		}
		for old, p := range next {
			if p == pos {
				delete(next, old)
			}
		}
	}
	for pos, name := range names {
		if name == "" {
			continue
		}
		if other, taken := next[name]; taken && other != pos {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		next[name] = pos
	}

	if err := t.extend(len(names)); err != nil {
		return err
	}
	t.headers = next
	return nil
}

// SetHeaderMap replaces every column name. The map must name exactly as
// many columns as the table has, each at a distinct valid position. A
// table without columns takes one column per name instead.
func (t *Table) SetHeaderMap(m map[string]int) error {
	width := t.width
	if width == 0 {
		width = len(m)
	}
	if err := checkHeaderMap(m, width); err != nil {
		return err
	}
	if err := t.extend(width); err != nil {
		return err
	}
	t.headers = copyHeaders(m)
	return nil
}

// AddRow appends a row and returns its position. Extra values add
// unnamed columns.
func (t *Table) AddRow(values ...Value) (int, error) {
	return t.appendRow(values)
}

// AddRows appends several rows. Either every row is added or, when they
// would pass the table's limits, none is.
func (t *Table) AddRows(rows [][]Value) error {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	if err := t.reserve(len(t.rows)+len(rows), width); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := t.appendRow(row); err != nil {
			return err
		}
	}
	return nil
}

// AddRecord appends a row given by column name. Every name must already
// be a column; AddRecord does not create columns.
func (t *Table) AddRecord(rec map[string]Value) (int, error) {
	row := make([]Value, t.width)
	for name, v := range rec {
		pos, err := t.ResolveColumn(Name(name))
		if err != nil {
			return 0, err
		}
		row[pos] = v
	}
	return t.appendRow(row)
}

// SetCell writes v at row, col, creating the row or column if needed.
func (t *Table) SetCell(row, col Ref, v Value) error {
	r, c, err := t.resolveCell(row, col)
	if err != nil {
		return err
	}
	t.updateCell(r, c, v, true)
	return nil
}

// AppendCell accumulates v into the cell at row, col: an existing
// non-empty value is joined with v as text, an empty cell takes v as is.
// The row or column is created if needed.
func (t *Table) AppendCell(row, col Ref, v Value) error {
	r, c, err := t.resolveCell(row, col)
	if err != nil {
		return err
	}
	t.updateCell(r, c, v, false)
	return nil
}

func (t *Table) resolveCell(row, col Ref) (int, int, error) {
	for _, ref := range []Ref{row, col} {
		if !ref.IsName() && ref.Position() < 0 {
			return 0, 0, fmt.Errorf("%w: negative position %d", ErrInvalidRef, ref.Position())
		}
	}
	c, err := t.ResolveColumnOrCreate(col)
	if err != nil {
		return 0, 0, err
	}
	r, err := t.ResolveRowOrCreate(row)
	if err != nil {
		return 0, 0, err
	}
	return r, c, nil
}

// updateCell is the single physical write path.
func (t *Table) updateCell(r, c int, v Value, overwrite bool) {
	t.rows[r] = padTo(t.rows[r], t.width)
	prev := t.rows[r][c]
	if !overwrite && !prev.IsEmpty() {
		v = String(prev.Text() + v.Text())
	}
	t.rows[r][c] = v
}

// SetRow assigns data to an existing row. data may be a list (assigned
// by position), a map keyed by column name, or, when the table has fewer
// than two columns, a scalar written to column 0. Every referenced column
// must exist.
func (t *Table) SetRow(ref Ref, data any) error {
	return t.setRow(ref, data, false)
}

// SetRowOrCreate is SetRow that creates the row and any missing columns.
func (t *Table) SetRowOrCreate(ref Ref, data any) error {
	return t.setRow(ref, data, true)
}

// SetColumn assigns data to an existing column. data may be a list
// (assigned by row position), a map keyed by row name, or, when the table
// has fewer than two columns, a scalar written to row 0.
func (t *Table) SetColumn(ref Ref, data any) error {
	return t.setColumn(ref, data, false)
}

// SetColumnOrCreate is SetColumn that creates the column and any missing rows.
func (t *Table) SetColumnOrCreate(ref Ref, data any) error {
	return t.setColumn(ref, data, true)
}

func (t *Table) setRow(ref Ref, data any, create bool) error {
	p, err := payloadOf(data)
	if err != nil {
		return err
	}

	switch {
	case p.list != nil:
		if len(p.list) > t.width && !create {
			return fmt.Errorf("%w: %d values for %d columns", ErrColumnNotFound, len(p.list), t.width)
		}
		if err := t.reserve(0, len(p.list)); err != nil {
			return err
		}
		r, err := t.resolveRow(ref, create)
		if err != nil {
			return err
		}
		t.grow(len(p.list))
		for c, v := range p.list {
			t.updateCell(r, c, v, true)
		}
		return nil

	case p.record != nil:
		cols := make(map[string]int, len(p.record))
		if !create {
			for name := range p.record {
				c, err := t.ResolveColumn(Name(name))
				if err != nil {
					return err
				}
				cols[name] = c
			}
		}
		r, err := t.resolveRow(ref, create)
		if err != nil {
			return err
		}
		for name, v := range p.record {
			c, ok := cols[name]
			if !ok {
				if c, err = t.ResolveColumnOrCreate(Name(name)); err != nil {
					return err
				}
			}
			t.updateCell(r, c, v, true)
		}
		return nil

	default:
		if t.width >= 2 {
			return scalarShapeError("SetRow", t.width)
		}
		if err := t.reserve(0, 1); err != nil {
			return err
		}
		r, err := t.resolveRow(ref, create)
		if err != nil {
			return err
		}
		t.grow(1)
		t.updateCell(r, 0, p.scalar, true)
		return nil
	}
}

func (t *Table) setColumn(ref Ref, data any, create bool) error {
	p, err := payloadOf(data)
	if err != nil {
		return err
	}

	switch {
	case p.list != nil:
		if len(p.list) > len(t.rows) && !create {
			return fmt.Errorf("%w: %d values for %d rows", ErrRowNotFound, len(p.list), len(t.rows))
		}
		c, err := t.resolveColumn(ref, create)
		if err != nil {
			return err
		}
		if n := len(p.list); n > len(t.rows) {
			if _, err := t.ResolveRowOrCreate(Pos(n - 1)); err != nil {
				return err
			}
		}
		for r, v := range p.list {
			t.updateCell(r, c, v, true)
		}
		return nil

	case p.record != nil:
		rows := make(map[string]int, len(p.record))
		if !create {
			for name := range p.record {
				r, err := t.ResolveRow(Name(name))
				if err != nil {
					return err
				}
				rows[name] = r
			}
		}
		c, err := t.resolveColumn(ref, create)
		if err != nil {
			return err
		}
		for name, v := range p.record {
			r, ok := rows[name]
			if !ok {
				if r, err = t.ResolveRowOrCreate(Name(name)); err != nil {
					return err
				}
			}
			t.updateCell(r, c, v, true)
		}
		return nil

	default:
		if t.width >= 2 {
			return scalarShapeError("SetColumn", t.width)
		}
		if len(t.rows) == 0 && !create {
			return fmt.Errorf("%w: row 0 does not exist", ErrRowNotFound)
		}
		c, err := t.resolveColumn(ref, create)
		if err != nil {
			return err
		}
		r, err := t.resolveRow(Pos(0), create)
		if err != nil {
			return err
		}
		t.updateCell(r, c, p.scalar, true)
		return nil
	}
}

func scalarShapeError(op string, width int) error {
	return fmt.Errorf("%w: %s got a scalar for a table with %d columns; use SetCell", ErrPayloadShape, op, width)
}

// payload is row or column data in one of its three accepted shapes.
type payload struct {
	list   []Value
	record map[string]Value
	scalar Value
}

func payloadOf(data any) (payload, error) {
	switch d := data.(type) {
	case []Value:
		if d == nil {
			d = []Value{}
		}
		return payload{list: d}, nil
	case map[string]Value:
		if d == nil {
			d = map[string]Value{}
		}
		return payload{record: d}, nil
	case map[string]any:
		rec := make(map[string]Value, len(d))
		for k, x := range d {
			v, err := ValueOf(x)
			if err != nil {
				return payload{}, fmt.Errorf("field %q: %w", k, err)
			}
			rec[k] = v
		}
		return payload{record: rec}, nil
	}

	if elems, ok := anySlice(data); ok {
		row, err := rowOf(elems)
		if err != nil {
			return payload{}, err
		}
		return payload{list: row}, nil
	}

	v, err := ValueOf(data)
	if err != nil {
		return payload{}, fmt.Errorf("%w: expected a list, a map or a scalar, got %T; use SetCell", ErrPayloadShape, data)
	}
	return payload{scalar: v}, nil
}
