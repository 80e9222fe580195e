package table

import "fmt"

// Limits caps how far a table may grow. A zero field means no cap.
type Limits struct {
	MaxRows    int
	MaxColumns int
}

// SetLimits installs l for later growth. It fails with ErrTooLarge,
// leaving the table as it was, when the table is already past l.
func (t *Table) SetLimits(l Limits) error {
	if err := l.check(len(t.rows), t.width); err != nil {
		return err
	}
	t.limits = l
	return nil
}

// Limits returns the caps installed with SetLimits.
func (t *Table) Limits() Limits { return t.limits }

func (l Limits) check(rows, cols int) error {
	if l.MaxRows > 0 && rows > l.MaxRows {
		return fmt.Errorf("%w: %d rows, the limit is %d", ErrTooLarge, rows, l.MaxRows)
	}
	if l.MaxColumns > 0 && cols > l.MaxColumns {
		return fmt.Errorf("%w: %d columns, the limit is %d", ErrTooLarge, cols, l.MaxColumns)
	}
	return nil
}

// reserve reports whether the table may grow to rows by cols.
func (t *Table) reserve(rows, cols int) error {
	return t.limits.check(max(rows, len(t.rows)), max(cols, t.width))
}
