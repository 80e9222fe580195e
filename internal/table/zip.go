package table

import "fmt"

// Zip combines sequences element-wise. The result is as long as the
// longest input; element i holds each input's element i, with empty
// Values where an input is too short.
func Zip(seqs ...[]Value) ([][]Value, error) {
	if len(seqs) < 2 {
		return nil, fmt.Errorf("%w: got %d sequence(s)", ErrZipArity, len(seqs))
	}

	n := 0
	for _, s := range seqs {
		n = max(n, len(s))
	}

	out := make([][]Value, n)
	for i := range out {
		tuple := make([]Value, len(seqs))
		for j, s := range seqs {
			if i < len(s) {
				tuple[j] = s[i]
			}
		}
		out[i] = tuple
	}
	return out, nil
}

// ZipRows zips the given rows.
func (t *Table) ZipRows(refs ...Ref) ([][]Value, error) {
	return t.zip(t.Row, refs)
}

// ZipColumns zips the given columns.
func (t *Table) ZipColumns(refs ...Ref) ([][]Value, error) {
	return t.zip(t.Column, refs)
}

func (t *Table) zip(get func(Ref) ([]Value, error), refs []Ref) ([][]Value, error) {
	if len(refs) < 2 {
		return nil, fmt.Errorf("%w: got %d reference(s)", ErrZipArity, len(refs))
	}
	seqs := make([][]Value, len(refs))
	for i, ref := range refs {
		seq, err := get(ref)
		if err != nil {
			return nil, err
		}
		seqs[i] = seq
	}
	return Zip(seqs...)
}
