package table

import (
	"strconv"
	"strings"
)

// Ref addresses a row or a column either by zero-based position or by name.
// The zero Ref is Pos(0).
type Ref struct {
	name  string
	pos   int
	named bool
}

// Pos references by position.
func Pos(i int) Ref { return Ref{pos: i} }

// Name references by name: a header name for columns, a row-key cell for rows.
func Name(s string) Ref { return Ref{name: s, named: true} }

// IsName reports whether r references by name.
func (r Ref) IsName() bool { return r.named }

// Position returns the position of a positional Ref.
func (r Ref) Position() int { return r.pos }

// Label returns the name of a named Ref.
func (r Ref) Label() string { return r.name }

func (r Ref) String() string {
	if r.named {
		return strconv.Quote(r.name)
	}
	return strconv.Itoa(r.pos)
}

// ParseRef interprets s as a position when it is a non-negative integer and
// as a name otherwise.
func ParseRef(s string) Ref {
	if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && i >= 0 {
		return Pos(i)
	}
	return Name(s)
}

// ParseRefs splits a comma-separated list with ParseRef. Empty items are skipped.
func ParseRefs(s string) []Ref {
	var refs []Ref
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		refs = append(refs, ParseRef(part))
	}
	return refs
}

// RefOf converts a dynamic value (a number or a string) into a Ref.
func RefOf(x any) (Ref, bool) {
	switch t := x.(type) {
	case Ref:
		return t, true
	case string:
		return Name(t), true
	case int:
		return Pos(t), true
	case int64:
		return Pos(int(t)), true
	case float64:
		if t != float64(int(t)) {
			return Ref{}, false
		}
		return Pos(int(t)), true
	}
	return Ref{}, false
}
