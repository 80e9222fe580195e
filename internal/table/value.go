package table

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Kind identifies what a Value holds.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return "empty"
	}
}

// Value is a single cell: a string, a number, or empty.
// The zero Value is empty.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Empty returns the empty Value.
func Empty() Value { return Value{} }

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Kind reports what v holds.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v holds nothing.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Text renders v the way it is serialized: numbers in their shortest
// decimal form, empty as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string { return v.Text() }

// Float returns the numeric content of v. Strings that look numeric are
// converted; everything else yields NaN and false.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		if f, ok := parseNumber(v.str); ok {
			return f, true
		}
	}
	return math.NaN(), false
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	}
	return true
}

// MarshalJSON renders numbers as JSON numbers, strings as strings and
// empty cells as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return []byte(formatNumber(v.num)), nil
	case KindString:
		return []byte(strconv.Quote(v.str)), nil
	default:
		return []byte("null"), nil
	}
}

// Coerce turns raw text into a Value, converting numeric-looking text
// into a number. Empty text becomes the empty string Value, not Empty.
func Coerce(s string) Value {
	if f, ok := parseNumber(s); ok {
		return Number(f)
	}
	return String(s)
}

// ValueOf converts a dynamically typed Go value into a Value.
// Accepted: nil, Value, string, bool, and all integer and float kinds.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Empty(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return String(strconv.FormatBool(t)), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case fmt.Stringer:
		return String(t.String()), nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported cell type %T", ErrPayloadShape, x)
	}
}

// Values converts strings into coerced Values.
func Values(cells ...string) []Value {
	out := make([]Value, len(cells))
	for i, c := range cells {
		out[i] = Coerce(c)
	}
	return out
}

// Numbers converts float64s into numeric Values.
func Numbers(nums ...float64) []Value {
	out := make([]Value, len(nums))
	for i, n := range nums {
		out[i] = Number(n)
	}
	return out
}

func isScalar(x any) bool {
	_, err := ValueOf(x)
	return err == nil
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
