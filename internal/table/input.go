package table

// input.go defines the closed set of construction shapes and normalizes
// each of them to one canonical form before a Table is built.

import (
	"context"
	"fmt"
	"io"
	"reflect"
)

// HeaderMode says whether the first row of the input names the columns.
type HeaderMode int

const (
	// HeadersDetect guesses for delimited text: the first line is a header
	// row when none of its cells is numeric. Array input never guesses.
	HeadersDetect HeaderMode = iota
	HeadersPresent
	HeadersAbsent
)

// CountMode asks the constructor to tally values instead of storing them.
type CountMode int

const (
	CountNone CountMode = iota
	// CountHorizontal emits one row of counts; headers are the distinct values.
	CountHorizontal
	// CountVertical emits one (value, count) row per distinct value.
	CountVertical
)

// Config carries construction options.
type Config struct {
	// Headers names columns by position. Empty strings leave a column unnamed.
	Headers []string
	// HeaderMap names columns by explicit position. Its size must equal the
	// final column count. Mutually exclusive with Headers.
	HeaderMap map[string]int
	// HasHeaders controls whether the first input row is consumed as names.
	HasHeaders HeaderMode
	// RowKeyColumn is the column used to find rows by name. Defaults to Pos(0).
	RowKeyColumn Ref
	// Format forces CSV or TSV splitting of delimited text.
	Format Format
	// Count replaces the rows with a frequency table of their values.
	Count CountMode
}

// Input is one of DelimitedText, RowArray, ScalarList or ConfigObject.
type Input interface {
	normalize() (shape, error)
}

// DelimitedText is CSV or TSV text.
type DelimitedText struct {
	Text   string
	Format Format
}

// NumberText is the delimited-text form of a bare number.
func NumberText(f float64) DelimitedText {
	return DelimitedText{Text: formatNumber(f)}
}

// RowArray is a list whose elements are rows (slices) or scalars; a scalar
// element becomes a single-column row.
type RowArray struct {
	Rows []any
}

// ScalarList is a single row given as a flat list of scalars.
type ScalarList struct {
	Values []any
}

// ConfigObject is a Config plus at most one payload: Values (a single
// row), Text (delimited text) or Rows (as in RowArray).
type ConfigObject struct {
	Config Config
	Rows   []any
	Text   string
	Values []any
}

// shape is the canonical form every Input normalizes to.
type shape struct {
	rows [][]Value
	cfg  Config
	// text enables header detection
	text bool
}

func (in DelimitedText) normalize() (shape, error) {
	rows, err := ParseText(in.Text, in.Format)
	if err != nil {
		return shape{}, err
	}
	return shape{rows: rows, cfg: Config{Format: in.Format}, text: true}, nil
}

func (in RowArray) normalize() (shape, error) {
	rows, err := rowsOf(in.Rows)
	if err != nil {
		return shape{}, err
	}
	return shape{rows: rows}, nil
}

func (in ScalarList) normalize() (shape, error) {
	row, err := rowOf(in.Values)
	if err != nil {
		return shape{}, err
	}
	return shape{rows: [][]Value{row}}, nil
}

func (in ConfigObject) normalize() (shape, error) {
	payloads := 0
	for _, set := range []bool{in.Values != nil, in.Text != "", in.Rows != nil} {
		if set {
			payloads++
		}
	}
	if payloads > 1 {
		return shape{}, fmt.Errorf("%w: config carries more than one payload", ErrUnrecognizedInput)
	}

	s := shape{cfg: in.Config}
	var err error

	switch {
	case in.Config.Count != CountNone:
		return countShape(in.Config, in.Rows, in.Values)
	case in.Values != nil:
		var row []Value
		row, err = rowOf(in.Values)
		s.rows = [][]Value{row}
	case in.Text != "":
		s.rows, err = ParseText(in.Text, in.Config.Format)
		s.text = true
	default:
		s.rows, err = rowsOf(in.Rows)
	}
	if err != nil {
		return shape{}, err
	}
	return s, nil
}

// New builds a Table from one input variant. On error no Table is returned.
func New(in Input) (*Table, error) {
	if in == nil {
		return newTable(), nil
	}
	s, err := in.normalize()
	if err != nil {
		return nil, err
	}
	return build(s)
}

// Build classifies dynamically typed arguments and builds a Table from them.
func Build(args ...any) (*Table, error) {
	in, err := Classify(args...)
	if err != nil {
		return nil, err
	}
	return New(in)
}

// FromReader reads all of r as delimited text.
func FromReader(r io.Reader, cfg Config) (*Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read table text: %w", err)
	}
	if len(b) == 0 {
		return New(ConfigObject{Config: cfg})
	}
	return New(ConfigObject{Config: cfg, Text: string(b)})
}

// Fetcher retrieves remote text for FromURL. Implementations own timeouts,
// retries and size limits.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// FromURL fetches delimited text through f and builds a Table from it.
func FromURL(ctx context.Context, f Fetcher, url string, cfg Config) (*Table, error) {
	body, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return FromReader(body, cfg)
}

// build turns a normalized shape into a Table. Every validation runs
// before the first row is stored.
func build(s shape) (*Table, error) {
	cfg := s.cfg
	rows := s.rows

	if cfg.Headers != nil && cfg.HeaderMap != nil {
		return nil, fmt.Errorf("%w: headers given both as a list and as a map", ErrHeaderMismatch)
	}
	explicit := cfg.Headers != nil || cfg.HeaderMap != nil

	consume := false
	switch cfg.HasHeaders {
	case HeadersPresent:
		consume = len(rows) > 0
	case HeadersDetect:
		consume = s.text && !explicit && len(rows) > 0 && looksLikeHeader(rows[0])
	}

	names := cfg.Headers
	if consume {
		if names == nil && cfg.HeaderMap == nil {
			names = texts(rows[0])
		}
		rows = rows[1:]
	}

	t := newTable()
	if err := t.SetHeaders(names); err != nil {
		return nil, err
	}

	width := t.width
	for _, row := range rows {
		width = max(width, len(row))
	}

	if cfg.HeaderMap != nil {
		if width == 0 {
			width = len(cfg.HeaderMap)
		}
		if err := checkHeaderMap(cfg.HeaderMap, width); err != nil {
			return nil, err
		}
	}

	rowKey, err := resolveRowKey(cfg, t.headers, width)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if _, err := t.appendRow(row); err != nil {
			return nil, err
		}
	}
	t.grow(width)

	if cfg.HeaderMap != nil {
		t.headers = copyHeaders(cfg.HeaderMap)
	}
	t.rowKey = rowKey

	return t, nil
}

func resolveRowKey(cfg Config, headers map[string]int, width int) (int, error) {
	ref := cfg.RowKeyColumn
	if ref.IsName() {
		lookup := headers
		if cfg.HeaderMap != nil {
			lookup = cfg.HeaderMap
		}
		pos, ok := lookup[ref.Label()]
		if !ok {
			return 0, fmt.Errorf("%w: no column named %s", ErrRowKeyColumn, ref)
		}
		return pos, nil
	}

	pos := ref.Position()
	if pos < 0 || (pos > 0 && pos >= width) {
		return 0, fmt.Errorf("%w: position %d outside %d columns", ErrRowKeyColumn, pos, width)
	}
	return pos, nil
}

// rowsOf converts a RowArray payload. Slice elements become rows and
// scalar elements become single-column rows.
func rowsOf(items []any) ([][]Value, error) {
	rows := make([][]Value, 0, len(items))
	for i, item := range items {
		if elems, ok := anySlice(item); ok {
			row, err := rowOf(elems)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			rows = append(rows, row)
			continue
		}
		v, err := ValueOf(item)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, []Value{v})
	}
	return rows, nil
}

func rowOf(items []any) ([]Value, error) {
	row := make([]Value, len(items))
	for i, item := range items {
		v, err := ValueOf(item)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
		row[i] = v
	}
	return row, nil
}

// anySlice exposes any slice or array (except []byte) as []any.
func anySlice(x any) ([]any, bool) {
	switch t := x.(type) {
	case []any:
		return t, true
	case []byte:
		return nil, false
	case nil:
		return nil, false
	}

	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func texts(row []Value) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = v.Text()
	}
	return out
}

// countShape tallies every non-empty value in rows (flattening one level)
// or in values, keeping first-seen order.
func countShape(cfg Config, rows, values []any) (shape, error) {
	items := values
	if items == nil {
		items = rows
	}

	var flat []Value
	for _, item := range items {
		if elems, ok := anySlice(item); ok {
			row, err := rowOf(elems)
			if err != nil {
				return shape{}, err
			}
			flat = append(flat, row...)
			continue
		}
		v, err := ValueOf(item)
		if err != nil {
			return shape{}, err
		}
		flat = append(flat, v)
	}

	var order []string
	first := make(map[string]Value)
	counts := make(map[string]int)
	for _, v := range flat {
		if v.IsEmpty() {
			continue
		}
		key := v.Text()
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			first[key] = v
		}
		counts[key]++
	}

	out := Config{RowKeyColumn: cfg.RowKeyColumn, HasHeaders: HeadersAbsent}
	if cfg.Count == CountVertical {
		out.Headers = cfg.Headers
		out.HeaderMap = cfg.HeaderMap
		tally := make([][]Value, len(order))
		for i, key := range order {
			tally[i] = []Value{first[key], Number(float64(counts[key]))}
		}
		return shape{rows: tally, cfg: out}, nil
	}

	out.Headers = order
	if len(order) == 0 {
		return shape{cfg: out}, nil
	}
	row := make([]Value, len(order))
	for i, key := range order {
		row[i] = Number(float64(counts[key]))
	}
	return shape{rows: [][]Value{row}, cfg: out}, nil
}
