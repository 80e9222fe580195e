package web

// handlers_common.go holds request parsing and response shaping shared by
// the handlers.

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/go-chi/chi/v5"
)

// decodeJSON reads a single JSON value from the request body into v.
// Numbers decode as float64, which table.ValueOf accepts.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errBadRequest)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// tableID returns the {id} path parameter.
func tableID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

// queryRef reads a required row or column reference from the query.
func queryRef(r *http.Request, name string) (table.Ref, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return table.Ref{}, fmt.Errorf("%w: missing %s parameter", errBadRequest, name)
	}
	return table.ParseRef(raw), nil
}

// queryAxis reads the axis parameter; it defaults to column.
func queryAxis(r *http.Request) (table.Axis, error) {
	raw := r.URL.Query().Get("axis")
	if raw == "" {
		return table.AxisColumn, nil
	}
	return table.ParseAxis(raw)
}

// parseBoolParam parses a boolean query parameter with a default value.
func parseBoolParam(r *http.Request, name string, defaultVal bool) bool {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// parseIntParam parses a non-negative integer query parameter with a
// default value.
func parseIntParam(r *http.Request, name string, defaultVal int) (int, error) {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return i, nil
}

// headerMode maps an optional hasHeaders flag onto the table's modes.
func headerMode(hasHeaders *bool) table.HeaderMode {
	switch {
	case hasHeaders == nil:
		return table.HeadersDetect
	case *hasHeaders:
		return table.HeadersPresent
	default:
		return table.HeadersAbsent
	}
}

// queryHeaderMode reads hasHeaders from the query.
func queryHeaderMode(r *http.Request) (table.HeaderMode, error) {
	raw := r.URL.Query().Get("hasHeaders")
	if raw == "" {
		return table.HeadersDetect, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: hasHeaders must be a boolean", errBadRequest)
	}
	return headerMode(&b), nil
}

// refOf converts a decoded JSON reference: a number is a position, a
// string is a name.
func refOf(x any, what string) (table.Ref, error) {
	ref, ok := table.RefOf(x)
	if !ok {
		return table.Ref{}, fmt.Errorf("%w: %s must be a position or a name, got %v", table.ErrInvalidRef, what, x)
	}
	return ref, nil
}

func refsOf(xs []any, what string) ([]table.Ref, error) {
	refs := make([]table.Ref, len(xs))
	for i, x := range xs {
		ref, err := refOf(x, what)
		if err != nil {
			return nil, err
		}
		refs[i] = ref
	}
	return refs, nil
}

// valuesOf converts decoded JSON scalars into cell values.
func valuesOf(xs []any) ([]table.Value, error) {
	out := make([]table.Value, len(xs))
	for i, x := range xs {
		v, err := table.ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func recordOf(m map[string]any) (map[string]table.Value, error) {
	out := make(map[string]table.Value, len(m))
	for k, x := range m {
		v, err := table.ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// nullable turns NaN, which JSON cannot carry, into null.
func nullable(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func nullables(fs []float64) []*float64 {
	out := make([]*float64, len(fs))
	for i, f := range fs {
		out[i] = nullable(f)
	}
	return out
}

// summaryJSON is table.Summary with undefined statistics as null.
type summaryJSON struct {
	Count             int      `json:"count"`
	Sum               *float64 `json:"sum"`
	Mean              *float64 `json:"mean"`
	Variance          *float64 `json:"variance"`
	StandardDeviation *float64 `json:"standardDeviation"`
}

func newSummaryJSON(s table.Summary) summaryJSON {
	return summaryJSON{
		Count:             s.Count,
		Sum:               nullable(s.Sum),
		Mean:              nullable(s.Mean),
		Variance:          nullable(s.Variance),
		StandardDeviation: nullable(s.StandardDeviation),
	}
}

// exportFormats maps the export format parameter to a content type and
// file extension.
var exportFormats = map[string]struct {
	contentType string
	ext         string
}{
	"csv":  {"text/csv; charset=utf-8", "csv"},
	"tsv":  {"text/tab-separated-values; charset=utf-8", "tsv"},
	"html": {"text/html; charset=utf-8", "html"},
}

// attachmentName builds a download file name from a table name.
func attachmentName(name, ext string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if clean == "" {
		clean = "table"
	}
	return clean + "." + ext
}
