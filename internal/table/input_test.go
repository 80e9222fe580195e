package table

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DelimitedTextRoundTrip(t *testing.T) {
	tbl, err := New(DelimitedText{Text: "a,b,c\n1,2,3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, tbl.Headers())
	assert.Equal(t, [][]Value{Numbers(1, 2, 3)}, tbl.Rows())
	assert.Equal(t, "a,b,c\n1,2,3", tbl.CSV(ExportOptions{}))
}

func TestNew_WidthIsWidestRow(t *testing.T) {
	tbl, err := New(RowArray{Rows: []any{
		[]any{1},
		[]any{1, 2, 3},
		[]any{1, 2},
	}})
	require.NoError(t, err)

	assert.Equal(t, 3, tbl.NumColumns())
	row, err := tbl.Row(Pos(0))
	require.NoError(t, err)
	assert.Equal(t, []Value{Number(1), Empty(), Empty()}, row)
	for _, r := range tbl.Rows() {
		assert.Len(t, r, 3)
	}
}

func TestNew_HeaderDetection(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		wantHeaders []string
		wantRows    int
	}{
		{
			name:     "numeric first line is data",
			in:       DelimitedText{Text: "1,2\n3,4"},
			wantRows: 2,
		},
		{
			name:        "word-only first line is headers",
			in:          DelimitedText{Text: "x,y\n3,4"},
			wantHeaders: []string{"x", "y"},
			wantRows:    1,
		},
		{
			// All-word data is taken as headers unless told otherwise.
			name:        "word-only data is misread",
			in:          DelimitedText{Text: "alpha,beta\ngamma,delta"},
			wantHeaders: []string{"alpha", "beta"},
			wantRows:    1,
		},
		{
			name:     "explicit absent keeps every line",
			in:       ConfigObject{Config: Config{HasHeaders: HeadersAbsent}, Text: "alpha,beta\ngamma,delta"},
			wantRows: 2,
		},
		{
			name:        "explicit present consumes numeric line",
			in:          ConfigObject{Config: Config{HasHeaders: HeadersPresent}, Text: "1,2\n3,4"},
			wantHeaders: []string{"1", "2"},
			wantRows:    1,
		},
		{
			name:     "arrays never guess",
			in:       RowArray{Rows: []any{[]any{"x", "y"}, []any{1, 2}}},
			wantRows: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.in)
			require.NoError(t, err)
			if tt.wantHeaders == nil {
				assert.False(t, tbl.HasHeaders())
			} else {
				assert.Equal(t, tt.wantHeaders, tbl.Headers())
			}
			assert.Equal(t, tt.wantRows, tbl.NumRows())
		})
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      Input
		wantErr error
	}{
		{"duplicate detected headers", DelimitedText{Text: "a,a\nx,1"}, ErrDuplicateColumn},
		{"unterminated quote", DelimitedText{Text: `"a,b`}, ErrParse},
		{
			"header map size",
			ConfigObject{Config: Config{HeaderMap: map[string]int{"x": 0}}, Rows: []any{[]any{1, 2}}},
			ErrHeaderMismatch,
		},
		{
			"header map out of range",
			ConfigObject{Config: Config{HeaderMap: map[string]int{"x": 0, "y": 5}}, Rows: []any{[]any{1, 2}}},
			ErrHeaderMismatch,
		},
		{
			"list and map headers",
			ConfigObject{Config: Config{Headers: []string{"x"}, HeaderMap: map[string]int{"x": 0}}},
			ErrHeaderMismatch,
		},
		{
			"row key position past width",
			ConfigObject{Config: Config{RowKeyColumn: Pos(5)}, Rows: []any{[]any{1, 2}}},
			ErrRowKeyColumn,
		},
		{
			"row key unknown name",
			ConfigObject{Config: Config{RowKeyColumn: Name("nope"), Headers: []string{"a"}}, Rows: []any{[]any{1}}},
			ErrRowKeyColumn,
		},
		{
			"two payloads",
			ConfigObject{Text: "a,b", Values: []any{1}},
			ErrUnrecognizedInput,
		},
		{
			"unsupported cell",
			RowArray{Rows: []any{[]any{struct{}{}}}},
			ErrPayloadShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := New(tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, tbl)
		})
	}
}

func TestNew_HeaderMapAndRowKey(t *testing.T) {
	tbl, err := New(ConfigObject{
		Config: Config{
			HeaderMap:    map[string]int{"score": 1, "name": 0},
			RowKeyColumn: Name("name"),
		},
		Rows: []any{[]any{"alice", 3}, []any{"bob", 5}},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "score"}, tbl.Headers())
	assert.Equal(t, 0, tbl.RowKeyColumn())

	v, err := tbl.Cell(Name("bob"), Name("score"))
	require.NoError(t, err)
	assert.Equal(t, Number(5), v)
}

func TestBuild_HeaderMapWithoutRows(t *testing.T) {
	tbl, err := Build(map[string]any{"headers": map[string]any{"a": float64(0), "b": float64(1)}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.Headers())
	assert.Equal(t, 2, tbl.NumColumns())
	assert.Equal(t, 0, tbl.NumRows())

	require.NoError(t, tbl.SetCell(Name("x"), Name("b"), Number(1)))
	assert.Equal(t, [][]Value{{String("x"), Number(1)}}, tbl.Rows())
}

func TestNew_NilIsEmpty(t *testing.T) {
	tbl, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.NumRows())
	assert.Equal(t, 0, tbl.NumColumns())
	assert.Equal(t, "", tbl.CSV(ExportOptions{}))
}

func TestBuild_ConfigWithValues(t *testing.T) {
	tbl, err := Build(map[string]any{"headers": []any{"x", "y"}}, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "y"}, tbl.Headers())
	assert.Equal(t, [][]Value{Numbers(1, 2)}, tbl.Rows())
}

func TestBuild_Count(t *testing.T) {
	t.Run("horizontal", func(t *testing.T) {
		tbl, err := Build(map[string]any{"count": true, "rows": []any{"a", "b", "a", nil}})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, tbl.Headers())
		assert.Equal(t, [][]Value{Numbers(2, 1)}, tbl.Rows())
	})

	t.Run("vertical", func(t *testing.T) {
		tbl, err := Build(map[string]any{
			"count":   "vertical",
			"headers": []any{"value", "n"},
			"rows":    []any{[]any{"a", "b"}, []any{"a"}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"value", "n"}, tbl.Headers())
		assert.Equal(t, [][]Value{
			{String("a"), Number(2)},
			{String("b"), Number(1)},
		}, tbl.Rows())
	})

	t.Run("trailing values", func(t *testing.T) {
		tbl, err := Build(map[string]any{"count": true}, "x", "x", 3)
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "3"}, tbl.Headers())
		assert.Equal(t, [][]Value{Numbers(2, 1)}, tbl.Rows())
	})

	t.Run("nothing to count", func(t *testing.T) {
		tbl, err := Build(map[string]any{"count": true})
		require.NoError(t, err)
		assert.Equal(t, 0, tbl.NumRows())
		assert.Equal(t, 0, tbl.NumColumns())
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		args []any
		want Input
	}{
		{"no args", nil, ConfigObject{}},
		{"text", []any{"a,b"}, DelimitedText{Text: "a,b"}},
		{"number", []any{5.0}, DelimitedText{Text: "5"}},
		{"int", []any{7}, DelimitedText{Text: "7"}},
		{"rows", []any{[]any{[]any{1, 2}}}, RowArray{Rows: []any{[]any{1, 2}}}},
		{"typed rows", []any{[][]string{{"a"}}}, RowArray{Rows: []any{[]string{"a"}}}},
		{"scalars", []any{1, "b", 3}, ScalarList{Values: []any{1, "b", 3}}},
		{"config", []any{map[string]any{"rows": "a,b"}}, ConfigObject{Text: "a,b"}},
		{
			"config with values",
			[]any{map[string]any{"hasHeaders": false}, 1, 2},
			ConfigObject{Config: Config{HasHeaders: HeadersAbsent}, Values: []any{1, 2}},
		},
		{
			"config with one list of values",
			[]any{map[string]any{}, []any{1, 2}},
			ConfigObject{Values: []any{1, 2}},
		},
		{"typed input passes through", []any{ScalarList{Values: []any{1}}}, ScalarList{Values: []any{1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Classify(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []any
		wantErr error
	}{
		{"map not first", []any{1, map[string]any{}}, ErrUnrecognizedInput},
		{"rows and values", []any{map[string]any{"rows": "a"}, 1}, ErrUnrecognizedInput},
		{"nested list in scalars", []any{1, []any{2}}, ErrUnrecognizedInput},
		{"unknown single arg", []any{struct{}{}}, ErrUnrecognizedInput},
		{"bad header shape", []any{map[string]any{"headers": 5}}, ErrHeaderMismatch},
		{"bad header position", []any{map[string]any{"headers": map[string]any{"a": 1.5}}}, ErrHeaderMismatch},
		{"bad count", []any{map[string]any{"count": "diagonal"}}, ErrUnrecognizedInput},
		{"bad hasHeaders", []any{map[string]any{"hasHeaders": "yes"}}, ErrUnrecognizedInput},
		{"bad row key", []any{map[string]any{"rowKeyColumn": true}}, ErrRowKeyColumn},
		{"bad format", []any{map[string]any{"format": "xml"}}, ErrUnrecognizedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Classify(tt.args...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClassify_HeaderMapFromJSONNumbers(t *testing.T) {
	in, err := Classify(map[string]any{
		"headers":      map[string]any{"a": float64(1), "b": float64(0)},
		"rowKeyColumn": "a",
		"rows":         []any{[]any{"x", "y"}},
	})
	require.NoError(t, err)

	tbl, err := New(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, tbl.Headers())
	assert.Equal(t, 1, tbl.RowKeyColumn())
}

type stubFetcher struct {
	body string
	err  error
	url  string
}

func (f *stubFetcher) Fetch(_ context.Context, url string) (io.ReadCloser, error) {
	f.url = url
	if f.err != nil {
		return nil, f.err
	}
	return io.NopCloser(strings.NewReader(f.body)), nil
}

func TestFromURL(t *testing.T) {
	f := &stubFetcher{body: "city,pop\n\"New, York\",8\n"}
	tbl, err := FromURL(context.Background(), f, "http://example.test/data.csv", Config{})
	require.NoError(t, err)

	assert.Equal(t, "http://example.test/data.csv", f.url)
	assert.Equal(t, []string{"city", "pop"}, tbl.Headers())
	v, err := tbl.Cell(Pos(0), Name("city"))
	require.NoError(t, err)
	assert.Equal(t, String("New, York"), v)
}

func TestFromURL_FetchError(t *testing.T) {
	boom := errors.New("boom")
	_, err := FromURL(context.Background(), &stubFetcher{err: boom}, "http://example.test", Config{})
	assert.ErrorIs(t, err, boom)
}

func TestFromReader_Empty(t *testing.T) {
	tbl, err := FromReader(strings.NewReader(""), Config{Headers: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, tbl.Headers())
	assert.Equal(t, 0, tbl.NumRows())
}
