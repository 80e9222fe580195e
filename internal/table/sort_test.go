package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareValues(t *testing.T) {
	assert.Negative(t, CompareValues(Number(2), Number(10)))
	assert.Positive(t, CompareValues(String("b"), String("a")))
	assert.Negative(t, CompareValues(String("apple"), String("Banana")))
	assert.Zero(t, CompareValues(String("x"), String("x")))
}

func TestSortRows_SecondKeyBreaksTies(t *testing.T) {
	tbl, err := New(ConfigObject{
		Config: Config{Headers: []string{"a", "b"}},
		Rows:   []any{[]any{2, "a"}, []any{1, "z"}, []any{1, "a"}},
	})
	require.NoError(t, err)

	require.NoError(t, tbl.SortRows(Name("a"), Name("b")))
	assert.Equal(t, [][]Value{
		{Number(1), String("a")},
		{Number(1), String("z")},
		{Number(2), String("a")},
	}, tbl.Rows())
}

func TestSortRows_DefaultsToRowKey(t *testing.T) {
	tbl, err := New(DelimitedText{Text: "name,score\ncarol,1\nalice,2\nbob,3"})
	require.NoError(t, err)

	require.NoError(t, tbl.SortRows())
	col, _ := tbl.Column(Name("name"))
	assert.Equal(t, Values("alice", "bob", "carol"), col)

	assert.ErrorIs(t, tbl.SortRows(Name("nope")), ErrColumnNotFound)
}

func TestSortRows_NumericOrder(t *testing.T) {
	tbl, err := New(RowArray{Rows: []any{10, 9, 100}})
	require.NoError(t, err)

	require.NoError(t, tbl.SortRows(Pos(0)))
	col, _ := tbl.Column(Pos(0))
	assert.Equal(t, Numbers(9, 10, 100), col)
}

func TestSortRowsFunc_Reverse(t *testing.T) {
	tbl, err := New(RowArray{Rows: []any{1, 3, 2}})
	require.NoError(t, err)

	tbl.SortRowsFunc(func(a, b []Value) int { return CompareValues(a[0], b[0]) }, SortConfig{Reverse: true})
	col, _ := tbl.Column(Pos(0))
	assert.Equal(t, Numbers(3, 2, 1), col)
}

func TestSortRecordsFunc(t *testing.T) {
	tbl, err := New(DelimitedText{Text: "name,score\nalice,3\nbob,5\ncarol,4"})
	require.NoError(t, err)

	tbl.SortRecordsFunc(func(a, b map[string]Value) int {
		return CompareValues(b["score"], a["score"])
	}, SortConfig{})
	col, _ := tbl.Column(Name("name"))
	assert.Equal(t, Values("bob", "carol", "alice"), col)
}

func TestSortColumns(t *testing.T) {
	tbl, err := New(ConfigObject{
		Config: Config{Headers: []string{"c", "a", "", "b"}},
		Rows:   []any{[]any{3, 1, "u", 2}},
	})
	require.NoError(t, err)

	require.NoError(t, tbl.SortColumns(Name("b"), Name("b")))
	assert.Equal(t, []string{"b", "a", "c", ""}, tbl.Headers())
	assert.Equal(t, [][]Value{{Number(2), Number(1), Number(3), String("u")}}, tbl.Rows())

	// The row key follows its column.
	assert.Equal(t, 2, tbl.RowKeyColumn())

	assert.ErrorIs(t, tbl.SortColumns(Name("zz")), ErrColumnNotFound)
}

func TestSortColumnsFunc(t *testing.T) {
	tbl, err := New(DelimitedText{Text: "bb,a,ccc\n1,2,3"})
	require.NoError(t, err)

	tbl.SortColumnsFunc(func(name string, _ []Value) string {
		return strings.Repeat("z", 3-len(name))
	})
	assert.Equal(t, []string{"ccc", "bb", "a"}, tbl.Headers())
	assert.Equal(t, [][]Value{Numbers(3, 1, 2)}, tbl.Rows())

	r, err := tbl.ResolveColumn(Name("a"))
	require.NoError(t, err)
	assert.Equal(t, 2, r)
}
