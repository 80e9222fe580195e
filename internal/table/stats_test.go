package table

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarianceAndStandardDeviation(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.Equal(t, 40.0, Sum(data))
	assert.Equal(t, 5.0, Mean(data))
	assert.Equal(t, 4.0, Variance(data))
	assert.Equal(t, 2.0, StandardDeviation(data))
	assert.InDeltaSlice(t, []float64{-1.5, -0.5, -0.5, -0.5, 0, 0, 1, 2}, ZScores(data), 1e-12)
}

func TestMean_EmptyIsNaN(t *testing.T) {
	assert.True(t, math.IsNaN(Mean(nil)))
	assert.True(t, math.IsNaN(Variance(nil)))
}

func TestRollingMean(t *testing.T) {
	tests := []struct {
		name      string
		data      []float64
		neighbors int
		want      []float64
	}{
		{"one neighbor", []float64{1, 2, 3, 4, 5}, 1, []float64{1.5, 2, 3, 4, 4.5}},
		{"zero neighbors", []float64{1, 2, 3}, 0, []float64{1, 2, 3}},
		{"window wider than data", []float64{1, 2, 3}, 5, []float64{2, 2, 2}},
		{"empty", nil, 2, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, RollingMean(tt.data, tt.neighbors), 1e-12)
		})
	}
}

func TestTableStatistics(t *testing.T) {
	tbl, err := New(DelimitedText{Text: "x,y\n1,a\n2,b\n3,c\n4,d\n5,e"})
	require.NoError(t, err)

	s, err := tbl.Describe(AxisColumn, Name("x"))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 15.0, s.Sum)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 2.0, s.Variance)

	row, err := tbl.Numbers(AxisRow, Pos(0))
	require.NoError(t, err)
	require.Len(t, row, 2)
	assert.Equal(t, 1.0, row[0])
	assert.True(t, math.IsNaN(row[1]))

	_, err = tbl.Describe(AxisColumn, Name("z"))
	assert.ErrorIs(t, err, ErrColumnNotFound)
}

func TestColumnRollingMean_Overwrite(t *testing.T) {
	tbl, err := New(DelimitedText{Text: "x\n1\n2\n3\n4\n5"})
	require.NoError(t, err)

	smoothed, err := tbl.ColumnRollingMean(Name("x"), 1, false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 2, 3, 4, 4.5}, smoothed)

	col, _ := tbl.Column(Name("x"))
	assert.Equal(t, Numbers(1, 2, 3, 4, 5), col)

	_, err = tbl.ColumnRollingMean(Name("x"), 1, true)
	require.NoError(t, err)
	col, _ = tbl.Column(Name("x"))
	assert.Equal(t, Numbers(1.5, 2, 3, 4, 4.5), col)
}

func TestRowRollingMean_Overwrite(t *testing.T) {
	tbl, err := New(RowArray{Rows: []any{[]any{2, 4, 6}}})
	require.NoError(t, err)

	_, err = tbl.RowRollingMean(Pos(0), 1, true)
	require.NoError(t, err)
	row, _ := tbl.Row(Pos(0))
	assert.Equal(t, Numbers(3, 4, 5), row)
}

func TestParseAxis(t *testing.T) {
	a, err := ParseAxis("row")
	require.NoError(t, err)
	assert.Equal(t, AxisRow, a)

	a, err = ParseAxis("")
	require.NoError(t, err)
	assert.Equal(t, AxisColumn, a)

	_, err = ParseAxis("diagonal")
	assert.Error(t, err)
}
