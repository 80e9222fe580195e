package table

// stats.go provides descriptive statistics over a row or column.
//
// The functions take plain float64 slices. Non-numeric cells extracted
// from a table become NaN and propagate through every result; filtering
// them out is the caller's job.

import (
	"fmt"
	"math"
)

// Sum returns the sum of data.
func Sum(data []float64) float64 {
	var total float64
	for _, x := range data {
		total += x
	}
	return total
}

// Mean returns the arithmetic mean. An empty slice yields NaN.
func Mean(data []float64) float64 {
	return Sum(data) / float64(len(data))
}

// Variance returns the population variance: the mean of squared
// deviations, divided by N.
func Variance(data []float64) float64 {
	mean := Mean(data)
	var sq float64
	for _, x := range data {
		d := x - mean
		sq += d * d
	}
	return sq / float64(len(data))
}

// StandardDeviation returns the population standard deviation.
func StandardDeviation(data []float64) float64 {
	return math.Sqrt(Variance(data))
}

// ZScores returns (x - mean) / stddev for every element.
func ZScores(data []float64) []float64 {
	mean := Mean(data)
	sd := StandardDeviation(data)
	out := make([]float64, len(data))
	for i, x := range data {
		out[i] = (x - mean) / sd
	}
	return out
}

// RollingMean returns a centered moving average. The window at i covers
// [i-neighbors, i+neighbors] clipped to the data, so boundary windows are
// narrower; nothing is padded or wrapped.
func RollingMean(data []float64, neighbors int) []float64 {
	if neighbors < 0 {
		neighbors = 0
	}
	out := make([]float64, len(data))
	for i := range data {
		lo := max(0, i-neighbors)
		hi := min(len(data)-1, i+neighbors)
		out[i] = Mean(data[lo : hi+1])
	}
	return out
}

// Axis selects rows or columns for the table-level statistics helpers.
type Axis int

const (
	AxisColumn Axis = iota
	AxisRow
)

func (a Axis) String() string {
	if a == AxisRow {
		return "row"
	}
	return "column"
}

// ParseAxis converts "row" or "column" (empty means column).
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "", "column", "col", "columns":
		return AxisColumn, nil
	case "row", "rows":
		return AxisRow, nil
	default:
		return AxisColumn, fmt.Errorf("%w: unknown axis %q", ErrInvalidRef, s)
	}
}

// Summary holds the aggregate statistics of one row or column.
type Summary struct {
	Count             int     `json:"count"`
	Sum               float64 `json:"sum"`
	Mean              float64 `json:"mean"`
	Variance          float64 `json:"variance"`
	StandardDeviation float64 `json:"standardDeviation"`
}

// Summarize computes a Summary of data.
func Summarize(data []float64) Summary {
	return Summary{
		Count:             len(data),
		Sum:               Sum(data),
		Mean:              Mean(data),
		Variance:          Variance(data),
		StandardDeviation: StandardDeviation(data),
	}
}

// Numbers extracts a row or column as float64s. Cells that are not
// numeric become NaN.
func (t *Table) Numbers(axis Axis, ref Ref) ([]float64, error) {
	var cells []Value
	var err error
	if axis == AxisRow {
		cells, err = t.Row(ref)
	} else {
		cells, err = t.Column(ref)
	}
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(cells))
	for i, v := range cells {
		out[i], _ = v.Float()
	}
	return out, nil
}

// Describe summarizes a row or column.
func (t *Table) Describe(axis Axis, ref Ref) (Summary, error) {
	data, err := t.Numbers(axis, ref)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(data), nil
}

// ZScores returns the z-scores of a row or column.
func (t *Table) ZScores(axis Axis, ref Ref) ([]float64, error) {
	data, err := t.Numbers(axis, ref)
	if err != nil {
		return nil, err
	}
	return ZScores(data), nil
}

// RowRollingMean smooths a row. With overwrite the smoothed values
// replace the row's cells.
func (t *Table) RowRollingMean(ref Ref, neighbors int, overwrite bool) ([]float64, error) {
	return t.rollingMean(AxisRow, ref, neighbors, overwrite)
}

// ColumnRollingMean smooths a column. With overwrite the smoothed values
// replace the column's cells.
func (t *Table) ColumnRollingMean(ref Ref, neighbors int, overwrite bool) ([]float64, error) {
	return t.rollingMean(AxisColumn, ref, neighbors, overwrite)
}

func (t *Table) rollingMean(axis Axis, ref Ref, neighbors int, overwrite bool) ([]float64, error) {
	data, err := t.Numbers(axis, ref)
	if err != nil {
		return nil, err
	}
	smoothed := RollingMean(data, neighbors)
	if !overwrite {
		return smoothed, nil
	}

	if axis == AxisRow {
		err = t.SetRow(ref, Numbers(smoothed...))
	} else {
		err = t.SetColumn(ref, Numbers(smoothed...))
	}
	if err != nil {
		return nil, err
	}
	return smoothed, nil
}
