package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := create(t, s, "t", "name,v\na,2\nb,4\nc,4\nd,4\ne,5\nf,5\ng,7\nh,9")

	rec := do(t, s, http.MethodGet, "/api/tables/"+id+"/stats?axis=column&ref=v", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[struct {
		Axis    string `json:"axis"`
		Summary struct {
			Count             int      `json:"count"`
			Sum               *float64 `json:"sum"`
			Mean              *float64 `json:"mean"`
			Variance          *float64 `json:"variance"`
			StandardDeviation *float64 `json:"standardDeviation"`
		} `json:"summary"`
		ZScores []*float64 `json:"zScores"`
	}](t, rec)

	assert.Equal(t, "column", body.Axis)
	assert.Equal(t, 8, body.Summary.Count)
	require.NotNil(t, body.Summary.Mean)
	assert.InDelta(t, 5.0, *body.Summary.Mean, 1e-9)
	require.NotNil(t, body.Summary.StandardDeviation)
	assert.InDelta(t, 2.0, *body.Summary.StandardDeviation, 1e-9)
	require.Len(t, body.ZScores, 8)
	assert.InDelta(t, -1.5, *body.ZScores[0], 1e-9)
}

func TestStats_NonNumericIsNull(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := create(t, s, "t", "name,v\na,1\nb,x")

	rec := do(t, s, http.MethodGet, "/api/tables/"+id+"/stats?ref=v", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"mean":null`)
}

func TestStats_Errors(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := create(t, s, "t", "name,v\na,1")

	tests := []struct {
		query  string
		status int
	}{
		{"", http.StatusBadRequest},
		{"?ref=v&axis=diagonal", http.StatusBadRequest},
		{"?ref=nope", http.StatusNotFound},
		{"?ref=5&axis=row", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := do(t, s, http.MethodGet, "/api/tables/"+id+"/stats"+tt.query, nil)
		assert.Equal(t, tt.status, rec.Code, "query %q: %s", tt.query, rec.Body.String())
	}
}

func TestRollingMean_ReadOnly(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := create(t, s, "t", "1,2,3,4,5")

	rec := do(t, s, http.MethodGet, "/api/tables/"+id+"/rolling?axis=row&ref=0&neighbors=2", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[struct {
		Neighbors int        `json:"neighbors"`
		Smoothed  []*float64 `json:"smoothed"`
	}](t, rec)
	assert.Equal(t, 2, body.Neighbors)
	require.Len(t, body.Smoothed, 5)
	assert.InDelta(t, 2.0, *body.Smoothed[0], 1e-9)
	assert.InDelta(t, 3.0, *body.Smoothed[2], 1e-9)

	assert.Equal(t, [][]any{{1.0, 2.0, 3.0, 4.0, 5.0}}, getTable(t, s, id).Data)

	rec = do(t, s, http.MethodGet, "/api/tables/"+id+"/rolling?axis=row&ref=0&neighbors=-1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestZip(t *testing.T) {
	s := newTestServer(t, testConfig())
	id := create(t, s, "t", "name,score\nann,3\nbob,5")

	rec := do(t, s, http.MethodGet, "/api/tables/"+id+"/zip?refs=name,score", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[struct {
		Tuples [][]any `json:"tuples"`
	}](t, rec)
	assert.Equal(t, [][]any{{"ann", 3.0}, {"bob", 5.0}}, body.Tuples)

	rec = do(t, s, http.MethodGet, "/api/tables/"+id+"/zip?axis=row&refs=ann,bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body = decode[struct {
		Tuples [][]any `json:"tuples"`
	}](t, rec)
	assert.Equal(t, [][]any{{"ann", "bob"}, {3.0, 5.0}}, body.Tuples)

	rec = do(t, s, http.MethodGet, "/api/tables/"+id+"/zip?refs=name", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL002", decode[ErrorResponse](t, rec).Code)
}
