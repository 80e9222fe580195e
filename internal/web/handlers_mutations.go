package web

import (
	"fmt"
	"net/http"

	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/go-chi/chi/v5"
)

// mutationResponse is returned by every handler that changes a table.
type mutationResponse struct {
	Table    core.TableInfo `json:"table"`
	Row      *int           `json:"row,omitempty"`
	Column   *int           `json:"column,omitempty"`
	Smoothed []*float64     `json:"smoothed,omitempty"`
}

// update runs fn against the table named in the path and writes the
// resulting description. fn may fill the response's extra fields.
func (s *Server) update(w http.ResponseWriter, r *http.Request, status int, fn func(t *table.Table, resp *mutationResponse) error) {
	var resp mutationResponse
	ctx := withRequestMetadata(r.Context(), r)
	info, err := s.service.Update(ctx, tableID(r), func(t *table.Table) error {
		return fn(t, &resp)
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp.Table = info
	writeJSON(w, r, status, resp)
}

// handleAddRow appends a row given as a list of values or a record keyed
// by column name.
func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Values []any          `json:"values"`
		Record map[string]any `json:"record"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if (req.Values == nil) == (req.Record == nil) {
		s.respondError(w, r, fmt.Errorf("%w: give exactly one of values or record", errBadRequest))
		return
	}

	s.update(w, r, http.StatusCreated, func(t *table.Table, resp *mutationResponse) error {
		var pos int
		if req.Record != nil {
			rec, err := recordOf(req.Record)
			if err != nil {
				return err
			}
			if pos, err = t.AddRecord(rec); err != nil {
				return err
			}
		} else {
			values, err := valuesOf(req.Values)
			if err != nil {
				return err
			}
			if pos, err = t.AddRow(values...); err != nil {
				return err
			}
		}
		resp.Row = &pos
		return nil
	})
}

// handleSetRow assigns data to the row in the path. With ?create=true a
// missing row is created.
func (s *Server) handleSetRow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data any `json:"data"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	ref := table.ParseRef(chi.URLParam(r, "row"))
	create := parseBoolParam(r, "create", false)

	s.update(w, r, http.StatusOK, func(t *table.Table, resp *mutationResponse) error {
		if create {
			return t.SetRowOrCreate(ref, req.Data)
		}
		return t.SetRow(ref, req.Data)
	})
}

// handleSetCell writes or appends one cell, creating its row and column
// as needed.
func (s *Server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Row    any  `json:"row"`
		Column any  `json:"column"`
		Value  any  `json:"value"`
		Append bool `json:"append"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	row, err := refOf(req.Row, "row")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	col, err := refOf(req.Column, "column")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	v, err := table.ValueOf(req.Value)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.update(w, r, http.StatusOK, func(t *table.Table, resp *mutationResponse) error {
		if req.Append {
			return t.AppendCell(row, col, v)
		}
		return t.SetCell(row, col, v)
	})
}

// handleAddColumn appends a column, optionally named and filled.
func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Data []any  `json:"data"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	data, err := valuesOf(req.Data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.update(w, r, http.StatusCreated, func(t *table.Table, resp *mutationResponse) error {
		pos, err := t.AddColumn(table.ColumnSpec{Name: req.Name, Data: data})
		if err != nil {
			return err
		}
		resp.Column = &pos
		return nil
	})
}

// handleSetColumn assigns data to the column in the path. With
// ?create=true a missing column is created.
func (s *Server) handleSetColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Data any `json:"data"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	ref := table.ParseRef(chi.URLParam(r, "column"))
	create := parseBoolParam(r, "create", false)

	s.update(w, r, http.StatusOK, func(t *table.Table, resp *mutationResponse) error {
		if create {
			return t.SetColumnOrCreate(ref, req.Data)
		}
		return t.SetColumn(ref, req.Data)
	})
}

// handleSetHeaders appends named columns, renames columns by position, or
// replaces every name when given a map.
func (s *Server) handleSetHeaders(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Headers   []string       `json:"headers"`
		Rename    []string       `json:"rename"`
		HeaderMap map[string]int `json:"headerMap"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	given := 0
	for _, set := range []bool{req.Headers != nil, req.Rename != nil, req.HeaderMap != nil} {
		if set {
			given++
		}
	}
	if given != 1 {
		s.respondError(w, r, fmt.Errorf("%w: give exactly one of headers, rename or headerMap", errBadRequest))
		return
	}

	s.update(w, r, http.StatusOK, func(t *table.Table, resp *mutationResponse) error {
		switch {
		case req.HeaderMap != nil:
			return t.SetHeaderMap(req.HeaderMap)
		case req.Rename != nil:
			return t.RenameColumns(req.Rename)
		}
		return t.SetHeaders(req.Headers)
	})
}

type sortRequest struct {
	Keys    []any `json:"keys"`
	Reverse bool  `json:"reverse"`
}

// handleSortRows orders rows by key columns, the row-key column when
// none are given.
func (s *Server) handleSortRows(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	keys, err := refsOf(req.Keys, "sort key")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.update(w, r, http.StatusOK, func(t *table.Table, resp *mutationResponse) error {
		if err := t.SortRows(keys...); err != nil {
			return err
		}
		if req.Reverse {
			// A comparator that sees every row as equal keeps the order,
			// so only the reversal applies.
			t.SortRowsFunc(func(a, b []table.Value) int { return 0 }, table.SortConfig{Reverse: true})
		}
		return nil
	})
}

// handleSortColumns moves the key columns to the front and orders the
// rest by name.
func (s *Server) handleSortColumns(w http.ResponseWriter, r *http.Request) {
	var req sortRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	keys, err := refsOf(req.Keys, "sort key")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.Reverse {
		s.respondError(w, r, fmt.Errorf("%w: reverse is only supported for rows", errBadRequest))
		return
	}

	s.update(w, r, http.StatusOK, func(t *table.Table, resp *mutationResponse) error {
		return t.SortColumns(keys...)
	})
}

// handleApplyRollingMean replaces a row or column with its rolling mean.
func (s *Server) handleApplyRollingMean(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Axis      string `json:"axis"`
		Ref       any    `json:"ref"`
		Neighbors *int   `json:"neighbors"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	axis, err := table.ParseAxis(req.Axis)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ref, err := refOf(req.Ref, "ref")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	neighbors := s.cfg.Table.RollingNeighbors
	if req.Neighbors != nil {
		if *req.Neighbors < 0 {
			s.respondError(w, r, fmt.Errorf("%w: neighbors must be non-negative", errBadRequest))
			return
		}
		neighbors = *req.Neighbors
	}

	s.update(w, r, http.StatusOK, func(t *table.Table, resp *mutationResponse) error {
		var smoothed []float64
		var err error
		if axis == table.AxisRow {
			smoothed, err = t.RowRollingMean(ref, neighbors, true)
		} else {
			smoothed, err = t.ColumnRollingMean(ref, neighbors, true)
		}
		if err != nil {
			return err
		}
		resp.Smoothed = nullables(smoothed)
		return nil
	})
}
