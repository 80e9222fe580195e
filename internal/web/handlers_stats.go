package web

import (
	"net/http"

	"github.com/JonMunkholm/tabular/internal/table"
)

type statsResponse struct {
	Axis    string      `json:"axis"`
	Ref     string      `json:"ref"`
	Summary summaryJSON `json:"summary"`
	ZScores []*float64  `json:"zScores"`
}

// handleStats summarizes a row or column. Cells that are not numbers
// count as NaN, so statistics they touch come back as null.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	axis, err := queryAxis(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ref, err := queryRef(r, "ref")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var data []float64
	err = s.service.View(tableID(r), func(t *table.Table) error {
		data, err = t.Numbers(axis, ref)
		return err
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, statsResponse{
		Axis:    axis.String(),
		Ref:     ref.String(),
		Summary: newSummaryJSON(table.Summarize(data)),
		ZScores: nullables(table.ZScores(data)),
	})
}

// handleRollingMean computes a rolling mean without changing the table.
func (s *Server) handleRollingMean(w http.ResponseWriter, r *http.Request) {
	axis, err := queryAxis(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	ref, err := queryRef(r, "ref")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	neighbors, err := parseIntParam(r, "neighbors", s.cfg.Table.RollingNeighbors)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var smoothed []float64
	err = s.service.View(tableID(r), func(t *table.Table) error {
		if axis == table.AxisRow {
			smoothed, err = t.RowRollingMean(ref, neighbors, false)
		} else {
			smoothed, err = t.ColumnRollingMean(ref, neighbors, false)
		}
		return err
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"axis":      axis.String(),
		"ref":       ref.String(),
		"neighbors": neighbors,
		"smoothed":  nullables(smoothed),
	})
}

// handleZip pairs up the values of several rows or columns.
func (s *Server) handleZip(w http.ResponseWriter, r *http.Request) {
	axis, err := queryAxis(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	refs := table.ParseRefs(r.URL.Query().Get("refs"))

	var tuples [][]table.Value
	err = s.service.View(tableID(r), func(t *table.Table) error {
		if axis == table.AxisRow {
			tuples, err = t.ZipRows(refs...)
		} else {
			tuples, err = t.ZipColumns(refs...)
		}
		return err
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"axis":   axis.String(),
		"tuples": tuples,
	})
}
