package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/JonMunkholm/tabular/internal/table"
)

// createTableRequest builds a table from dynamically typed input. Input
// is a single argument; Args passes several, as in a configuration
// object followed by row values.
type createTableRequest struct {
	Name  string `json:"name"`
	Input any    `json:"input"`
	Args  []any  `json:"args"`
}

type fetchTableRequest struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Format       string `json:"format"`
	HasHeaders   *bool  `json:"hasHeaders"`
	RowKeyColumn any    `json:"rowKeyColumn"`
}

// tableResponse is a stored table with its contents.
type tableResponse struct {
	core.TableInfo
	RowKeyColumn int             `json:"rowKeyColumn"`
	Data         [][]table.Value `json:"data"`
}

// handleListTables returns every stored table.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.service.List())
}

// handleCreateTable builds a table from a JSON payload.
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	var args []any
	switch {
	case req.Args != nil && req.Input != nil:
		s.respondError(w, r, fmt.Errorf("%w: give either input or args", errBadRequest))
		return
	case req.Args != nil:
		args = req.Args
	case req.Input != nil:
		args = []any{req.Input}
	}

	ctx := withRequestMetadata(r.Context(), r)
	info, err := s.service.CreateFromInput(ctx, req.Name, args...)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, info)
}

// handleImportTable builds a table from a delimited-text request body.
func (s *Server) handleImportTable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	format, err := table.ParseFormat(q.Get("format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	mode, err := queryHeaderMode(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	cfg := table.Config{Format: format, HasHeaders: mode}
	if key := q.Get("rowKeyColumn"); key != "" {
		cfg.RowKeyColumn = table.ParseRef(key)
	}

	ctx := withRequestMetadata(r.Context(), r)
	info, err := s.service.CreateFromReader(ctx, q.Get("name"), r.Body, cfg)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, info)
}

// handleFetchTable builds a table from delimited text at a remote URL.
func (s *Server) handleFetchTable(w http.ResponseWriter, r *http.Request) {
	var req fetchTableRequest
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	if req.URL == "" {
		s.respondError(w, r, fmt.Errorf("%w: url is required", errBadRequest))
		return
	}

	format, err := table.ParseFormat(req.Format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	cfg := table.Config{Format: format, HasHeaders: headerMode(req.HasHeaders)}
	if req.RowKeyColumn != nil {
		if cfg.RowKeyColumn, err = refOf(req.RowKeyColumn, "rowKeyColumn"); err != nil {
			s.respondError(w, r, err)
			return
		}
	}

	ctx := withRequestMetadata(r.Context(), r)
	info, err := s.service.CreateFromURL(ctx, req.Name, req.URL, cfg)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, info)
}

// handleGetTable returns a table's description and cells. With
// ?records=true the rows are keyed by column name instead.
func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	id := tableID(r)
	records := parseBoolParam(r, "records", false)

	var (
		resp    tableResponse
		recResp []map[string]table.Value
	)
	err := s.service.View(id, func(t *table.Table) error {
		if records {
			recResp = t.Records()
			return nil
		}
		resp.RowKeyColumn = t.RowKeyColumn()
		resp.Data = t.Rows()
		return nil
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if records {
		writeJSON(w, r, http.StatusOK, recResp)
		return
	}

	info, err := s.service.Info(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	resp.TableInfo = info
	writeJSON(w, r, http.StatusOK, resp)
}

// handleDeleteTable removes a table.
func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	ctx := withRequestMetadata(r.Context(), r)
	if err := s.service.Delete(ctx, tableID(r)); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleExport serializes a table as CSV, TSV or an HTML fragment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id := tableID(r)
	q := r.URL.Query()

	name := q.Get("format")
	if name == "" {
		name = "csv"
	}
	format, ok := exportFormats[name]
	if !ok {
		s.respondError(w, r, fmt.Errorf("%w: unknown export format %q", errBadRequest, name))
		return
	}
	opts := table.ExportOptions{
		OmitHeaders: !parseBoolParam(r, "headers", true),
		Caption:     q.Get("caption"),
	}

	// Render under the read lock, write to the client after releasing it.
	var buf bytes.Buffer
	err := s.service.View(id, func(t *table.Table) error {
		switch name {
		case "tsv":
			return t.WriteTSV(&buf, opts)
		case "html":
			return t.WriteHTML(&buf, opts)
		default:
			return t.WriteCSV(&buf, opts)
		}
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	info, err := s.service.Info(id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", attachmentName(info.Name, format.ext)))
	w.Write(buf.Bytes())
}
