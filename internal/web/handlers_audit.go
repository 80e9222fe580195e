package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/JonMunkholm/tabular/internal/logging"
)

// historyResponse is the JSON body of the history endpoints.
type historyResponse struct {
	Entries []core.AuditEntry `json:"entries"`
	Count   int               `json:"count"`
}

// handleTableHistory lists the changes to one table, newest first. It
// keeps answering after the table is deleted.
func (s *Server) handleTableHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r, "limit", 100)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	entries := s.service.History(tableID(r), limit)
	writeJSON(w, r, http.StatusOK, historyResponse{Entries: entries, Count: len(entries)})
}

// handleAuditLog lists recorded changes across all tables. Filters:
// table, action, since (RFC 3339), limit. format=csv downloads the
// entries instead.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := parseIntParam(r, "limit", 100)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filter := core.AuditFilter{
		TableID: q.Get("table"),
		Action:  core.AuditAction(q.Get("action")),
		Limit:   limit,
	}
	if since := q.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			s.respondError(w, r, fmt.Errorf("%w: since must be an RFC 3339 time", errBadRequest))
			return
		}
		filter.Since = t
	}

	entries := s.service.Audit().Query(filter)
	if q.Get("format") == "csv" {
		s.writeAuditCSV(w, r, entries)
		return
	}
	writeJSON(w, r, http.StatusOK, historyResponse{Entries: entries, Count: len(entries)})
}

// writeAuditCSV streams entries as a CSV attachment.
func (s *Server) writeAuditCSV(w http.ResponseWriter, r *http.Request, entries []core.AuditEntry) {
	filename := fmt.Sprintf("audit_log_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	csvWriter := csv.NewWriter(w)
	_ = csvWriter.Write([]string{
		"ID", "Timestamp", "Action", "Severity", "Table ID", "Table",
		"Operation", "IP Address", "Rows", "Columns", "Reason",
	})
	for _, e := range entries {
		_ = csvWriter.Write([]string{
			e.ID,
			e.CreatedAt.Format(time.RFC3339),
			string(e.Action),
			string(e.Severity),
			e.TableID,
			e.TableName,
			e.Operation,
			e.IPAddress,
			strconv.Itoa(e.Rows),
			strconv.Itoa(e.Columns),
			e.Reason,
		})
	}
	csvWriter.Flush()

	// Headers are already sent, so a write error can only be logged.
	if err := csvWriter.Error(); err != nil {
		logging.FromContext(r.Context()).Warn("audit export interrupted", "error", err)
	}
}
