package web

import (
	"html"
	"net/http"

	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/JonMunkholm/tabular/internal/web/templates"
)

// handleIndex renders the list of stored tables.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	infos := s.service.List()
	summaries := make([]templates.TableSummary, len(infos))
	for i, info := range infos {
		summaries[i] = summaryOf(info)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Index(summaries).Render(r.Context(), w)
}

// handleTablePage renders one table as an HTML page.
func (s *Server) handleTablePage(w http.ResponseWriter, r *http.Request) {
	id := tableID(r)

	var fragment string
	err := s.service.View(id, func(t *table.Table) error {
		escaped, err := escapedCopy(t)
		if err != nil {
			return err
		}
		fragment = escaped.HTML(table.ExportOptions{})
		return nil
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

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.TablePage(summaryOf(info), fragment).Render(r.Context(), w)
}

// handleHealth reports the table count and fetch capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"tables":  s.service.Count(),
		"fetches": s.service.Limiter().Status(),
	})
}

func summaryOf(info core.TableInfo) templates.TableSummary {
	return templates.TableSummary{
		ID:      info.ID,
		Name:    info.Name,
		Source:  info.Source,
		Rows:    info.Rows,
		Columns: info.Columns,
		Updated: info.Updated,
	}
}

// escapedCopy returns a copy of t whose header and text cells are HTML
// escaped, since the table's own HTML writer emits them verbatim.
func escapedCopy(t *table.Table) (*table.Table, error) {
	c := t.Clone()

	names := c.Headers()
	for i, name := range names {
		names[i] = html.EscapeString(name)
	}
	if err := c.RenameColumns(names); err != nil {
		return nil, err
	}

	for r := 0; r < c.NumRows(); r++ {
		for col := 0; col < c.NumColumns(); col++ {
			v, err := c.Cell(table.Pos(r), table.Pos(col))
			if err != nil {
				return nil, err
			}
			if v.Kind() != table.KindString {
				continue
			}
			if esc := html.EscapeString(v.Text()); esc != v.Text() {
				if err := c.SetCell(table.Pos(r), table.Pos(col), table.String(esc)); err != nil {
					return nil, err
				}
			}
		}
	}
	return c, nil
}
