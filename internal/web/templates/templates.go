// Package templates holds the HTML pages served by the web package.
package templates

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

// TableSummary is one entry in the index page.
type TableSummary struct {
	ID      string
	Name    string
	Source  string
	Rows    int
	Columns int
	Updated time.Time
}

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>%s</title></head><body><main>`,
			templ.EscapeString(title))
		if err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Index lists the stored tables.
func Index(tables []TableSummary) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h1>Tables</h1>`); err != nil {
			return err
		}
		if len(tables) == 0 {
			_, err := io.WriteString(w, `<p class="empty">No tables yet. POST to /api/tables to create one.</p>`)
			return err
		}

		if _, err := io.WriteString(w, `<table class="index"><thead><tr><th>Name</th><th>Rows</th><th>Columns</th><th>Source</th><th>Updated</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, t := range tables {
			_, err := fmt.Fprintf(w, `<tr><td><a href="/tables/%s">%s</a></td><td>%d</td><td>%d</td><td>%s</td><td><time datetime="%s">%s</time></td></tr>`,
				templ.EscapeString(t.ID),
				templ.EscapeString(t.Name),
				t.Rows,
				t.Columns,
				templ.EscapeString(t.Source),
				t.Updated.UTC().Format(time.RFC3339),
				humanize.Time(t.Updated),
			)
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
	return Layout("Tables", body)
}

// TablePage shows one table. fragment is trusted markup and is written
// as it is.
func TablePage(t TableSummary, fragment string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<p><a href="/">All tables</a></p><h1>%s</h1><p>%d rows, %d columns. <a href="/api/tables/%s/export?format=csv">CSV</a> <a href="/api/tables/%s/export?format=tsv">TSV</a></p>`,
			templ.EscapeString(t.Name), t.Rows, t.Columns,
			templ.EscapeString(t.ID), templ.EscapeString(t.ID))
		if err != nil {
			return err
		}
		return templ.Raw(fragment).Render(ctx, w)
	})
	return Layout(t.Name, body)
}

// ErrorPage renders a user-facing error.
func ErrorPage(message, action, code string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div class="error" role="alert"><p>%s</p><p>%s</p><p><small>Code: %s</small></p></div>`,
			templ.EscapeString(message), templ.EscapeString(action), templ.EscapeString(code))
		return err
	})
	return Layout("Error", body)
}
