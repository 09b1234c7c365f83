package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/snitch-dev/snitch/internal/entry"
	"github.com/snitch-dev/snitch/internal/errors"
)

// entriesPage is the single HTML page the viewer serves. The viewer is
// read-only, so the markup stays inline rather than living in asset files.
const entriesPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
h2 { border-bottom: 1px solid #ddd; padding-bottom: .3rem; }
.meta { color: #666; font-size: .85rem; }
code { background: #f4f4f4; padding: .1rem .3rem; }
</style>
</head>
<body>
<h1>{{.Title}} <span class="meta">v{{.Version}}</span></h1>
<p class="meta">{{.TrackingFile}} — {{len .Entries}} entries</p>
{{range .Entries}}
<h2>#{{.Seq}} {{.Title}}</h2>
<p class="meta">{{.Heading}} — <code>id:{{.ID}}</code></p>
{{bodyHTML .}}
{{else}}
<p>No entries captured yet.</p>
{{end}}
</body>
</html>
`

// PageData carries the fields the entries page renders.
type PageData struct {
	Title        string
	Version      string
	TrackingFile string
	Entries      []entry.Entry
}

// Renderer renders the viewer's page and error responses.
type Renderer struct {
	tmpl    *template.Template
	version string
}

// NewRenderer parses the inline page template.
func NewRenderer(version string) *Renderer {
	tmpl := template.Must(template.New("entries").
		Funcs(template.FuncMap{"bodyHTML": bodyHTML}).
		Parse(entriesPage))
	return &Renderer{tmpl: tmpl, version: version}
}

// renderPage writes the entries page.
func (r *Renderer) renderPage(w http.ResponseWriter, data PageData) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// renderError maps a structured error to its HTTP status with a JSON body.
func renderError(w http.ResponseWriter, err error) {
	if snitchErr, ok := err.(*errors.SnitchError); ok {
		status := snitchErr.Status
		msg := snitchErr.Message
		if snitchErr.Code == errors.ErrInternal {
			msg = "an internal error occurred"
		}
		renderJSON(w, status, map[string]any{
			"error": map[string]any{"code": snitchErr.Code, "message": msg},
		})
		return
	}
	renderJSON(w, http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"code": "INTERNAL", "message": "an internal error occurred"},
	})
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// bodyHTML converts an entry body to HTML using goldmark.
func bodyHTML(e entry.Entry) template.HTML {
	if e.Body == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(e.Body), &buf); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(e.Body) + "</pre>")
	}
	return template.HTML(buf.String())
}
