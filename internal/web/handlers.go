package web

import (
	"bytes"
	"database/sql"
	"net/http"
	"os"

	"github.com/yuin/goldmark"

	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/ops"
)

// Handlers contains HTTP route handlers for the viewer.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	path     string // any path inside the served project
	renderer *Renderer
}

// HandleEntries handles GET /entries — the HTML entry listing.
func (h *Handlers) HandleEntries(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Entries(h.cfg, ops.EntriesInput{
		Path:    h.path,
		Heading: r.URL.Query().Get("heading"),
	})
	if err != nil {
		renderError(w, err)
		return
	}

	h.renderer.renderPage(w, PageData{
		Title:        "Entries",
		Version:      h.renderer.version,
		TrackingFile: result.TrackingFile,
		Entries:      result.Entries,
	})
}

// HandleEntriesJSON handles GET /entries.json.
func (h *Handlers) HandleEntriesJSON(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Entries(h.cfg, ops.EntriesInput{
		Path:    h.path,
		Heading: r.URL.Query().Get("heading"),
	})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleDoc handles GET /doc — the whole tracking document rendered as HTML.
func (h *Handlers) HandleDoc(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Entries(h.cfg, ops.EntriesInput{Path: h.path})
	if err != nil {
		renderError(w, err)
		return
	}

	md, err := os.ReadFile(result.TrackingFile)
	if err != nil {
		renderError(w, errors.NewInternal(err))
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(md, &buf); err != nil {
		renderError(w, errors.NewInternal(err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// HandleLocate handles GET /locate/{id}.
func (h *Handlers) HandleLocate(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Locate(h.db, ops.LocateInput{ID: r.PathValue("id")})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}
