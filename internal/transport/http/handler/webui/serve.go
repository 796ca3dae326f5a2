package webui

import (
	"bytes"
	"net/http"

	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/shared"
)

// Index renders the counter page (GET /).
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index.html", h.State.State(), http.StatusOK)
}

// Static serves the embedded assets under /static/.
func (h *Handlers) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(h.static)))
}

// NotFound is the fallback for every unrouted path. API clients get a JSON
// error, browsers get the not-found page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if shared.IsAPIRequest(r) || r.Method != http.MethodGet {
		shared.WriteJSONError(w, "not found", http.StatusNotFound)
		return
	}

	h.render(w, "notfound.html", map[string]string{"Path": r.URL.Path}, http.StatusNotFound)
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (h *Handlers) render(w http.ResponseWriter, name string, data any, status int) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.Logger.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
