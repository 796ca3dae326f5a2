// Package webui renders the click page and the not-found fallback.
package webui

import (
	"html/template"
	"io/fs"
	"log/slog"

	"github.com/mandalnilabja/clickworker/internal/ui"
	"github.com/mandalnilabja/clickworker/web"
)

// StateSource provides the state rendered into the page.
type StateSource interface {
	State() ui.State
}

// Handlers holds the dependencies for web UI HTTP handlers.
type Handlers struct {
	State     StateSource
	Logger    *slog.Logger
	templates *template.Template
	static    fs.FS
}

// New creates a new instance of web UI handlers. It panics if the embedded
// templates do not parse, which can only happen with a broken build.
func New(state StateSource, logger *slog.Logger) *Handlers {
	tmpl := template.Must(template.ParseFS(web.FS, "*.html"))

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		panic("failed to create static filesystem: " + err.Error())
	}

	return &Handlers{
		State:     state,
		Logger:    logger,
		templates: tmpl,
		static:    static,
	}
}
