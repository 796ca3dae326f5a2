package app

import (
	"log/slog"
	"net/http"

	"github.com/mandalnilabja/clickworker/internal/transport/http/handler"
	"github.com/mandalnilabja/clickworker/internal/transport/http/middleware"
)

// RouterOptions configures the HTTP router behavior.
type RouterOptions struct {
	EnableWebUI bool
	Logger      *slog.Logger
}

// NewRouter creates and configures the HTTP router with all application routes.
// Returns an http.Handler with middleware applied.
func NewRouter(repo *handler.Repo, opts *RouterOptions) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", repo.Infra.HealthCheck)

	// Click API
	mux.HandleFunc("POST /api/click", repo.Click.Click)
	mux.HandleFunc("GET /api/count", repo.Click.Count)
	mux.HandleFunc("GET /ws", repo.Live.ServeWS)

	// Round trip history
	mux.HandleFunc("GET /api/roundtrips", repo.History.List)
	mux.HandleFunc("GET /api/roundtrips/stats", repo.History.Stats)
	mux.HandleFunc("GET /api/roundtrips/{id}", repo.History.Get)
	mux.HandleFunc("DELETE /api/roundtrips", repo.History.Delete)

	if opts.EnableWebUI {
		mux.HandleFunc("GET /{$}", repo.WebUI.Index)
		mux.Handle("GET /static/", repo.WebUI.Static())
	}

	// Everything else
	mux.HandleFunc("/", repo.WebUI.NotFound)

	// Apply middleware chain (order: outer to inner)
	mws := []func(http.Handler) http.Handler{middleware.CORS, middleware.RequestID}
	if opts.Logger != nil {
		mws = append(mws, middleware.RequestLogger(opts.Logger))
	}

	return middleware.Chain(mux, mws...)
}
