// Package handler composes the HTTP handlers of every feature area.
package handler

import (
	"log/slog"
	"time"

	"github.com/mandalnilabja/clickworker/internal/storage"
	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/click"
	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/history"
	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/infra"
	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/live"
	"github.com/mandalnilabja/clickworker/internal/transport/http/handler/webui"
	"github.com/mandalnilabja/clickworker/internal/ui"
)

// Repo composes all domain-specific handlers.
type Repo struct {
	Click   *click.Handlers
	Live    *live.Handlers
	History *history.Handlers
	WebUI   *webui.Handlers
	Infra   *infra.Handlers
}

// NewRepo creates a new instance of the composed handler repository.
func NewRepo(ctrl *ui.Controller, store storage.Storage, logger *slog.Logger) *Repo {
	return &Repo{
		Click:   click.New(ctrl, logger),
		Live:    live.New(ctrl, logger),
		History: history.New(store),
		WebUI:   webui.New(ctrl, logger),
		Infra:   infra.New(time.Now()),
	}
}
