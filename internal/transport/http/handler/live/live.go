// Package live pushes display state to the browser over a websocket.
package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mandalnilabja/clickworker/internal/ui"
)

const writeWait = 5 * time.Second

// Controller is the part of ui.Controller the live view uses.
type Controller interface {
	Submit() (string, error)
	Subscribe() (<-chan ui.State, func())
}

// event is a frame sent by the page, e.g. a button click.
type event struct {
	Event string `json:"event"`
}

// Handlers holds the dependencies for the websocket endpoint.
type Handlers struct {
	Controller Controller
	Logger     *slog.Logger
	upgrader   websocket.Upgrader
}

// New creates a new instance of live handlers.
func New(ctrl Controller, logger *slog.Logger) *Handlers {
	return &Handlers{
		Controller: ctrl,
		Logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// ServeWS upgrades GET /ws. The current state is sent right away and again
// after every change; {"event":"click"} frames submit work.
func (h *Handlers) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.Controller.Subscribe()
	defer cancel()

	gone := make(chan struct{})
	go h.readEvents(conn, gone)

	for {
		select {
		case st, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(st); err != nil {
				h.Logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-gone:
			return
		}
	}
}

func (h *Handlers) readEvents(conn *websocket.Conn, gone chan<- struct{}) {
	defer close(gone)
	for {
		var ev event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Debug("websocket read failed", "error", err)
			}
			return
		}

		switch ev.Event {
		case "click":
			if _, err := h.Controller.Submit(); err != nil {
				h.Logger.Warn("click rejected", "error", err)
			}
		default:
			h.Logger.Debug("ignoring websocket event", "event", ev.Event)
		}
	}
}
