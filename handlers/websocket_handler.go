package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Dosada05/artsfest/live"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *live.Hub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler принимает список разрешённых Origin; пустой список или "*" разрешает всех.
func NewWebSocketHandler(hub *live.Hub, allowedOrigins []string) *WebSocketHandler {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
	}
}

// ServeStandings подключает клиента к общей комнате или, с ?event_id=, к комнате конкурса.
func (h *WebSocketHandler) ServeStandings(w http.ResponseWriter, r *http.Request) {
	room := live.StandingsRoom
	if v := r.URL.Query().Get("event_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			http.Error(w, "invalid event_id", http.StatusBadRequest)
			return
		}
		room = live.EventRoom(id)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отвечает клиенту ошибкой.
		slog.Warn("failed to upgrade websocket connection", slog.String("room", room), slog.Any("error", err))
		return
	}
	h.hub.Serve(conn, room)
}
