package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/debatehub/debate-arena/brackets"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checks are handled by the CORS layer for HTTP; browsers
		// do not enforce CORS for websockets, so all origins are accepted.
		return true
	},
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeTournament upgrades GET /ws/tournaments/{tournamentID} and subscribes
// the client to that tournament's event topic.
func (h *WebSocketHandler) ServeTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")
	if tournamentID == "" {
		http.Error(w, "missing tournamentID", http.StatusBadRequest)
		return
	}
	h.serve(w, r, brackets.TournamentTopic(tournamentID))
}

// ServeRoom upgrades GET /ws/rooms/{roomCode}.
func (h *WebSocketHandler) ServeRoom(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(chi.URLParam(r, "roomCode"))
	if roomCode == "" {
		http.Error(w, "missing roomCode", http.StatusBadRequest)
		return
	}
	h.serve(w, r, brackets.RoomTopic(roomCode))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, topic string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed",
			slog.String("topic", topic), slog.Any("error", err))
		return
	}
	h.hub.Subscribe(conn, topic)
}
