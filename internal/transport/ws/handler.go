package ws

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"stoproom/internal/app"
)

// Handler handles WebSocket connections
type Handler struct {
	hub      *app.RoomHub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *app.RoomHub, logger zerolog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger.With().Str("component", "ws").Logger(),
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roomCode := strings.ToUpper(r.URL.Query().Get("roomCode"))
	if roomCode == "" {
		http.Error(w, "roomCode is required", http.StatusBadRequest)
		return
	}

	// Stable player ids survive reconnects; new visitors get a fresh one
	playerID := r.URL.Query().Get("playerId")
	isReconnect := playerID != ""
	if !isReconnect {
		playerID = uuid.New().String()
	}

	name := r.URL.Query().Get("name")
	avatar := r.URL.Query().Get("avatar")

	session, err := h.hub.GetSession(roomCode)
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(conn, session, playerID, name, avatar, h.logger)
	session.RegisterClient(playerID, client)

	h.logger.Info().
		Str("roomCode", roomCode).
		Str("playerId", playerID).
		Bool("isReconnect", isReconnect).
		Msg("websocket connected")

	// Presence upsert doubles as the reconnect path: the same playerId gets
	// its existing record flipped back online.
	if _, err := session.Join(playerID, name, avatar); err != nil {
		client.sendError(ErrCodeRoomFull, "Cannot join this room")
		client.Close()
		session.UnregisterClient(playerID)
		return
	}
	client.sendConnected()

	client.Run()
}
