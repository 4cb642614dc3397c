package handlers

import (
	"log"
	"net/http"

	"github.com/dom/truth-dare-game/internal/service"
	"github.com/dom/truth-dare-game/internal/websocket"
	"github.com/go-chi/chi/v5"
	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

type WebSocketHandler struct {
	hub         *websocket.Hub
	roomService *service.RoomService
	gameService *service.GameService
}

func NewWebSocketHandler(hub *websocket.Hub, roomService *service.RoomService, gameService *service.GameService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		roomService: roomService,
		gameService: gameService,
	}
}

// HandleRoom upgrades a room connection. The client joins the room's
// broadcast group and immediately receives a full snapshot, before any event.
func (h *WebSocketHandler) HandleRoom(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	room, err := h.roomService.GetRoom(r.Context(), code)
	if err != nil {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := websocket.NewRoomClient(h.hub, conn, room.Code)

	// Queue the snapshot before joining the group so no concurrent broadcast
	// can land ahead of it.
	if state, err := websocket.BuildRoomState(r.Context(), h.gameService, room); err == nil {
		client.SendInitialState(state)
	}

	h.hub.Join(websocket.RoomGroup(room.Code), client)

	go client.WritePump()
	go client.ReadPump()
}

// HandleStandalone upgrades a standalone session connection. The session
// only listens for moderator-delivered prompts.
func (h *WebSocketHandler) HandleStandalone(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := websocket.NewStandaloneClient(h.hub, conn, sessionID)
	h.hub.Join(websocket.StandaloneGroup(sessionID), client)

	go client.WritePump()
	go client.ReadPump()
}
