package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/google/uuid"
)

// Hub is the process-wide broadcast registry: one group per room and one per
// standalone session, each holding the set of live connections. Connect and
// disconnect mutate the set under the lock; broadcasting snapshots the member
// list and pushes outside it.
type Hub struct {
	mu     sync.RWMutex
	groups map[string]map[*Client]bool

	roomSvc *service.RoomService
	gameSvc *service.GameService
}

func NewHub(roomSvc *service.RoomService, gameSvc *service.GameService) *Hub {
	return &Hub{
		groups:  make(map[string]map[*Client]bool),
		roomSvc: roomSvc,
		gameSvc: gameSvc,
	}
}

func RoomGroup(code string) string {
	return "room:" + code
}

func StandaloneGroup(sessionID string) string {
	return "standalone:" + sessionID
}

func (h *Hub) Join(group string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.groups[group] == nil {
		h.groups[group] = make(map[*Client]bool)
	}
	h.groups[group][c] = true
}

func (h *Hub) Leave(group string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.groups[group]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.groups, group)
		}
	}
}

// Broadcast pushes a message to every member of the group, including the
// member that caused the change.
func (h *Hub) Broadcast(group string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("failed to marshal broadcast for %s: %v", group, err)
		return
	}

	h.mu.RLock()
	members := make([]*Client, 0, len(h.groups[group]))
	for c := range h.groups[group] {
		members = append(members, c)
	}
	h.mu.RUnlock()

	for _, c := range members {
		c.enqueue(data)
	}
}

// BroadcastRoomState rebuilds the room snapshot and pushes it to the whole
// room group.
func (h *Hub) BroadcastRoomState(ctx context.Context, roomCode string) {
	room, err := h.roomSvc.GetRoom(ctx, roomCode)
	if err != nil {
		log.Printf("cannot broadcast state for room %s: %v", roomCode, err)
		return
	}
	state, err := BuildRoomState(ctx, h.gameSvc, room)
	if err != nil {
		log.Printf("cannot build state for room %s: %v", roomCode, err)
		return
	}
	h.Broadcast(RoomGroup(roomCode), state)
}

// BroadcastInjectedQuestion notifies a room group about a moderator prompt.
// Moderator actions broadcast regardless of entry point; the moderator has no
// connection in the group.
func (h *Hub) BroadcastInjectedQuestion(ctx context.Context, roomCode string, question QuestionInfo) {
	h.Broadcast(RoomGroup(roomCode), AdminQuestionInjectedMessage{
		Type:     MessageTypeAdminQuestionInjected,
		Question: question,
	})
	h.BroadcastRoomState(ctx, roomCode)
}

// BroadcastStandaloneQuestion delivers a moderator-approved prompt to a
// standalone session's connections.
func (h *Hub) BroadcastStandaloneQuestion(sessionID string, question QuestionInfo) {
	h.Broadcast(StandaloneGroup(sessionID), AdminQuestionInjectedMessage{
		Type:     MessageTypeAdminQuestionInjected,
		Question: question,
	})
}

// sendState sends the current snapshot to a single connection.
func (h *Hub) sendState(ctx context.Context, c *Client) {
	room, err := h.roomSvc.GetRoom(ctx, c.roomCode)
	if err != nil {
		c.sendError("room not found")
		return
	}
	state, err := BuildRoomState(ctx, h.gameSvc, room)
	if err != nil {
		c.sendError("failed to build room state")
		return
	}
	c.sendJSON(state)
}

func (h *Hub) handleMessage(ctx context.Context, c *Client, msg *ClientMessage) {
	switch msg.Type {
	case MessageTypeJoinRoom:
		h.handleJoinRoom(ctx, c)
	case MessageTypeStartGame:
		h.handleStartGame(ctx, c)
	case MessageTypeGetState:
		h.sendState(ctx, c)
	case MessageTypeChooseTruthDare:
		h.handleChoose(ctx, c, msg)
	case MessageTypeSubmitAnswer:
		h.handleSubmitAnswer(ctx, c, msg)
	}
}

func (h *Hub) handleJoinRoom(ctx context.Context, c *Client) {
	room, err := h.roomSvc.GetRoom(ctx, c.roomCode)
	if err != nil {
		c.sendError("room not found")
		return
	}
	// A full room auto-starts; InitializeGame is idempotent if it already did.
	if room.IsFull() {
		if _, err := h.gameSvc.InitializeGame(ctx, room.ID); err != nil {
			c.sendError(err.Error())
			return
		}
	}
	h.BroadcastRoomState(ctx, c.roomCode)
}

func (h *Hub) handleStartGame(ctx context.Context, c *Client) {
	room, err := h.roomSvc.GetRoom(ctx, c.roomCode)
	if err != nil {
		c.sendError("room not found")
		return
	}
	if !room.IsFull() {
		c.sendError("room is not full yet")
		return
	}
	if _, err := h.gameSvc.InitializeGame(ctx, room.ID); err != nil {
		c.sendError(err.Error())
		return
	}
	h.BroadcastRoomState(ctx, c.roomCode)
}

func (h *Hub) handleChoose(ctx context.Context, c *Client, msg *ClientMessage) {
	room, playerID, ok := h.resolvePlayer(ctx, c, msg.PlayerID)
	if !ok {
		return
	}

	prompt, err := h.gameSvc.Choose(ctx, room.ID, playerID, domain.PromptCategory(msg.Choice))
	if err != nil {
		c.sendError(err.Error())
		return
	}

	h.BroadcastRoomState(ctx, c.roomCode)
	h.Broadcast(RoomGroup(c.roomCode), QuestionSentMessage{
		Type:     MessageTypeQuestionSent,
		Question: NewQuestionInfo(prompt),
	})
}

func (h *Hub) handleSubmitAnswer(ctx context.Context, c *Client, msg *ClientMessage) {
	room, playerID, ok := h.resolvePlayer(ctx, c, msg.PlayerID)
	if !ok {
		return
	}

	_, state, err := h.gameSvc.SubmitAnswer(ctx, room.ID, playerID, msg.AnswerText)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	var nextTurn *string
	if state.CurrentTurnPlayerID != nil {
		if p := room.PlayerByID(*state.CurrentTurnPlayerID); p != nil {
			nextTurn = &p.Name
		}
	}

	h.BroadcastRoomState(ctx, c.roomCode)
	h.Broadcast(RoomGroup(c.roomCode), AnswerSubmittedMessage{
		Type:     MessageTypeAnswerSubmitted,
		NextTurn: nextTurn,
	})
}

func (h *Hub) resolvePlayer(ctx context.Context, c *Client, playerID string) (*domain.Room, uuid.UUID, bool) {
	room, err := h.roomSvc.GetRoom(ctx, c.roomCode)
	if err != nil {
		c.sendError("room not found")
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(playerID)
	if err != nil {
		c.sendError("invalid player id")
		return nil, uuid.Nil, false
	}
	if room.PlayerByID(id) == nil {
		c.sendError("player not found in this room")
		return nil, uuid.Nil, false
	}
	return room, id, true
}
