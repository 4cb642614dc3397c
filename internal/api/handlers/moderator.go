package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/dom/truth-dare-game/internal/websocket"
	"github.com/go-chi/chi/v5"
)

// ModeratorHandler covers the moderator's separate interface: login, prompt
// injection into rooms and standalone sessions, and the dashboard overview.
// Moderator mutations always fan out; the moderator holds no connection in
// the target group.
type ModeratorHandler struct {
	authService       *service.AuthService
	roomService       *service.RoomService
	gameService       *service.GameService
	standaloneService *service.StandaloneService
	hub               *websocket.Hub
}

func NewModeratorHandler(
	authService *service.AuthService,
	roomService *service.RoomService,
	gameService *service.GameService,
	standaloneService *service.StandaloneService,
	hub *websocket.Hub,
) *ModeratorHandler {
	return &ModeratorHandler{
		authService:       authService,
		roomService:       roomService,
		gameService:       gameService,
		standaloneService: standaloneService,
		hub:               hub,
	}
}

type LoginRequest struct {
	Password string `json:"password"`
}

func (h *ModeratorHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.authService.Login(req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

type InjectQuestionRequest struct {
	QuestionText string `json:"question_text"`
	QuestionType string `json:"question_type"`
}

func (h *ModeratorHandler) InjectRoomQuestion(w http.ResponseWriter, r *http.Request) {
	var req InjectQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.QuestionText = strings.TrimSpace(req.QuestionText)
	if req.QuestionText == "" {
		respondError(w, http.StatusBadRequest, "question text is required")
		return
	}
	if req.QuestionType == "" {
		req.QuestionType = string(domain.CategoryTruth)
	}

	room, err := h.roomService.GetRoom(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, http.StatusNotFound, "room not found")
		return
	}

	prompt, err := h.gameService.InjectModeratorPrompt(r.Context(), room.ID, req.QuestionText, domain.PromptCategory(req.QuestionType))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCategory):
			respondError(w, http.StatusBadRequest, "question type must be truth or dare")
		case errors.Is(err, domain.ErrGameNotStarted):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to inject question")
		}
		return
	}

	question := websocket.NewQuestionInfo(prompt)
	h.hub.BroadcastInjectedQuestion(r.Context(), room.Code, question)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": question,
	})
}

func (h *ModeratorHandler) ApproveStandalone(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sr, err := h.standaloneService.ApproveWithAPIPrompt(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to approve request")
		return
	}

	question := standaloneQuestion(sr)
	h.hub.BroadcastStandaloneQuestion(sessionID, question)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": question,
	})
}

func (h *ModeratorHandler) InjectStandalone(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req InjectQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.QuestionText = strings.TrimSpace(req.QuestionText)
	if req.QuestionText == "" {
		respondError(w, http.StatusBadRequest, "question text is required")
		return
	}
	if req.QuestionType == "" {
		req.QuestionType = string(domain.CategoryTruth)
	}

	sr, err := h.standaloneService.InjectPrompt(r.Context(), sessionID, req.QuestionText, domain.PromptCategory(req.QuestionType))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			respondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, domain.ErrInvalidCategory):
			respondError(w, http.StatusBadRequest, "question type must be truth or dare")
		default:
			respondError(w, http.StatusInternalServerError, "failed to inject question")
		}
		return
	}

	question := standaloneQuestion(sr)
	h.hub.BroadcastStandaloneQuestion(sessionID, question)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": question,
	})
}

// Overview backs the moderator dashboard: every active room with its players
// and game state, plus standalone requests still awaiting or holding a prompt.
func (h *ModeratorHandler) Overview(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.GetActiveRooms(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load rooms")
		return
	}

	roomViews := make([]map[string]interface{}, 0, len(rooms))
	for _, room := range rooms {
		players := make([]PlayerPayload, 0, len(room.Players))
		for _, p := range room.Players {
			players = append(players, PlayerPayload{
				ID:        p.ID.String(),
				Name:      p.Name,
				JoinOrder: p.JoinOrder,
			})
		}

		view := map[string]interface{}{
			"room_code":    room.Code,
			"created_by":   room.CreatedBy,
			"is_full":      room.IsFull(),
			"players":      players,
			"game_started": room.CurrentGameStateID != nil,
		}
		if state, err := h.gameService.CurrentGameState(r.Context(), room); err == nil && state != nil {
			view["round_number"] = state.RoundNumber
			if state.CurrentTurnPlayerID != nil {
				if p := room.PlayerByID(*state.CurrentTurnPlayerID); p != nil {
					view["current_turn_player"] = p.Name
				}
			}
		}
		roomViews = append(roomViews, view)
	}

	requests, err := h.standaloneService.GetOpenRequests(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load standalone requests")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rooms":               roomViews,
		"standalone_requests": requests,
	})
}

func standaloneQuestion(sr *domain.StandaloneRequest) websocket.QuestionInfo {
	q := websocket.QuestionInfo{
		Type: string(sr.Category),
	}
	if sr.CurrentPrompt != nil {
		q.Text = *sr.CurrentPrompt
	}
	if sr.PromptSource != nil {
		q.Source = string(*sr.PromptSource)
	}
	return q
}
