package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// GameHandler drives the turn machine over plain HTTP, the non-push
// alternative to the websocket path. These routes do not fan out.
type GameHandler struct {
	roomService *service.RoomService
	gameService *service.GameService
}

func NewGameHandler(roomService *service.RoomService, gameService *service.GameService) *GameHandler {
	return &GameHandler{
		roomService: roomService,
		gameService: gameService,
	}
}

type StartGameRequest struct {
	PlayerID string `json:"player_id"`
}

func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}

	// player_id is accepted but unused; starting is not turn-gated.
	var req StartGameRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if !room.IsFull() {
		respondError(w, http.StatusBadRequest, "room is not full yet")
		return
	}

	if _, err := h.gameService.InitializeGame(r.Context(), room.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to initialize game")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"game_started": true,
		"room_code":    room.Code,
	})
}

type ChooseRequest struct {
	PlayerID string `json:"player_id"`
	Choice   string `json:"choice"`
}

func (h *GameHandler) Choose(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}

	var req ChooseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	if room.PlayerByID(playerID) == nil {
		respondError(w, http.StatusNotFound, "player not found")
		return
	}

	prompt, err := h.gameService.Choose(r.Context(), room.ID, playerID, domain.PromptCategory(req.Choice))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCategory):
			respondError(w, http.StatusBadRequest, "choice must be truth or dare")
		case errors.Is(err, domain.ErrNotYourTurn), errors.Is(err, domain.ErrGameNotStarted):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to fetch question")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"question": questionPayload(prompt),
	})
}

type SubmitAnswerRequest struct {
	PlayerID   string `json:"player_id"`
	AnswerText string `json:"answer_text"`
}

func (h *GameHandler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == "" || req.AnswerText == "" {
		respondError(w, http.StatusBadRequest, "player id and answer text are required")
		return
	}

	playerID, err := uuid.Parse(req.PlayerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid player id")
		return
	}
	if room.PlayerByID(playerID) == nil {
		respondError(w, http.StatusNotFound, "player not found")
		return
	}

	_, state, err := h.gameService.SubmitAnswer(r.Context(), room.ID, playerID, req.AnswerText)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotYourTurn),
			errors.Is(err, domain.ErrGameNotStarted),
			errors.Is(err, domain.ErrNoCurrentPrompt),
			errors.Is(err, domain.ErrAlreadyAnswered):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "failed to submit answer")
		}
		return
	}

	var nextTurn *string
	if state.CurrentTurnPlayerID != nil {
		if p := room.PlayerByID(*state.CurrentTurnPlayerID); p != nil {
			nextTurn = &p.Name
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"next_turn":    nextTurn,
		"round_number": state.RoundNumber,
	})
}

func (h *GameHandler) NextRound(w http.ResponseWriter, r *http.Request) {
	room, ok := h.room(w, r)
	if !ok {
		return
	}

	state, err := h.gameService.AdvanceRound(r.Context(), room.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to move to next round")
		return
	}

	var nextTurn, nextTurnID *string
	if state.CurrentTurnPlayerID != nil {
		if p := room.PlayerByID(*state.CurrentTurnPlayerID); p != nil {
			id := p.ID.String()
			nextTurn = &p.Name
			nextTurnID = &id
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"next_turn":    nextTurn,
		"next_turn_id": nextTurnID,
		"round_number": state.RoundNumber,
	})
}

func (h *GameHandler) room(w http.ResponseWriter, r *http.Request) (*domain.Room, bool) {
	room, err := h.roomService.GetRoom(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		respondError(w, http.StatusNotFound, "room not found")
		return nil, false
	}
	return room, true
}
