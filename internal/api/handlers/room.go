package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/go-chi/chi/v5"
)

type RoomHandler struct {
	roomService *service.RoomService
	gameService *service.GameService
}

func NewRoomHandler(roomService *service.RoomService, gameService *service.GameService) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		gameService: gameService,
	}
}

type CreateRoomRequest struct {
	Name string `json:"name"`
}

type JoinRoomRequest struct {
	RoomCode string `json:"room_code"`
	Name     string `json:"name"`
}

type RoomJoinedResponse struct {
	RoomCode string `json:"room_code"`
	PlayerID string `json:"player_id"`
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "player name is required")
		return
	}

	room, player, err := h.roomService.CreateRoom(r.Context(), req.Name)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	respondJSON(w, http.StatusOK, RoomJoinedResponse{
		RoomCode: room.Code,
		PlayerID: player.ID.String(),
	})
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.RoomCode = strings.TrimSpace(req.RoomCode)
	req.Name = strings.TrimSpace(req.Name)
	if req.RoomCode == "" || req.Name == "" {
		respondError(w, http.StatusBadRequest, "room code and player name are required")
		return
	}

	room, player, err := h.roomService.JoinRoom(r.Context(), req.RoomCode, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoomNotFound):
			respondError(w, http.StatusNotFound, "room not found or inactive")
		case errors.Is(err, domain.ErrNameTaken):
			respondError(w, http.StatusBadRequest, "player name already taken in this room")
		case errors.Is(err, domain.ErrRoomFull):
			respondError(w, http.StatusBadRequest, "room is full")
		default:
			respondError(w, http.StatusInternalServerError, "failed to join room")
		}
		return
	}

	respondJSON(w, http.StatusOK, RoomJoinedResponse{
		RoomCode: room.Code,
		PlayerID: player.ID.String(),
	})
}

type RoomStatusResponse struct {
	RoomCode             string           `json:"room_code"`
	IsFull               bool             `json:"is_full"`
	IsActive             bool             `json:"is_active"`
	GameStarted          bool             `json:"game_started"`
	Players              []PlayerPayload  `json:"players"`
	RoundNumber          *int             `json:"round_number"`
	CurrentTurnPlayer    *string          `json:"current_turn_player"`
	CurrentTurnPlayerID  *string          `json:"current_turn_player_id"`
	CurrentQuestion      *QuestionPayload `json:"current_question"`
	CurrentAnswer        *AnswerPayload   `json:"current_answer"`
	IsWaitingForQuestion bool             `json:"is_waiting_for_question"`
	IsWaitingForAnswer   bool             `json:"is_waiting_for_answer"`
}

type PlayerPayload struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	JoinOrder int    `json:"join_order"`
}

type QuestionPayload struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Type       string `json:"type"`
	Source     string `json:"source"`
	IsAnswered bool   `json:"is_answered"`
}

type AnswerPayload struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	PlayerName string `json:"player_name"`
	PlayerID   string `json:"player_id"`
}

func (h *RoomHandler) Status(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	room, err := h.roomService.GetRoom(r.Context(), code)
	if err != nil {
		respondError(w, http.StatusNotFound, "room not found")
		return
	}

	state, err := h.gameService.CurrentGameState(r.Context(), room)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load game state")
		return
	}

	resp := RoomStatusResponse{
		RoomCode:    room.Code,
		IsFull:      room.IsFull(),
		IsActive:    room.IsActive,
		GameStarted: state != nil,
		Players:     make([]PlayerPayload, 0, len(room.Players)),
	}
	for _, p := range room.Players {
		resp.Players = append(resp.Players, PlayerPayload{
			ID:        p.ID.String(),
			Name:      p.Name,
			JoinOrder: p.JoinOrder,
		})
	}

	if state != nil {
		resp.RoundNumber = &state.RoundNumber
		resp.IsWaitingForQuestion = state.AwaitingPrompt
		resp.IsWaitingForAnswer = state.AwaitingAnswer
		if state.CurrentTurnPlayerID != nil {
			if p := room.PlayerByID(*state.CurrentTurnPlayerID); p != nil {
				id := p.ID.String()
				resp.CurrentTurnPlayer = &p.Name
				resp.CurrentTurnPlayerID = &id
			}
		}

		prompt, err := h.gameService.CurrentPrompt(r.Context(), room)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to load prompt")
			return
		}
		if prompt != nil {
			resp.CurrentQuestion = questionPayload(prompt)
		} else {
			// No pending prompt: report the most recently answered one so a
			// reconnecting client can still show the last exchange.
			answered, answer, err := h.gameService.LatestAnsweredPrompt(r.Context(), room)
			if err != nil {
				respondError(w, http.StatusInternalServerError, "failed to load prompt")
				return
			}
			if answered != nil {
				resp.CurrentQuestion = questionPayload(answered)
				if answer != nil && answer.Player != nil {
					resp.CurrentAnswer = &AnswerPayload{
						ID:         answer.ID.String(),
						Text:       answer.Text,
						PlayerName: answer.Player.Name,
						PlayerID:   answer.PlayerID.String(),
					}
				}
			}
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

func questionPayload(prompt *domain.Prompt) *QuestionPayload {
	return &QuestionPayload{
		ID:         prompt.ID.String(),
		Text:       prompt.Text,
		Type:       string(prompt.Category),
		Source:     string(prompt.Source),
		IsAnswered: prompt.Answered,
	}
}
