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

type StandaloneHandler struct {
	standaloneService *service.StandaloneService
}

func NewStandaloneHandler(standaloneService *service.StandaloneService) *StandaloneHandler {
	return &StandaloneHandler{standaloneService: standaloneService}
}

type StandaloneRequestBody struct {
	UserName     string `json:"user_name"`
	QuestionType string `json:"question_type"`
	SessionID    string `json:"session_id"`
}

func (h *StandaloneHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req StandaloneRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserName = strings.TrimSpace(req.UserName)
	if req.UserName == "" {
		respondError(w, http.StatusBadRequest, "user name is required")
		return
	}

	sr, err := h.standaloneService.SubmitRequest(r.Context(), req.UserName, domain.PromptCategory(req.QuestionType), strings.TrimSpace(req.SessionID))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			respondError(w, http.StatusBadRequest, "question type must be truth or dare")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to submit request")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"session_id": sr.SessionID,
		"status":     sr.Status,
		"message":    "Waiting for moderator approval...",
	})
}

func (h *StandaloneHandler) Status(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sr, err := h.standaloneService.GetRequest(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"user_name":        sr.UserName,
		"question_type":    sr.Category,
		"current_question": sr.CurrentPrompt,
		"question_source":  sr.PromptSource,
		"status":           sr.Status,
		"is_active":        sr.IsActive,
	})
}
