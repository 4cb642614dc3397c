package service

import (
	"context"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/repository"
	"github.com/google/uuid"
)

// StandaloneService handles roomless prompt requests: a visitor submits a
// request and waits for a moderator to approve it with an API prompt or
// inject one by hand.
type StandaloneService struct {
	standaloneRepo repository.StandaloneRepository
	prompts        *PromptSourceClient
}

func NewStandaloneService(standaloneRepo repository.StandaloneRepository, prompts *PromptSourceClient) *StandaloneService {
	return &StandaloneService{
		standaloneRepo: standaloneRepo,
		prompts:        prompts,
	}
}

// SubmitRequest creates or resets the request for a session. A missing
// session id gets a fresh one; resubmitting an existing session clears any
// previously delivered prompt and returns the request to PENDING.
func (s *StandaloneService) SubmitRequest(ctx context.Context, userName string, category domain.PromptCategory, sessionID string) (*domain.StandaloneRequest, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	req := &domain.StandaloneRequest{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserName:  userName,
		Category:  category,
		Status:    domain.StandaloneStatusPending,
		IsActive:  true,
	}
	if err := s.standaloneRepo.Upsert(ctx, req); err != nil {
		return nil, err
	}
	// Re-read: on conflict the upsert updated a pre-existing row.
	return s.standaloneRepo.GetBySessionID(ctx, sessionID)
}

func (s *StandaloneService) GetRequest(ctx context.Context, sessionID string) (*domain.StandaloneRequest, error) {
	return s.standaloneRepo.GetBySessionID(ctx, sessionID)
}

// ApproveWithAPIPrompt fetches a prompt for the requested category and
// delivers it, moving the request to APPROVED.
func (s *StandaloneService) ApproveWithAPIPrompt(ctx context.Context, sessionID string) (*domain.StandaloneRequest, error) {
	req, err := s.standaloneRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	text, source := s.prompts.Fetch(req.Category)

	req.CurrentPrompt = &text
	req.PromptSource = &source
	req.Status = domain.StandaloneStatusApproved
	if err := s.standaloneRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// InjectPrompt delivers a moderator-written prompt, overriding the requested
// category if the moderator chose a different one.
func (s *StandaloneService) InjectPrompt(ctx context.Context, sessionID, text string, category domain.PromptCategory) (*domain.StandaloneRequest, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	req, err := s.standaloneRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	source := domain.SourceModerator
	req.CurrentPrompt = &text
	req.PromptSource = &source
	req.Category = category
	req.Status = domain.StandaloneStatusApproved
	if err := s.standaloneRepo.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *StandaloneService) GetOpenRequests(ctx context.Context) ([]*domain.StandaloneRequest, error) {
	return s.standaloneRepo.GetOpen(ctx)
}
