package postgres

import (
	"context"
	"errors"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type promptRepository struct {
	db *gorm.DB
}

func NewPromptRepository(db *gorm.DB) *promptRepository {
	return &promptRepository{db: db}
}

func (r *promptRepository) Create(ctx context.Context, prompt *domain.Prompt) error {
	return r.db.WithContext(ctx).Create(prompt).Error
}

func (r *promptRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Prompt, error) {
	var prompt domain.Prompt
	err := r.db.WithContext(ctx).First(&prompt, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoCurrentPrompt
		}
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) Update(ctx context.Context, prompt *domain.Prompt) error {
	return r.db.WithContext(ctx).Omit("Answers").Save(prompt).Error
}

func (r *promptRepository) GetCurrentUnanswered(ctx context.Context, gameStateID uuid.UUID) (*domain.Prompt, error) {
	var prompt domain.Prompt
	err := r.db.WithContext(ctx).
		Where("game_state_id = ? AND answered = ?", gameStateID, false).
		Order("created_at DESC").
		First(&prompt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) GetLatestAnswered(ctx context.Context, gameStateID uuid.UUID) (*domain.Prompt, error) {
	var prompt domain.Prompt
	err := r.db.WithContext(ctx).
		Where("game_state_id = ? AND answered = ?", gameStateID, true).
		Order("created_at DESC").
		First(&prompt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prompt, nil
}

func (r *promptRepository) MarkAllAnswered(ctx context.Context, gameStateID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Prompt{}).
		Where("game_state_id = ? AND answered = ?", gameStateID, false).
		Update("answered", true).Error
}
