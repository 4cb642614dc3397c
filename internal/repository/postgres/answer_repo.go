package postgres

import (
	"context"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *answerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, answer *domain.Answer) error {
	return r.db.WithContext(ctx).Create(answer).Error
}

func (r *answerRepository) GetByPrompt(ctx context.Context, promptID uuid.UUID) ([]*domain.Answer, error) {
	var answers []*domain.Answer
	err := r.db.WithContext(ctx).
		Preload("Player").
		Where("prompt_id = ?", promptID).
		Order("created_at DESC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

func (r *answerRepository) ExistsForPromptAndPlayer(ctx context.Context, promptID, playerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Answer{}).
		Where("prompt_id = ? AND player_id = ?", promptID, playerID).
		Count(&count).Error
	return count > 0, err
}
