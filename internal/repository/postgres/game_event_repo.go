package postgres

import (
	"context"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gameEventRepository struct {
	db *gorm.DB
}

func NewGameEventRepository(db *gorm.DB) *gameEventRepository {
	return &gameEventRepository{db: db}
}

func (r *gameEventRepository) Create(ctx context.Context, event *domain.GameEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *gameEventRepository) GetByRoomID(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.GameEvent, error) {
	var events []*domain.GameEvent
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
