package postgres

import (
	"context"
	"errors"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gameStateRepository struct {
	db *gorm.DB
}

func NewGameStateRepository(db *gorm.DB) *gameStateRepository {
	return &gameStateRepository{db: db}
}

// Create inserts the state and points the owning room's current-game-state
// FK at it in the same transaction, so "the current state" never has to be
// inferred from row ordering.
func (r *gameStateRepository) Create(ctx context.Context, state *domain.GameState) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(state).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Room{}).
			Where("id = ?", state.RoomID).
			Update("current_game_state_id", state.ID).Error
	})
}

func (r *gameStateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.GameState, error) {
	var state domain.GameState
	err := r.db.WithContext(ctx).First(&state, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGameNotStarted
		}
		return nil, err
	}
	return &state, nil
}

func (r *gameStateRepository) Update(ctx context.Context, state *domain.GameState) error {
	return r.db.WithContext(ctx).Omit("Prompts").Save(state).Error
}
