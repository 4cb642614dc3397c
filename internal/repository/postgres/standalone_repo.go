package postgres

import (
	"context"
	"errors"

	"github.com/dom/truth-dare-game/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type standaloneRepository struct {
	db *gorm.DB
}

func NewStandaloneRepository(db *gorm.DB) *standaloneRepository {
	return &standaloneRepository{db: db}
}

func (r *standaloneRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.StandaloneRequest, error) {
	var req domain.StandaloneRequest
	err := r.db.WithContext(ctx).First(&req, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &req, nil
}

// Upsert inserts or, on session_id conflict, resets the existing row to the
// submitted name/category with status PENDING and no delivered prompt.
func (r *standaloneRepository) Upsert(ctx context.Context, req *domain.StandaloneRequest) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"user_name":      req.UserName,
				"category":       req.Category,
				"current_prompt": nil,
				"prompt_source":  nil,
				"status":         domain.StandaloneStatusPending,
				"is_active":      true,
			}),
		}).
		Create(req).Error
}

func (r *standaloneRepository) Update(ctx context.Context, req *domain.StandaloneRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// GetOpen returns active requests that have not reached the terminal status,
// newest activity first.
func (r *standaloneRepository) GetOpen(ctx context.Context) ([]*domain.StandaloneRequest, error) {
	var reqs []*domain.StandaloneRequest
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND status <> ?", true, domain.StandaloneStatusCompleted).
		Order("updated_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}
