package repository

import (
	"context"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/google/uuid"
)

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	GetByCode(ctx context.Context, code string) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
	CodeExists(ctx context.Context, code string) (bool, error)
	GetActive(ctx context.Context) ([]*domain.Room, error)
}

type PlayerRepository interface {
	Create(ctx context.Context, player *domain.Player) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Player, error)
	GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.Player, error)
	CountByRoomID(ctx context.Context, roomID uuid.UUID) (int64, error)
}

type GameStateRepository interface {
	Create(ctx context.Context, state *domain.GameState) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GameState, error)
	Update(ctx context.Context, state *domain.GameState) error
}

type PromptRepository interface {
	Create(ctx context.Context, prompt *domain.Prompt) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Prompt, error)
	Update(ctx context.Context, prompt *domain.Prompt) error
	GetCurrentUnanswered(ctx context.Context, gameStateID uuid.UUID) (*domain.Prompt, error)
	GetLatestAnswered(ctx context.Context, gameStateID uuid.UUID) (*domain.Prompt, error)
	MarkAllAnswered(ctx context.Context, gameStateID uuid.UUID) error
}

type AnswerRepository interface {
	Create(ctx context.Context, answer *domain.Answer) error
	GetByPrompt(ctx context.Context, promptID uuid.UUID) ([]*domain.Answer, error)
	ExistsForPromptAndPlayer(ctx context.Context, promptID, playerID uuid.UUID) (bool, error)
}

type StandaloneRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (*domain.StandaloneRequest, error)
	Upsert(ctx context.Context, req *domain.StandaloneRequest) error
	Update(ctx context.Context, req *domain.StandaloneRequest) error
	GetOpen(ctx context.Context) ([]*domain.StandaloneRequest, error)
}

type GameEventRepository interface {
	Create(ctx context.Context, event *domain.GameEvent) error
	GetByRoomID(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.GameEvent, error)
}

type Repositories struct {
	Room       RoomRepository
	Player     PlayerRepository
	GameState  GameStateRepository
	Prompt     PromptRepository
	Answer     AnswerRepository
	Standalone StandaloneRepository
	GameEvent  GameEventRepository
}
