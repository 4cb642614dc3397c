package service

import (
	"github.com/dom/truth-dare-game/internal/config"
	"github.com/dom/truth-dare-game/internal/repository"
)

type Services struct {
	Auth       *AuthService
	Room       *RoomService
	Game       *GameService
	Standalone *StandaloneService
	Prompts    *PromptSourceClient
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	prompts := NewPromptSourceClient(cfg)
	return &Services{
		Auth:       NewAuthService(cfg),
		Room:       NewRoomService(repos.Room, repos.Player),
		Game:       NewGameService(repos.Room, repos.GameState, repos.Prompt, repos.Answer, repos.GameEvent, prompts),
		Standalone: NewStandaloneService(repos.Standalone, prompts),
		Prompts:    prompts,
	}
}
