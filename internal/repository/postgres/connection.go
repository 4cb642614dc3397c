package postgres

import (
	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	err = db.AutoMigrate(
		&domain.Room{},
		&domain.Player{},
		&domain.GameState{},
		&domain.Prompt{},
		&domain.Answer{},
		&domain.StandaloneRequest{},
		&domain.GameEvent{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		Room:       NewRoomRepository(db),
		Player:     NewPlayerRepository(db),
		GameState:  NewGameStateRepository(db),
		Prompt:     NewPromptRepository(db),
		Answer:     NewAnswerRepository(db),
		Standalone: NewStandaloneRepository(db),
		GameEvent:  NewGameEventRepository(db),
	}
}
