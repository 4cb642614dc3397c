package domain

import (
	"time"

	"github.com/google/uuid"
)

type PromptCategory string

const (
	CategoryTruth PromptCategory = "truth"
	CategoryDare  PromptCategory = "dare"
)

func (c PromptCategory) Valid() bool {
	return c == CategoryTruth || c == CategoryDare
}

type PromptSource string

const (
	SourceAPI       PromptSource = "API"
	SourceModerator PromptSource = "ADMIN"
)

// GameState tracks one game's turn machine for a room. A room may accumulate
// several rows over its lifetime; Room.CurrentGameStateID points at the
// authoritative one.
type GameState struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID              uuid.UUID      `json:"roomId" gorm:"type:uuid;not null;index"`
	CurrentTurnPlayerID *uuid.UUID     `json:"currentTurnPlayerId" gorm:"type:uuid"`
	RoundNumber         int            `json:"roundNumber" gorm:"not null;default:1"`
	CurrentChoice       PromptCategory `json:"currentChoice"`
	AwaitingPrompt      bool           `json:"awaitingPrompt" gorm:"not null;default:false"`
	AwaitingAnswer      bool           `json:"awaitingAnswer" gorm:"not null;default:false"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`

	Prompts []Prompt `json:"-" gorm:"foreignKey:GameStateID;constraint:OnDelete:CASCADE"`
}

type Prompt struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID      uuid.UUID      `json:"roomId" gorm:"type:uuid;not null;index"`
	GameStateID uuid.UUID      `json:"gameStateId" gorm:"type:uuid;not null;index"`
	Text        string         `json:"text" gorm:"not null"`
	Category    PromptCategory `json:"category" gorm:"not null"`
	Source      PromptSource   `json:"source" gorm:"not null;default:'API'"`
	Answered    bool           `json:"answered" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"createdAt"`

	Answers []Answer `json:"-" gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE"`
}

type Answer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PromptID  uuid.UUID `json:"promptId" gorm:"type:uuid;not null;uniqueIndex:idx_prompt_player_answer"`
	PlayerID  uuid.UUID `json:"playerId" gorm:"type:uuid;not null;uniqueIndex:idx_prompt_player_answer"`
	Text      string    `json:"text" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`

	Player *Player `json:"player,omitempty" gorm:"foreignKey:PlayerID"`
}
