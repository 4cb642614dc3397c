package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GameEventType string

const (
	EventGameStarted     GameEventType = "game_started"
	EventChoiceMade      GameEventType = "choice_made"
	EventPromptInjected  GameEventType = "prompt_injected"
	EventAnswerSubmitted GameEventType = "answer_submitted"
	EventRoundAdvanced   GameEventType = "round_advanced"
)

// GameEvent is an append-only audit row written on every state transition.
type GameEvent struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	RoomID    uuid.UUID      `json:"roomId" gorm:"type:uuid;not null;index"`
	Type      GameEventType  `json:"type" gorm:"size:64;not null"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"createdAt"`
}
