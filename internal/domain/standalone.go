package domain

import (
	"time"

	"github.com/google/uuid"
)

type StandaloneStatus string

const (
	StandaloneStatusPending  StandaloneStatus = "PENDING"
	StandaloneStatusApproved StandaloneStatus = "APPROVED"
	// StandaloneStatusCompleted is defined in the schema but no operation
	// transitions a request into it; reachable only by future extension.
	StandaloneStatusCompleted StandaloneStatus = "COMPLETED"
)

// StandaloneRequest is a roomless prompt request held for moderator approval.
// It is a free-standing aggregate, upserted by session id.
type StandaloneRequest struct {
	ID             uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SessionID      string           `json:"sessionId" gorm:"uniqueIndex;not null"`
	UserName       string           `json:"userName" gorm:"not null"`
	Category       PromptCategory   `json:"category"`
	CurrentPrompt  *string          `json:"currentPrompt"`
	PromptSource   *PromptSource    `json:"promptSource"`
	Status         StandaloneStatus `json:"status" gorm:"not null;default:'PENDING'"`
	IsActive       bool             `json:"isActive" gorm:"not null;default:true"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}
