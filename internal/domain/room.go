package domain

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

const (
	RoomCodeLength   = 6
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// MaxPlayersPerRoom is fixed; the turn machine is hard-coded to a 2-cycle.
	MaxPlayersPerRoom = 2
)

type Room struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code               string     `json:"code" gorm:"uniqueIndex;not null"`
	IsActive           bool       `json:"isActive" gorm:"not null;default:true"`
	CreatedBy          string     `json:"createdBy"`
	CurrentGameStateID *uuid.UUID `json:"currentGameStateId" gorm:"type:uuid"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`

	// Relations
	Players    []Player    `json:"players,omitempty" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	GameStates []GameState `json:"-" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

func (r *Room) IsFull() bool {
	return len(r.Players) >= MaxPlayersPerRoom
}

// PlayerByID resolves a player by stored identity, never by slice position.
func (r *Room) PlayerByID(id uuid.UUID) *Player {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return &r.Players[i]
		}
	}
	return nil
}

// PlayerByJoinOrder returns the player in the given turn slot (1 or 2).
func (r *Room) PlayerByJoinOrder(order int) *Player {
	for i := range r.Players {
		if r.Players[i].JoinOrder == order {
			return &r.Players[i]
		}
	}
	return nil
}

// Opponent returns the other player of a two-player room, keyed off stored
// identity rather than query order.
func (r *Room) Opponent(playerID uuid.UUID) *Player {
	if len(r.Players) != MaxPlayersPerRoom {
		return nil
	}
	for i := range r.Players {
		if r.Players[i].ID != playerID {
			return &r.Players[i]
		}
	}
	return nil
}

// GenerateRoomCode produces a candidate 6-character room code. Uniqueness is
// the caller's concern (collision-checked against the store with bounded
// retry).
func GenerateRoomCode() string {
	b := make([]byte, RoomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}

type Player struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID    uuid.UUID `json:"roomId" gorm:"type:uuid;not null;uniqueIndex:idx_room_player_name"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_room_player_name"`
	JoinOrder int       `json:"joinOrder" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}
