package service

import (
	"context"
	"strings"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/repository"
	"github.com/google/uuid"
)

const maxCodeAttempts = 100

type RoomService struct {
	roomRepo   repository.RoomRepository
	playerRepo repository.PlayerRepository
	locks      *roomLocks
}

func NewRoomService(roomRepo repository.RoomRepository, playerRepo repository.PlayerRepository) *RoomService {
	return &RoomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
		locks:      newRoomLocks(),
	}
}

// CreateRoom creates a room and its first player in one call. The creator
// always takes turn slot 1.
func (s *RoomService) CreateRoom(ctx context.Context, playerName string) (*domain.Room, *domain.Player, error) {
	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return nil, nil, err
	}

	room := &domain.Room{
		ID:        uuid.New(),
		Code:      code,
		IsActive:  true,
		CreatedBy: playerName,
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, nil, err
	}

	player := &domain.Player{
		ID:        uuid.New(),
		RoomID:    room.ID,
		Name:      playerName,
		JoinOrder: 1,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, nil, err
	}

	room.Players = []domain.Player{*player}
	return room, player, nil
}

// JoinRoom adds a second player. Names are unique per room (case-sensitive)
// and a third join attempt fails with a capacity error.
func (s *RoomService) JoinRoom(ctx context.Context, code, playerName string) (*domain.Room, *domain.Player, error) {
	room, err := s.GetRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	// Membership is a check-then-insert; re-read under the room lock so two
	// concurrent joins cannot both pass the capacity check.
	lock := s.locks.get(room.ID)
	lock.Lock()
	defer lock.Unlock()

	room, err = s.GetRoom(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	for _, p := range room.Players {
		if p.Name == playerName {
			return nil, nil, domain.ErrNameTaken
		}
	}
	if room.IsFull() {
		return nil, nil, domain.ErrRoomFull
	}

	player := &domain.Player{
		ID:        uuid.New(),
		RoomID:    room.ID,
		Name:      playerName,
		JoinOrder: len(room.Players) + 1,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		return nil, nil, err
	}

	room.Players = append(room.Players, *player)
	return room, player, nil
}

// GetRoom looks up an active room by its short code.
func (s *RoomService) GetRoom(ctx context.Context, code string) (*domain.Room, error) {
	room, err := s.roomRepo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if !room.IsActive {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomService) GetActiveRooms(ctx context.Context) ([]*domain.Room, error) {
	return s.roomRepo.GetActive(ctx)
}

func (s *RoomService) generateUniqueCode(ctx context.Context) (string, error) {
	code := domain.GenerateRoomCode()
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		exists, err := s.roomRepo.CodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
		code = domain.GenerateRoomCode()
	}
	// Bounded retry exhausted; force the last candidate and let the unique
	// index catch the astronomically unlikely collision.
	return code, nil
}
