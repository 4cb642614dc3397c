package domain

import "errors"

// Room and player errors
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomInactive   = errors.New("room is not active")
	ErrRoomFull       = errors.New("room is full")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNameTaken      = errors.New("player name already taken in this room")
)

// Turn machine errors
var (
	ErrGameNotStarted   = errors.New("game has not started")
	ErrNotEnoughPlayers = errors.New("room needs two players to start")
	ErrNotYourTurn      = errors.New("not your turn")
	ErrInvalidCategory  = errors.New("category must be truth or dare")
	ErrNoCurrentPrompt  = errors.New("no unanswered prompt for this game")
	ErrAlreadyAnswered  = errors.New("player already answered this prompt")
)

// Standalone errors
var (
	ErrSessionNotFound = errors.New("standalone session not found")
)
