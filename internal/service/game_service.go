package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/repository"
	"github.com/google/uuid"
)

// GameService is the turn management engine. Every mutating operation locks
// the room, re-reads it, and applies the transition as one read-modify-write,
// so the turn-ownership check can never race another caller's mutation.
type GameService struct {
	roomRepo      repository.RoomRepository
	gameStateRepo repository.GameStateRepository
	promptRepo    repository.PromptRepository
	answerRepo    repository.AnswerRepository
	eventRepo     repository.GameEventRepository
	prompts       *PromptSourceClient
	locks         *roomLocks
}

func NewGameService(
	roomRepo repository.RoomRepository,
	gameStateRepo repository.GameStateRepository,
	promptRepo repository.PromptRepository,
	answerRepo repository.AnswerRepository,
	eventRepo repository.GameEventRepository,
	prompts *PromptSourceClient,
) *GameService {
	return &GameService{
		roomRepo:      roomRepo,
		gameStateRepo: gameStateRepo,
		promptRepo:    promptRepo,
		answerRepo:    answerRepo,
		eventRepo:     eventRepo,
		prompts:       prompts,
		locks:         newRoomLocks(),
	}
}

// InitializeGame starts a game once two players are present. Idempotent: an
// existing current game state is returned unchanged.
func (s *GameService) InitializeGame(ctx context.Context, roomID uuid.UUID) (*domain.GameState, error) {
	lock := s.locks.get(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.CurrentGameStateID != nil {
		return s.gameStateRepo.GetByID(ctx, *room.CurrentGameStateID)
	}

	if len(room.Players) != domain.MaxPlayersPerRoom {
		return nil, domain.ErrNotEnoughPlayers
	}

	first := room.PlayerByJoinOrder(1)
	state := &domain.GameState{
		ID:                  uuid.New(),
		RoomID:              room.ID,
		CurrentTurnPlayerID: &first.ID,
		RoundNumber:         1,
	}
	if err := s.gameStateRepo.Create(ctx, state); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, room.ID, domain.EventGameStarted, map[string]interface{}{
		"game_state_id": state.ID,
		"first_turn":    first.Name,
		"first_turn_id": first.ID,
	})
	return state, nil
}

// CurrentGameState resolves the room's authoritative game state, or nil when
// no game has started.
func (s *GameService) CurrentGameState(ctx context.Context, room *domain.Room) (*domain.GameState, error) {
	if room.CurrentGameStateID == nil {
		return nil, nil
	}
	return s.gameStateRepo.GetByID(ctx, *room.CurrentGameStateID)
}

// CurrentPrompt returns the most recent unanswered prompt for the room's
// current game state, or nil.
func (s *GameService) CurrentPrompt(ctx context.Context, room *domain.Room) (*domain.Prompt, error) {
	if room.CurrentGameStateID == nil {
		return nil, nil
	}
	return s.promptRepo.GetCurrentUnanswered(ctx, *room.CurrentGameStateID)
}

// Choose records the current-turn player's truth/dare choice, fetches a
// prompt from the content API, and persists it. Rejected when the caller is
// not the current-turn player.
func (s *GameService) Choose(ctx context.Context, roomID, playerID uuid.UUID, category domain.PromptCategory) (*domain.Prompt, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	lock := s.locks.get(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	state, err := s.CurrentGameState(ctx, room)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, domain.ErrGameNotStarted
	}
	if state.CurrentTurnPlayerID == nil || *state.CurrentTurnPlayerID != playerID {
		return nil, domain.ErrNotYourTurn
	}

	state.CurrentChoice = category
	state.AwaitingPrompt = true
	if err := s.gameStateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	text, source := s.prompts.Fetch(category)

	prompt := &domain.Prompt{
		ID:          uuid.New(),
		RoomID:      room.ID,
		GameStateID: state.ID,
		Text:        text,
		Category:    category,
		Source:      source,
	}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, room.ID, domain.EventChoiceMade, map[string]interface{}{
		"player_id": playerID,
		"category":  category,
		"prompt_id": prompt.ID,
	})
	return prompt, nil
}

// InjectModeratorPrompt bypasses turn ownership entirely. Any unanswered
// prompt is marked answered before the new one is inserted, so a single
// unanswered prompt per game state holds even mid-turn.
func (s *GameService) InjectModeratorPrompt(ctx context.Context, roomID uuid.UUID, text string, category domain.PromptCategory) (*domain.Prompt, error) {
	if !category.Valid() {
		return nil, domain.ErrInvalidCategory
	}

	lock := s.locks.get(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	state, err := s.CurrentGameState(ctx, room)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, domain.ErrGameNotStarted
	}

	if err := s.promptRepo.MarkAllAnswered(ctx, state.ID); err != nil {
		return nil, err
	}

	prompt := &domain.Prompt{
		ID:          uuid.New(),
		RoomID:      room.ID,
		GameStateID: state.ID,
		Text:        text,
		Category:    category,
		Source:      domain.SourceModerator,
	}
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, room.ID, domain.EventPromptInjected, map[string]interface{}{
		"prompt_id": prompt.ID,
		"category":  category,
	})
	return prompt, nil
}

// SubmitAnswer records the current-turn player's answer and marks the prompt
// answered. It does not advance the turn; the opponent gets to see the answer
// before AdvanceRound moves the game on.
func (s *GameService) SubmitAnswer(ctx context.Context, roomID, playerID uuid.UUID, text string) (*domain.Answer, *domain.GameState, error) {
	lock := s.locks.get(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, nil, err
	}
	state, err := s.CurrentGameState(ctx, room)
	if err != nil {
		return nil, nil, err
	}
	if state == nil {
		return nil, nil, domain.ErrGameNotStarted
	}
	if state.CurrentTurnPlayerID == nil || *state.CurrentTurnPlayerID != playerID {
		return nil, nil, domain.ErrNotYourTurn
	}

	prompt, err := s.promptRepo.GetCurrentUnanswered(ctx, state.ID)
	if err != nil {
		return nil, nil, err
	}
	if prompt == nil {
		return nil, nil, domain.ErrNoCurrentPrompt
	}

	exists, err := s.answerRepo.ExistsForPromptAndPlayer(ctx, prompt.ID, playerID)
	if err != nil {
		return nil, nil, err
	}
	if exists {
		return nil, nil, domain.ErrAlreadyAnswered
	}

	answer := &domain.Answer{
		ID:       uuid.New(),
		PromptID: prompt.ID,
		PlayerID: playerID,
		Text:     text,
	}
	if err := s.answerRepo.Create(ctx, answer); err != nil {
		return nil, nil, err
	}

	prompt.Answered = true
	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, nil, err
	}

	state.AwaitingAnswer = false
	if err := s.gameStateRepo.Update(ctx, state); err != nil {
		return nil, nil, err
	}

	s.recordEvent(ctx, room.ID, domain.EventAnswerSubmitted, map[string]interface{}{
		"player_id": playerID,
		"prompt_id": prompt.ID,
		"answer_id": answer.ID,
	})
	return answer, state, nil
}

// AdvanceRound swaps the turn to the opponent. A round is one full pass
// through both players starting from turn slot 1, so the counter increments
// only when the turn comes back around to the slot-1 player.
func (s *GameService) AdvanceRound(ctx context.Context, roomID uuid.UUID) (*domain.GameState, error) {
	lock := s.locks.get(roomID)
	lock.Lock()
	defer lock.Unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	state, err := s.CurrentGameState(ctx, room)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, domain.ErrGameNotStarted
	}
	if state.CurrentTurnPlayerID == nil {
		return nil, domain.ErrGameNotStarted
	}

	next := room.Opponent(*state.CurrentTurnPlayerID)
	if next == nil {
		return nil, domain.ErrNotEnoughPlayers
	}

	state.CurrentTurnPlayerID = &next.ID
	if next.JoinOrder == 1 {
		state.RoundNumber++
	}
	state.CurrentChoice = ""
	state.AwaitingPrompt = false
	if err := s.gameStateRepo.Update(ctx, state); err != nil {
		return nil, err
	}

	s.recordEvent(ctx, room.ID, domain.EventRoundAdvanced, map[string]interface{}{
		"next_turn":    next.Name,
		"next_turn_id": next.ID,
		"round_number": state.RoundNumber,
	})
	return state, nil
}

// LatestAnsweredPrompt backs the status endpoint's fallback view: when no
// prompt is pending, show the one most recently answered, with its answer.
func (s *GameService) LatestAnsweredPrompt(ctx context.Context, room *domain.Room) (*domain.Prompt, *domain.Answer, error) {
	if room.CurrentGameStateID == nil {
		return nil, nil, nil
	}
	prompt, err := s.promptRepo.GetLatestAnswered(ctx, *room.CurrentGameStateID)
	if err != nil || prompt == nil {
		return nil, nil, err
	}
	answers, err := s.answerRepo.GetByPrompt(ctx, prompt.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(answers) == 0 {
		return prompt, nil, nil
	}
	return prompt, answers[0], nil
}

func (s *GameService) RecentEvents(ctx context.Context, roomID uuid.UUID, limit int) ([]*domain.GameEvent, error) {
	return s.eventRepo.GetByRoomID(ctx, roomID, limit)
}

// recordEvent is best-effort; a failed audit write never fails the operation
// it describes.
func (s *GameService) recordEvent(ctx context.Context, roomID uuid.UUID, eventType domain.GameEventType, payload map[string]interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %s event payload: %v", eventType, err)
		return
	}
	event := &domain.GameEvent{
		RoomID:  roomID,
		Type:    eventType,
		Payload: data,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Printf("failed to record %s event for room %s: %v", eventType, roomID, err)
	}
}
