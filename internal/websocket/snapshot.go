package websocket

import (
	"context"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/service"
)

// BuildRoomState assembles the full snapshot every connecting or notified
// client receives.
func BuildRoomState(ctx context.Context, gameSvc *service.GameService, room *domain.Room) (*RoomStateMessage, error) {
	msg := &RoomStateMessage{
		Type: MessageTypeRoomState,
		Room: RoomInfo{
			Code:     room.Code,
			IsActive: room.IsActive,
			IsFull:   room.IsFull(),
		},
		Players: make([]PlayerInfo, 0, len(room.Players)),
	}

	for _, p := range room.Players {
		msg.Players = append(msg.Players, PlayerInfo{
			ID:        p.ID.String(),
			Name:      p.Name,
			JoinOrder: p.JoinOrder,
		})
	}

	state, err := gameSvc.CurrentGameState(ctx, room)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return msg, nil
	}

	info := &GameStateInfo{
		RoundNumber:          state.RoundNumber,
		CurrentChoice:        string(state.CurrentChoice),
		IsWaitingForQuestion: state.AwaitingPrompt,
		IsWaitingForAnswer:   state.AwaitingAnswer,
	}
	if state.CurrentTurnPlayerID != nil {
		id := state.CurrentTurnPlayerID.String()
		info.CurrentTurnPlayerID = &id
		if p := room.PlayerByID(*state.CurrentTurnPlayerID); p != nil {
			info.CurrentTurnPlayerName = &p.Name
		}
	}
	msg.GameState = info

	prompt, err := gameSvc.CurrentPrompt(ctx, room)
	if err != nil {
		return nil, err
	}
	if prompt != nil {
		q := NewQuestionInfo(prompt)
		msg.CurrentQuestion = &q
	}

	return msg, nil
}

func NewQuestionInfo(prompt *domain.Prompt) QuestionInfo {
	return QuestionInfo{
		ID:     prompt.ID.String(),
		Text:   prompt.Text,
		Type:   string(prompt.Category),
		Source: string(prompt.Source),
	}
}
