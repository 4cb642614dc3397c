package service_test

import (
	"context"
	"testing"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/repository/postgres"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/dom/truth-dare-game/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGameService(t *testing.T) (*service.GameService, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	prompts := service.NewPromptSourceClient(testutil.TestConfig())
	gameService := service.NewGameService(repos.Room, repos.GameState, repos.Prompt, repos.Answer, repos.GameEvent, prompts)
	return gameService, testDB
}

func TestGameService_InitializeGame(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	t.Run("requires two players", func(t *testing.T) {
		room := testutil.NewRoomBuilder().WithPlayers("alice").Build(t, testDB.DB)
		_, err := gameService.InitializeGame(ctx, room.ID)
		assert.ErrorIs(t, err, domain.ErrNotEnoughPlayers)
	})

	t.Run("first turn goes to the first joiner", func(t *testing.T) {
		room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
		state, err := gameService.InitializeGame(ctx, room.ID)
		require.NoError(t, err)

		require.NotNil(t, state.CurrentTurnPlayerID)
		assert.Equal(t, room.Players[0].ID, *state.CurrentTurnPlayerID)
		assert.Equal(t, 1, state.RoundNumber)
		assert.False(t, state.AwaitingPrompt)
	})

	t.Run("idempotent", func(t *testing.T) {
		room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
		first, err := gameService.InitializeGame(ctx, room.ID)
		require.NoError(t, err)

		second, err := gameService.InitializeGame(ctx, room.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := gameService.InitializeGame(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})
}

func TestGameService_Choose(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
	state, err := gameService.InitializeGame(ctx, room.ID)
	require.NoError(t, err)

	alice := room.Players[0]
	bob := room.Players[1]

	t.Run("invalid category", func(t *testing.T) {
		_, err := gameService.Choose(ctx, room.ID, alice.ID, "chicken")
		assert.ErrorIs(t, err, domain.ErrInvalidCategory)
	})

	t.Run("out-of-turn choice rejected without mutation", func(t *testing.T) {
		_, err := gameService.Choose(ctx, room.ID, bob.ID, domain.CategoryTruth)
		assert.ErrorIs(t, err, domain.ErrNotYourTurn)

		var after domain.GameState
		require.NoError(t, testDB.DB.First(&after, "id = ?", state.ID).Error)
		assert.Empty(t, after.CurrentChoice)
		assert.False(t, after.AwaitingPrompt)
	})

	t.Run("current player gets a prompt, fallback when API is unreachable", func(t *testing.T) {
		prompt, err := gameService.Choose(ctx, room.ID, alice.ID, domain.CategoryTruth)
		require.NoError(t, err)

		assert.Equal(t, service.FallbackPrompt(domain.CategoryTruth), prompt.Text)
		assert.Equal(t, domain.CategoryTruth, prompt.Category)
		assert.Equal(t, domain.SourceAPI, prompt.Source)
		assert.False(t, prompt.Answered)

		var after domain.GameState
		require.NoError(t, testDB.DB.First(&after, "id = ?", state.ID).Error)
		assert.Equal(t, domain.CategoryTruth, after.CurrentChoice)
		assert.True(t, after.AwaitingPrompt)
	})
}

func TestGameService_SubmitAnswer(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
	_, err := gameService.InitializeGame(ctx, room.ID)
	require.NoError(t, err)

	alice := room.Players[0]
	bob := room.Players[1]

	t.Run("no prompt pending", func(t *testing.T) {
		_, _, err := gameService.SubmitAnswer(ctx, room.ID, alice.ID, "too early")
		assert.ErrorIs(t, err, domain.ErrNoCurrentPrompt)
	})

	prompt, err := gameService.Choose(ctx, room.ID, alice.ID, domain.CategoryDare)
	require.NoError(t, err)

	t.Run("opponent cannot answer", func(t *testing.T) {
		_, _, err := gameService.SubmitAnswer(ctx, room.ID, bob.ID, "not mine")
		assert.ErrorIs(t, err, domain.ErrNotYourTurn)
	})

	t.Run("answer marks prompt answered", func(t *testing.T) {
		answer, state, err := gameService.SubmitAnswer(ctx, room.ID, alice.ID, "done")
		require.NoError(t, err)
		assert.Equal(t, prompt.ID, answer.PromptID)
		assert.Equal(t, alice.ID, answer.PlayerID)
		assert.False(t, state.AwaitingAnswer)

		var after domain.Prompt
		require.NoError(t, testDB.DB.First(&after, "id = ?", prompt.ID).Error)
		assert.True(t, after.Answered)
	})

	t.Run("second submission rejected", func(t *testing.T) {
		_, _, err := gameService.SubmitAnswer(ctx, room.ID, alice.ID, "again")
		assert.ErrorIs(t, err, domain.ErrNoCurrentPrompt)
	})
}

func TestGameService_AdvanceRound(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
	_, err := gameService.InitializeGame(ctx, room.ID)
	require.NoError(t, err)

	alice := room.Players[0]
	bob := room.Players[1]

	_, err = gameService.Choose(ctx, room.ID, alice.ID, domain.CategoryTruth)
	require.NoError(t, err)

	// alice -> bob: still round 1
	state, err := gameService.AdvanceRound(ctx, room.ID)
	require.NoError(t, err)
	require.NotNil(t, state.CurrentTurnPlayerID)
	assert.Equal(t, bob.ID, *state.CurrentTurnPlayerID)
	assert.Equal(t, 1, state.RoundNumber)
	assert.Empty(t, state.CurrentChoice)
	assert.False(t, state.AwaitingPrompt)

	// bob -> alice: the pass completes, round 2
	state, err = gameService.AdvanceRound(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, *state.CurrentTurnPlayerID)
	assert.Equal(t, 2, state.RoundNumber)

	// alice -> bob again: round stays at 2
	state, err = gameService.AdvanceRound(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, *state.CurrentTurnPlayerID)
	assert.Equal(t, 2, state.RoundNumber)
}

func TestGameService_AdvanceRound_NotStarted(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
	_, err := gameService.AdvanceRound(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrGameNotStarted)
}

func TestGameService_InjectModeratorPrompt(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
	state, err := gameService.InitializeGame(ctx, room.ID)
	require.NoError(t, err)

	alice := room.Players[0]

	// A pending prompt from the normal flow.
	pending, err := gameService.Choose(ctx, room.ID, alice.ID, domain.CategoryTruth)
	require.NoError(t, err)

	injected, err := gameService.InjectModeratorPrompt(ctx, room.ID, "Sing a song.", domain.CategoryDare)
	require.NoError(t, err)
	assert.Equal(t, domain.SourceModerator, injected.Source)
	assert.Equal(t, domain.CategoryDare, injected.Category)

	// The displaced prompt is retired; exactly one prompt remains unanswered.
	var displaced domain.Prompt
	require.NoError(t, testDB.DB.First(&displaced, "id = ?", pending.ID).Error)
	assert.True(t, displaced.Answered)

	var unanswered int64
	require.NoError(t, testDB.DB.Model(&domain.Prompt{}).
		Where("game_state_id = ? AND answered = false", state.ID).
		Count(&unanswered).Error)
	assert.Equal(t, int64(1), unanswered)
}

func TestGameService_InjectModeratorPrompt_NotStarted(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithPlayers("alice").Build(t, testDB.DB)
	_, err := gameService.InjectModeratorPrompt(ctx, room.ID, "text", domain.CategoryTruth)
	assert.ErrorIs(t, err, domain.ErrGameNotStarted)
}

// Full pass through a game: both players take a turn and the round counter
// advances when the turn returns to the first joiner.
func TestGameService_FullGameFlow(t *testing.T) {
	gameService, testDB := newGameService(t)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithPlayers("alice", "bob").Build(t, testDB.DB)
	_, err := gameService.InitializeGame(ctx, room.ID)
	require.NoError(t, err)

	alice := room.Players[0]
	bob := room.Players[1]

	// Round 1, alice's turn.
	_, err = gameService.Choose(ctx, room.ID, alice.ID, domain.CategoryTruth)
	require.NoError(t, err)
	_, _, err = gameService.SubmitAnswer(ctx, room.ID, alice.ID, "spiders")
	require.NoError(t, err)
	state, err := gameService.AdvanceRound(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, *state.CurrentTurnPlayerID)
	assert.Equal(t, 1, state.RoundNumber)

	// Round 1, bob's turn.
	_, err = gameService.Choose(ctx, room.ID, bob.ID, domain.CategoryDare)
	require.NoError(t, err)
	_, _, err = gameService.SubmitAnswer(ctx, room.ID, bob.ID, "did it")
	require.NoError(t, err)
	state, err = gameService.AdvanceRound(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, *state.CurrentTurnPlayerID)
	assert.Equal(t, 2, state.RoundNumber)

	// The answered history is visible for the status fallback view.
	prompt, answer, err := gameService.LatestAnsweredPrompt(ctx, mustReloadRoom(t, testDB, room.ID))
	require.NoError(t, err)
	require.NotNil(t, prompt)
	require.NotNil(t, answer)
	assert.Equal(t, domain.CategoryDare, prompt.Category)
	assert.Equal(t, "did it", answer.Text)
}

func mustReloadRoom(t *testing.T, testDB *testutil.TestDB, roomID uuid.UUID) *domain.Room {
	t.Helper()
	repos := postgres.NewRepositories(testDB.DB)
	room, err := repos.Room.GetByID(context.Background(), roomID)
	require.NoError(t, err)
	return room
}
