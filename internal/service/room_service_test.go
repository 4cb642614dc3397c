package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/repository/postgres"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/dom/truth-dare-game/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomService_CreateRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	roomService := service.NewRoomService(repos.Room, repos.Player)
	ctx := context.Background()

	room, player, err := roomService.CreateRoom(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, room)
	require.NotNil(t, player)

	assert.Len(t, room.Code, domain.RoomCodeLength)
	assert.True(t, room.IsActive)
	assert.Equal(t, "alice", room.CreatedBy)
	assert.Nil(t, room.CurrentGameStateID)

	assert.Equal(t, room.ID, player.RoomID)
	assert.Equal(t, "alice", player.Name)
	assert.Equal(t, 1, player.JoinOrder)
}

func TestRoomService_CreateRoom_UniqueCodes(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	roomService := service.NewRoomService(repos.Room, repos.Player)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		room, _, err := roomService.CreateRoom(ctx, "host")
		require.NoError(t, err)
		assert.False(t, seen[room.Code], "duplicate room code %s", room.Code)
		seen[room.Code] = true
	}
}

func TestRoomService_JoinRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	roomService := service.NewRoomService(repos.Room, repos.Player)
	ctx := context.Background()

	room, _, err := roomService.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	joined, player, err := roomService.JoinRoom(ctx, room.Code, "bob")
	require.NoError(t, err)
	assert.Equal(t, room.ID, joined.ID)
	assert.Equal(t, "bob", player.Name)
	assert.Equal(t, 2, player.JoinOrder)
	assert.True(t, joined.IsFull())
}

func TestRoomService_JoinRoom_Errors(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	roomService := service.NewRoomService(repos.Room, repos.Player)
	ctx := context.Background()

	room, _, err := roomService.CreateRoom(ctx, "alice")
	require.NoError(t, err)
	_, _, err = roomService.JoinRoom(ctx, room.Code, "bob")
	require.NoError(t, err)

	tests := []struct {
		name       string
		code       string
		playerName string
		wantErr    error
	}{
		{
			name:       "third player rejected",
			code:       room.Code,
			playerName: "carol",
			wantErr:    domain.ErrRoomFull,
		},
		{
			name:       "duplicate name rejected",
			code:       room.Code,
			playerName: "alice",
			wantErr:    domain.ErrNameTaken,
		},
		{
			name:       "unknown code",
			code:       "ZZZZZZ",
			playerName: "carol",
			wantErr:    domain.ErrRoomNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := roomService.JoinRoom(ctx, tt.code, tt.playerName)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRoomService_JoinRoom_ConcurrentJoins(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	roomService := service.NewRoomService(repos.Room, repos.Player)
	ctx := context.Background()

	room, _, err := roomService.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	const joiners = 8
	errs := make([]error, joiners)
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = roomService.JoinRoom(ctx, room.Code, fmt.Sprintf("guest-%d", i))
		}(i)
	}
	wg.Wait()

	var joined int
	for _, err := range errs {
		if err == nil {
			joined++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrRoomFull)
	}
	assert.Equal(t, 1, joined)

	// Exactly one join won the race; the room holds two players with
	// distinct join orders.
	found, err := roomService.GetRoom(ctx, room.Code)
	require.NoError(t, err)
	require.Len(t, found.Players, 2)
	assert.Equal(t, 1, found.Players[0].JoinOrder)
	assert.Equal(t, 2, found.Players[1].JoinOrder)
	assert.True(t, found.IsFull())
}

func TestRoomService_GetRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	roomService := service.NewRoomService(repos.Room, repos.Player)
	ctx := context.Background()

	room, _, err := roomService.CreateRoom(ctx, "alice")
	require.NoError(t, err)

	t.Run("code lookup is case-insensitive and trims whitespace", func(t *testing.T) {
		found, err := roomService.GetRoom(ctx, "  "+room.Code+" ")
		require.NoError(t, err)
		assert.Equal(t, room.ID, found.ID)
	})

	t.Run("players load in join order", func(t *testing.T) {
		_, _, err := roomService.JoinRoom(ctx, room.Code, "bob")
		require.NoError(t, err)

		found, err := roomService.GetRoom(ctx, room.Code)
		require.NoError(t, err)
		require.Len(t, found.Players, 2)
		assert.Equal(t, "alice", found.Players[0].Name)
		assert.Equal(t, "bob", found.Players[1].Name)
	})

	t.Run("inactive room is not found", func(t *testing.T) {
		closed := testutil.NewRoomBuilder().Inactive().Build(t, testDB.DB)
		_, err := roomService.GetRoom(ctx, closed.Code)
		assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	})
}
