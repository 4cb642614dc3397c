package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomBuilder creates test rooms with a builder pattern
type RoomBuilder struct {
	code        string
	isActive    bool
	playerNames []string
}

// NewRoomBuilder creates a new RoomBuilder with default values
func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		code:     domain.GenerateRoomCode(),
		isActive: true,
	}
}

// WithCode sets the room code
func (b *RoomBuilder) WithCode(code string) *RoomBuilder {
	b.code = code
	return b
}

// Inactive marks the room as closed
func (b *RoomBuilder) Inactive() *RoomBuilder {
	b.isActive = false
	return b
}

// WithPlayers adds players in join order
func (b *RoomBuilder) WithPlayers(names ...string) *RoomBuilder {
	b.playerNames = append(b.playerNames, names...)
	return b
}

// Build creates the room and its players in the database
func (b *RoomBuilder) Build(t *testing.T, db *gorm.DB) *domain.Room {
	t.Helper()

	createdBy := ""
	if len(b.playerNames) > 0 {
		createdBy = b.playerNames[0]
	}

	room := &domain.Room{
		ID:        uuid.New(),
		Code:      b.code,
		IsActive:  b.isActive,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}

	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	for i, name := range b.playerNames {
		player := &domain.Player{
			ID:        uuid.New(),
			RoomID:    room.ID,
			Name:      name,
			JoinOrder: i + 1,
			CreatedAt: time.Now(),
		}
		if err := db.Create(player).Error; err != nil {
			t.Fatalf("failed to create player %q: %v", name, err)
		}
		room.Players = append(room.Players, *player)
	}

	return room
}

// GameStateBuilder creates a game state row and points the room at it
type GameStateBuilder struct {
	room        *domain.Room
	turnPlayer  *domain.Player
	roundNumber int
	choice      domain.PromptCategory
	awaiting    bool
}

// NewGameStateBuilder creates a new GameStateBuilder for the given room
func NewGameStateBuilder(room *domain.Room) *GameStateBuilder {
	return &GameStateBuilder{
		room:        room,
		roundNumber: 1,
	}
}

// WithTurn sets whose turn it is
func (b *GameStateBuilder) WithTurn(p *domain.Player) *GameStateBuilder {
	b.turnPlayer = p
	return b
}

// WithRound sets the round number
func (b *GameStateBuilder) WithRound(n int) *GameStateBuilder {
	b.roundNumber = n
	return b
}

// WithChoice sets the active choice and awaiting-prompt flag
func (b *GameStateBuilder) WithChoice(c domain.PromptCategory) *GameStateBuilder {
	b.choice = c
	b.awaiting = true
	return b
}

// Build creates the game state and updates the room's current pointer
func (b *GameStateBuilder) Build(t *testing.T, db *gorm.DB) *domain.GameState {
	t.Helper()

	state := &domain.GameState{
		ID:             uuid.New(),
		RoomID:         b.room.ID,
		RoundNumber:    b.roundNumber,
		CurrentChoice:  b.choice,
		AwaitingPrompt: b.awaiting,
		CreatedAt:      time.Now(),
	}
	if b.turnPlayer == nil && len(b.room.Players) > 0 {
		b.turnPlayer = &b.room.Players[0]
	}
	if b.turnPlayer != nil {
		id := b.turnPlayer.ID
		state.CurrentTurnPlayerID = &id
	}

	if err := db.Create(state).Error; err != nil {
		t.Fatalf("failed to create game state: %v", err)
	}

	if err := db.Model(&domain.Room{}).
		Where("id = ?", b.room.ID).
		Update("current_game_state_id", state.ID).Error; err != nil {
		t.Fatalf("failed to point room at game state: %v", err)
	}
	b.room.CurrentGameStateID = &state.ID

	return state
}

// PromptBuilder creates prompts against a game state
type PromptBuilder struct {
	room     *domain.Room
	state    *domain.GameState
	text     string
	category domain.PromptCategory
	source   domain.PromptSource
	answered bool
}

// NewPromptBuilder creates a new PromptBuilder with default values
func NewPromptBuilder(room *domain.Room, state *domain.GameState) *PromptBuilder {
	return &PromptBuilder{
		room:     room,
		state:    state,
		text:     fmt.Sprintf("test prompt %s", uuid.New().String()[:8]),
		category: domain.CategoryTruth,
		source:   domain.SourceAPI,
	}
}

// WithText sets the prompt text
func (b *PromptBuilder) WithText(text string) *PromptBuilder {
	b.text = text
	return b
}

// WithCategory sets the category
func (b *PromptBuilder) WithCategory(c domain.PromptCategory) *PromptBuilder {
	b.category = c
	return b
}

// FromModerator marks the prompt as moderator-injected
func (b *PromptBuilder) FromModerator() *PromptBuilder {
	b.source = domain.SourceModerator
	return b
}

// Answered marks the prompt as already answered
func (b *PromptBuilder) Answered() *PromptBuilder {
	b.answered = true
	return b
}

// Build creates the prompt in the database
func (b *PromptBuilder) Build(t *testing.T, db *gorm.DB) *domain.Prompt {
	t.Helper()

	prompt := &domain.Prompt{
		ID:          uuid.New(),
		RoomID:      b.room.ID,
		GameStateID: b.state.ID,
		Text:        b.text,
		Category:    b.category,
		Source:      b.source,
		Answered:    b.answered,
		CreatedAt:   time.Now(),
	}

	if err := db.Create(prompt).Error; err != nil {
		t.Fatalf("failed to create prompt: %v", err)
	}

	return prompt
}

// StandaloneBuilder creates standalone session requests
type StandaloneBuilder struct {
	sessionID string
	userName  string
	category  domain.PromptCategory
	status    domain.StandaloneStatus
}

// NewStandaloneBuilder creates a new StandaloneBuilder with default values
func NewStandaloneBuilder() *StandaloneBuilder {
	return &StandaloneBuilder{
		sessionID: uuid.New().String(),
		userName:  fmt.Sprintf("guest_%s", uuid.New().String()[:8]),
		category:  domain.CategoryTruth,
		status:    domain.StandaloneStatusPending,
	}
}

// WithSessionID sets the session identifier
func (b *StandaloneBuilder) WithSessionID(id string) *StandaloneBuilder {
	b.sessionID = id
	return b
}

// WithUserName sets the requester name
func (b *StandaloneBuilder) WithUserName(name string) *StandaloneBuilder {
	b.userName = name
	return b
}

// WithCategory sets the requested prompt category
func (b *StandaloneBuilder) WithCategory(c domain.PromptCategory) *StandaloneBuilder {
	b.category = c
	return b
}

// Build creates the standalone request in the database
func (b *StandaloneBuilder) Build(t *testing.T, db *gorm.DB) *domain.StandaloneRequest {
	t.Helper()

	req := &domain.StandaloneRequest{
		ID:        uuid.New(),
		SessionID: b.sessionID,
		UserName:  b.userName,
		Category:  b.category,
		Status:    b.status,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := db.Create(req).Error; err != nil {
		t.Fatalf("failed to create standalone request: %v", err)
	}

	return req
}

// LoginModerator authenticates against the API and returns a bearer token
func LoginModerator(t *testing.T, ts *TestServer) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"password": TestModeratorPassword})
	resp, err := http.Post(ts.APIURL("/moderator/login"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to log in moderator: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status: %d", resp.StatusCode)
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return loginResp.Token
}

// CreateAuthenticatedRequest creates an HTTP request with an optional auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// PostJSON issues a JSON POST and decodes the response into out (when non-nil)
func PostJSON(t *testing.T, url string, body interface{}, out interface{}) *http.Response {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		t.Fatalf("failed to POST %s: %v", url, err)
	}

	if out != nil {
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response from %s: %v", url, err)
		}
	}

	return resp
}
