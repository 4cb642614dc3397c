package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/truth-dare-game/internal/api"
	"github.com/dom/truth-dare-game/internal/config"
	"github.com/dom/truth-dare-game/internal/domain"
	"github.com/dom/truth-dare-game/internal/repository"
	repoPostgres "github.com/dom/truth-dare-game/internal/repository/postgres"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/dom/truth-dare-game/internal/websocket"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestModeratorPassword is the plaintext behind TestConfig's bcrypt hash.
const TestModeratorPassword = "moderator-test-password"

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_truth_dare"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.Room{},
		&domain.Player{},
		&domain.GameState{},
		&domain.Prompt{},
		&domain.Answer{},
		&domain.StandaloneRequest{},
		&domain.GameEvent{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// Close terminates the container
func (tdb *TestDB) Close() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"game_events",
		"answers",
		"prompts",
		"game_states",
		"players",
		"rooms",
		"standalone_requests",
	}

	for _, table := range tables {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing. The prompt API
// base URL points at nothing routable so accidental fetches fail fast into
// the fallback.
func TestConfig() *config.Config {
	hash, _ := bcrypt.GenerateFromPassword([]byte(TestModeratorPassword), bcrypt.MinCost)
	return &config.Config{
		Port:                        "0",
		Environment:                 "test",
		ModeratorPasswordHash:       string(hash),
		JWTSecret:                   "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours:          1,
		PromptAPIBaseURL:            "http://127.0.0.1:1",
		PromptAPIRating:             "PG",
		PromptRateLimit:             10,
		PromptRateWindow:            60 * time.Second,
		StandaloneRequestsPerMinute: 600,
		StandaloneBurst:             100,
	}
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Hub      *websocket.Hub
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos := repoPostgres.NewRepositories(testDB.DB)
	services := service.NewServices(repos, cfg)
	hub := websocket.NewHub(services.Room, services.Game)
	router := api.NewRouter(services, hub, cfg)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Hub:      hub,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// BaseURL returns the test server's base URL
func (ts *TestServer) BaseURL() string {
	return ts.Server.URL
}

// APIURL returns the full API URL for a given path
func (ts *TestServer) APIURL(path string) string {
	return fmt.Sprintf("%s/api%s", ts.Server.URL, path)
}

// RoomWebSocketURL returns the WebSocket URL for a room
func (ts *TestServer) RoomWebSocketURL(code string) string {
	return "ws" + ts.Server.URL[4:] + "/ws/rooms/" + code
}

// StandaloneWebSocketURL returns the WebSocket URL for a standalone session
func (ts *TestServer) StandaloneWebSocketURL(sessionID string) string {
	return "ws" + ts.Server.URL[4:] + "/ws/standalone/" + sessionID
}
