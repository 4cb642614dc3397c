package api

import (
	"net/http"
	"time"

	"github.com/dom/truth-dare-game/internal/api/handlers"
	"github.com/dom/truth-dare-game/internal/api/middleware"
	"github.com/dom/truth-dare-game/internal/config"
	"github.com/dom/truth-dare-game/internal/service"
	"github.com/dom/truth-dare-game/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(services.Room, services.Game)
	gameHandler := handlers.NewGameHandler(services.Room, services.Game)
	standaloneHandler := handlers.NewStandaloneHandler(services.Standalone)
	moderatorHandler := handlers.NewModeratorHandler(services.Auth, services.Room, services.Game, services.Standalone, hub)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Room, services.Game)

	standaloneLimiter := middleware.NewIPRateLimiter(cfg.StandaloneRequestsPerMinute, cfg.StandaloneBurst, 5*time.Minute)

	r.Route("/api", func(r chi.Router) {
		// Room lifecycle and the synchronous game surface
		r.Route("/rooms", func(r chi.Router) {
			r.Post("/", roomHandler.Create)
			r.Post("/join", roomHandler.Join)

			r.Route("/{code}", func(r chi.Router) {
				r.Get("/status", roomHandler.Status)
				r.Post("/start", gameHandler.Start)
				r.Post("/choose", gameHandler.Choose)
				r.Post("/answer", gameHandler.SubmitAnswer)
				r.Post("/next-round", gameHandler.NextRound)
			})
		})

		// Standalone requests
		r.Route("/standalone", func(r chi.Router) {
			r.With(middleware.RateLimitByIP(standaloneLimiter)).
				Post("/requests", standaloneHandler.Submit)
			r.Get("/requests/{sessionID}", standaloneHandler.Status)
		})

		// Moderator interface
		r.Route("/moderator", func(r chi.Router) {
			r.Post("/login", moderatorHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.ModeratorAuth(services.Auth))
				r.Get("/overview", moderatorHandler.Overview)
				r.Post("/rooms/{code}/inject", moderatorHandler.InjectRoomQuestion)
				r.Post("/standalone/{sessionID}/approve", moderatorHandler.ApproveStandalone)
				r.Post("/standalone/{sessionID}/inject", moderatorHandler.InjectStandalone)
			})
		})
	})

	// WebSocket endpoints
	r.Get("/ws/rooms/{code}", wsHandler.HandleRoom)
	r.Get("/ws/standalone/{sessionID}", wsHandler.HandleStandalone)

	return r
}
