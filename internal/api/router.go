package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rrens/nutrisaas-chat/internal/api/handler"
	customMiddleware "github.com/Rrens/nutrisaas-chat/internal/api/middleware"
	"github.com/Rrens/nutrisaas-chat/internal/config"
	"github.com/Rrens/nutrisaas-chat/internal/conversation"
	"github.com/Rrens/nutrisaas-chat/internal/security"
	"github.com/Rrens/nutrisaas-chat/internal/service"
)

// Services are the wired application components the router exposes
type Services struct {
	Chat      *service.ChatService
	Profiles  *service.ProfileService
	Exchanges *service.ExchangeRecorder
	JWT       *security.JWTManager
	Ready     map[string]handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, svc Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.WriteTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMiddleware := customMiddleware.NewAuthMiddleware(svc.JWT, svc.Profiles)

	guestHandler := handler.NewChatHandler(svc.Chat, conversation.AudienceGuest)
	memberHandler := handler.NewChatHandler(svc.Chat, conversation.AudienceMember)
	adminHandler := handler.NewChatHandler(svc.Chat, conversation.AudienceAdmin)
	profileHandler := handler.NewProfileHandler(svc.Profiles)
	historyHandler := handler.NewHistoryHandler(svc.Exchanges)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(svc.Ready))

		r.Route("/chat", func(r chi.Router) {
			// Guest sessions are public
			r.Route("/guest/sessions", sessionRoutes(guestHandler))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)

				r.Get("/history", historyHandler.List)
				r.Route("/member/sessions", sessionRoutes(memberHandler))

				r.Group(func(r chi.Router) {
					r.Use(authMiddleware.RequireAdmin)
					r.Route("/admin/sessions", sessionRoutes(adminHandler))
				})
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/profile", profileHandler.Get)
		})
	})

	return r
}

func sessionRoutes(h *handler.ChatHandler) func(r chi.Router) {
	return func(r chi.Router) {
		r.Post("/", h.Create)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.End)
			r.Post("/turns", h.Turn)
		})
	}
}
