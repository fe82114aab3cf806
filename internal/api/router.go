package api

import (
	"net/http"

	"github.com/dom/trackmeet/internal/api/handlers"
	"github.com/dom/trackmeet/internal/api/middleware"
	"github.com/dom/trackmeet/internal/config"
	"github.com/dom/trackmeet/internal/domain"
	"github.com/dom/trackmeet/internal/metrics"
	"github.com/dom/trackmeet/internal/service"
	"github.com/dom/trackmeet/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config, logger *zap.Logger, m *metrics.Manager) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	if cfg.Environment != "test" {
		r.Use(middleware.RequestLogger(logger))
	}
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)
	r.Use(middleware.Metrics(m))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	authHandler := handlers.NewAuthHandler(services.Auth, logger)
	competitionHandler := handlers.NewCompetitionHandler(services.Competition, logger)
	athleteHandler := handlers.NewAthleteHandler(services.Athlete, logger)
	registrationHandler := handlers.NewRegistrationHandler(services.Registration, logger)
	heatHandler := handlers.NewHeatHandler(services.Heat, services.Competition, logger)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth, logger)

	authenticated := middleware.Auth(services.Auth, logger)
	organizer := middleware.RequireRole(domain.UserRoleOrganizer, domain.UserRoleAdmin)
	judge := middleware.RequireRole(domain.UserRoleJudge, domain.UserRoleOrganizer, domain.UserRoleAdmin)
	admin := middleware.RequireRole(domain.UserRoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authenticated)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
				r.With(admin).Put("/users/{id}/role", authHandler.SetRole)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticated)

			r.Route("/competitions", func(r chi.Router) {
				r.Get("/", competitionHandler.List)
				r.With(organizer).Post("/", competitionHandler.Create)
				r.Get("/{id}", competitionHandler.Get)
				r.Get("/{id}/events", competitionHandler.ListEvents)
				r.With(organizer).Post("/{id}/events", competitionHandler.CreateEvent)
			})

			r.Route("/athletes", func(r chi.Router) {
				r.Get("/", athleteHandler.List)
				r.With(organizer).Post("/", athleteHandler.Create)
				r.Get("/{id}", athleteHandler.Get)
			})

			r.Route("/events/{id}", func(r chi.Router) {
				r.Get("/", competitionHandler.GetEvent)
				r.Get("/registrations", registrationHandler.List)
				r.With(organizer).Post("/registrations", registrationHandler.Register)

				r.Get("/heats", heatHandler.List)
				r.Get("/heats/startlist.xlsx", heatHandler.StartList)
				r.Group(func(r chi.Router) {
					r.Use(organizer)
					r.Post("/heats", heatHandler.Create)
					r.Delete("/heats", heatHandler.DeleteRound)
					r.Post("/heats/auto-assign", heatHandler.AutoAssign)
					r.Post("/heats/advanced-auto-assign", heatHandler.AdvancedAutoAssign)
				})
			})

			r.Route("/registrations/{id}", func(r chi.Router) {
				r.Use(organizer)
				r.Patch("/status", registrationHandler.SetStatus)
				r.Delete("/", registrationHandler.Delete)
			})

			r.Route("/heats/{id}", func(r chi.Router) {
				r.Get("/", heatHandler.Get)
				r.With(organizer).Patch("/", heatHandler.Update)
				r.With(organizer).Delete("/", heatHandler.Delete)
			})

			r.With(judge).Patch("/assignments/{id}/presence", heatHandler.SetPresence)
		})

		// Token travels in the query string, so this sits outside the Auth group
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
