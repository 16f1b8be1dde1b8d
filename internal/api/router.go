package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/squadup/squadup/internal/api/handler"
	"github.com/squadup/squadup/internal/api/middleware"
	"github.com/squadup/squadup/internal/auth"
	"github.com/squadup/squadup/internal/roster"
	"github.com/squadup/squadup/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Roster   *roster.Store
	Registry *team.Registry
	Auth     *auth.Service
	Store    handler.StorePinger
	Version  string
}

// NewRouter creates and configures a Chi router with all middleware and
// routes. Admin-only mutations sit behind the admin session middleware.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.Store, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	authHandler := handler.NewAuthHandler(deps.Auth)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
	})

	playerHandler := handler.NewPlayerHandler(deps.Roster, deps.Registry)
	teamHandler := handler.NewTeamHandler(deps.Roster, deps.Registry)

	r.Get("/classes", playerHandler.Classes)

	r.Route("/players", func(r chi.Router) {
		r.Get("/", playerHandler.List)
		r.Get("/available", playerHandler.ListAvailable)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(deps.Auth))
			r.Post("/", playerHandler.Create)
			r.Put("/{id}", playerHandler.Update)
			r.Delete("/{id}", playerHandler.Delete)
			r.Post("/reset-selections", playerHandler.ResetSelections)
		})
	})

	r.Route("/teams", func(r chi.Router) {
		r.Get("/", teamHandler.List)
		r.Post("/", teamHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(deps.Auth))
			r.Delete("/{index}", teamHandler.Delete)
		})
	})

	return r
}
