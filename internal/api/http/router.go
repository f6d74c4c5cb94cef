package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-labs/mesa-ayuda/internal/api/http/handlers"
	"github.com/helpdesk-labs/mesa-ayuda/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Stats          *handlers.StatsHandler
	Users          *handlers.UsersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/registro", cfg.Auth.Register)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Put("/:id/asignar", auth.RequireAdmin(), cfg.Tickets.Assign)
	tickets.Get("/:id/interacciones", cfg.Tickets.ListInteracciones)
	tickets.Post("/:id/interacciones", cfg.Tickets.AddInteraccion)
	tickets.Get("/:id/eventos", cfg.Tickets.ListEventos)

	app.Get("/estadisticas", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Stats.Snapshot)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/usuarios", cfg.Users.List)
	admin.Put("/usuarios/:id", cfg.Users.Update)
}
