package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/kasi-noc/incident-tickets/internal/api/http/handlers"
	"github.com/kasi-noc/incident-tickets/internal/auth"
	"github.com/kasi-noc/incident-tickets/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
	AuthRequired   bool
	Metrics        *observability.Metrics
	UploadsDir     string
	UploadsPath    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	if cfg.UploadsDir != "" && cfg.UploadsPath != "" {
		app.Static(cfg.UploadsPath, cfg.UploadsDir)
	}

	if cfg.Auth != nil {
		app.Post("/auth/login", cfg.Auth.Login)
	}

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireOperator(cfg.AuthRequired))
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/export/all", cfg.Tickets.ExportTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/history", cfg.Tickets.ListHistory)
	tickets.Get("/:id/download", cfg.Tickets.DownloadTicket)
}
