package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Agent          *handlers.AgentHandler
	KB             *handlers.KBHandler
	Notifications  *handlers.NotificationsHandler
	Config         *handlers.ConfigHandler
	Realtime       *handlers.RealtimeHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", MetricsHandler(cfg.Metrics))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/reply", cfg.Tickets.Reply)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.Assign)
	tickets.Post("/:id/reopen", auth.RequireStaff(), cfg.Tickets.Reopen)
	tickets.Post("/:id/close", auth.RequireStaff(), cfg.Tickets.Close)
	tickets.Get("/:id/audit", auth.RequireStaff(), cfg.Tickets.AuditTrail)

	agent := api.Group("/agent", auth.RequireStaff())
	agent.Post("/triage", cfg.Agent.Triage)
	agent.Post("/suggestion", cfg.Agent.Suggestion)

	kb := api.Group("/kb")
	kb.Get("", cfg.KB.ListArticles)
	kb.Get("/search", cfg.KB.Search)
	kb.Get("/:id", cfg.KB.GetArticle)
	kb.Post("", auth.RequireStaff(), cfg.KB.CreateArticle)
	kb.Put("/:id", auth.RequireStaff(), cfg.KB.UpdateArticle)
	kb.Delete("/:id", auth.RequireStaff(), cfg.KB.DeleteArticle)

	notifications := api.Group("/notifications")
	notifications.Get("", cfg.Notifications.List)
	notifications.Post("/:id/read", cfg.Notifications.MarkRead)

	admin := api.Group("/admin", auth.RequireRole(domain.RoleAdmin))
	admin.Get("/config", cfg.Config.GetConfig)
	admin.Put("/config", cfg.Config.UpdateConfig)
	admin.Post("/sla/run", cfg.Config.RunSLASweep)

	app.Get("/ws", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Realtime.Upgrade, cfg.Realtime.Stream())
}
