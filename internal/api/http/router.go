package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civic-kit/complaint-service/internal/api/http/handlers"
	"github.com/civic-kit/complaint-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Agents         *handlers.AgentsHandler
	Tickets        *handlers.TicketsHandler
	Comments       *handlers.CommentsHandler
	Taxonomy       *handlers.TaxonomyHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Citizen-facing routes are open; triage
// and taxonomy mutations require an authenticated agent.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/agents/login", cfg.Agents.Login)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Get("/user/:userId", cfg.Tickets.ListByUser)
	tickets.Get("/module/name/:moduleName", cfg.Taxonomy.ListTicketsByModuleName)
	tickets.Get("/module/:moduleId", cfg.Tickets.ListByModule)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/images", cfg.Tickets.AddImages)
	tickets.Delete("/:id/images", cfg.Tickets.RemoveImage)
	tickets.Post("/:id/upvote", cfg.Tickets.Upvote)
	tickets.Post("/:id/downvote", cfg.Tickets.Downvote)

	staffTickets := tickets.Group("", cfg.AuthMiddleware.Handle, auth.RequireAgent())
	staffTickets.Put("/:id/assign", cfg.Tickets.Assign)
	staffTickets.Put("/:id/complete", cfg.Tickets.Complete)
	staffTickets.Put("/:id/status", cfg.Tickets.SetStatus)
	staffTickets.Post("/:id/transfer", cfg.Tickets.Transfer)
	staffTickets.Get("/:id/transfers", cfg.Tickets.ListTransfers)

	comments := app.Group("/comments")
	comments.Post("/", cfg.Comments.Create)
	comments.Get("/tickets/:id", cfg.AuthMiddleware.HandleOptional, cfg.Comments.ListForTicket)

	app.Get("/modules", cfg.Taxonomy.ListModules)
	app.Post("/modules", cfg.AuthMiddleware.Handle, auth.RequireAgent(), cfg.Taxonomy.CreateModule)

	app.Get("/categories", cfg.Taxonomy.ListCategories)
	app.Get("/categories/id/:moduleId", cfg.Taxonomy.ListCategoriesByModule)
	app.Get("/categories/module/:moduleName", cfg.Taxonomy.ListCategoriesByModuleName)
	app.Post("/categories", cfg.AuthMiddleware.Handle, auth.RequireAgent(), cfg.Taxonomy.CreateCategory)
}
