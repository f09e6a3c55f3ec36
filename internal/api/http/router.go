package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-service/internal/api/http/handlers"
	"github.com/spec-kit/request-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Requests       *handlers.RequestsHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	requireUser := []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireUser()}

	requests := app.Group("/requests", requireUser...)
	requests.Post("/", cfg.Requests.CreateRequest)
	requests.Get("/:id", cfg.Requests.GetRequest)
	requests.Patch("/:id/message", cfg.Requests.UpdateMessage)
	requests.Post("/:id/votes", cfg.Requests.Vote)
	requests.Post("/:id/revisions", cfg.Requests.Revise)

	threads := app.Group("/threads", requireUser...)
	threads.Get("/:id", cfg.Requests.Thread)
	threads.Get("/:id/latest", cfg.Requests.LatestInThread)

	notifications := app.Group("/notifications", requireUser...)
	notifications.Get("/:id", cfg.Notifications.GetNotification)
}
