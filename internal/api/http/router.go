package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tcgvault/card-catalog/internal/api/http/handlers"
	"github.com/tcgvault/card-catalog/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Cards          *handlers.CardsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	app.Post("/getToken", cfg.Auth.GetToken)

	app.Get("/cards", cfg.Cards.List)
	app.Get("/cards/count", cfg.Cards.Count)
	app.Get("/cards/random", cfg.Cards.Random)
	app.Get("/sets", cfg.Cards.Sets)
	app.Get("/types", cfg.Cards.Types)
	app.Get("/rarities", cfg.Cards.Rarities)

	protected := cfg.AuthMiddleware.Handle
	app.Post("/cards/create", protected, cfg.Cards.Create)
	app.Put("/cards/:id", protected, cfg.Cards.Update)
	app.Delete("/cards/:id", protected, cfg.Cards.Delete)
}
