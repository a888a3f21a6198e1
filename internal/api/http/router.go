package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/vetclinic-service/internal/api/http/handlers"
	"github.com/spec-kit/vetclinic-service/internal/auth"
	"github.com/spec-kit/vetclinic-service/internal/observability"
)

// Limiters groups the rate limit middlewares. Nil entries are skipped.
type Limiters struct {
	General  fiber.Handler
	Auth     fiber.Handler
	Anamnese fiber.Handler
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Vets           *handlers.VetHandler
	Clients        *handlers.ClientsHandler
	Pets           *handlers.PetsHandler
	Anamneses      *handlers.AnamneseHandler
	AuthMiddleware *auth.AuthMiddleware
	Limiters       Limiters
	Metrics        *observability.Metrics
	AdminGuard     fiber.Handler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Metrics != nil {
		app.Get("/metrics", orPass(cfg.AdminGuard), adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("", orPass(cfg.Limiters.General))
	protected := cfg.AuthMiddleware.Handle
	authLimiter := orPass(cfg.Limiters.Auth)

	vet := api.Group("/vet")
	vet.Post("/register", authLimiter, cfg.Vets.Register)
	vet.Post("/login", authLimiter, cfg.Vets.Login)
	vet.Post("/refresh", cfg.Vets.Refresh)
	vet.Post("/logout", cfg.Vets.Logout)
	vet.Get("/list", cfg.Vets.List)
	vet.Post("/password", protected, cfg.Vets.ChangePassword)

	client := api.Group("/client", protected)
	client.Post("/", cfg.Clients.Create)
	client.Get("/", cfg.Clients.List)
	client.Get("/:id", cfg.Clients.Get)
	client.Put("/:id", cfg.Clients.Update)
	client.Delete("/:id", cfg.Clients.Delete)

	pet := api.Group("/pet", protected)
	pet.Post("/", cfg.Pets.Create)
	pet.Get("/", cfg.Pets.List)
	pet.Get("/:id", cfg.Pets.Get)
	pet.Put("/:id", cfg.Pets.Update)
	pet.Delete("/:id", cfg.Pets.Delete)

	anamnese := api.Group("/anamnese")
	anamnese.Post("/", orPass(cfg.Limiters.Anamnese), cfg.Anamneses.Submit)
	anamnese.Get("/", protected, cfg.Anamneses.List)
	anamnese.Get("/:id", protected, cfg.Anamneses.Get)
}

func orPass(h fiber.Handler) fiber.Handler {
	if h != nil {
		return h
	}
	return func(c *fiber.Ctx) error { return c.Next() }
}
