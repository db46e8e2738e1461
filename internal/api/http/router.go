package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/devops-app/internal/api/http/handlers"
	"github.com/spec-kit/devops-app/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	App         *handlers.AppHandler
	Health      *handlers.HealthHandler
	Metrics     *observability.Metrics
	MetricsPath string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.App.Root)
	app.Get("/favicon.ico", cfg.App.Favicon)
	app.Get("/healthz", cfg.Health.Healthz)
	app.Get("/hello", cfg.App.Hello)
	app.Get("/work", cfg.App.Work)

	if cfg.Metrics != nil {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
}
