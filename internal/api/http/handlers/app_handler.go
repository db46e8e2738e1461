package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppHandler serves the demonstration endpoints.
type AppHandler struct {
	appName   string
	endpoints []string
}

// NewAppHandler returns a new handler instance. The endpoint list is shown
// on the service index so the service is explorable from a browser.
func NewAppHandler(appName, metricsPath string) *AppHandler {
	return &AppHandler{
		appName: appName,
		endpoints: []string{
			"/healthz",
			"/hello?name=YOU",
			"/work",
			metricsPath,
		},
	}
}

// Root lists the service's endpoints.
func (h *AppHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"app":       h.appName,
		"endpoints": h.endpoints,
	})
}

// Favicon responds 204 so browsers probing for an icon do not produce noisy
// 404s.
func (h *AppHandler) Favicon(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Hello greets the caller by name.
func (h *AppHandler) Hello(c *fiber.Ctx) error {
	name := c.Query("name", "world")
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Hello, %s!", name),
	})
}

// Work simulates a unit of work.
func (h *AppHandler) Work(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"result": 42})
}
