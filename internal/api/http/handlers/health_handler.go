package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// HealthHandler responds to liveness probes.
type HealthHandler struct {
	serviceName string
	version     string
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version}
}

// Healthz reports service liveness. The service has no external
// dependencies, so liveness is the whole health story.
func (h *HealthHandler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": h.serviceName,
		"version": h.version,
	})
}
