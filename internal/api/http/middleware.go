package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/devops-app/internal/observability"
	apperrors "github.com/spec-kit/devops-app/pkg/util"
)

// RegisterMiddlewares attaches global middlewares. Registration order is
// nesting order: tracking wraps everything below it, so its deferred Done
// always runs and observes the status the error middleware settled on, and
// the request logger sits outside error handling for the same reason.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, metricsPath string, timeout time.Duration) {
	app.Use(requestIDMiddleware())
	app.Use(requestTrackingMiddleware(metrics, metricsPath))
	app.Use(observability.RequestLogger(logger))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(observability.RequestIDKey, id)
		c.Set("X-Request-ID", id)
		return c.Next()
	}
}

// requestTrackingMiddleware opens a RequestTracker before dispatch and
// defers its completion hook, so Done runs exactly once on every
// control-flow exit from the handler chain. Scrapes of the metrics endpoint
// itself are not tracked.
func requestTrackingMiddleware(metrics *observability.Metrics, metricsPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == metricsPath {
			return c.Next()
		}
		tracker := metrics.StartRequest(c.Method(), c.Path())
		defer func() {
			tracker.Done(c.Response().StatusCode())
		}()
		return c.Next()
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				metrics.RecordError(c.Method(), c.Path(), domainErr.Code)
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}
