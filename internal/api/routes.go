package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

func SetupRoutes(app *fiber.App, handler *Handler, log *zap.Logger) {
	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())

	app.Use(logger.New(logger.Config{
		Format:     "${time} ${locals:requestid} ${status} - ${method} ${path}\n",
		TimeFormat: time.RFC3339,
	}))

	// API v1 routes
	api := app.Group("/api/v1")

	api.Get("/health", handler.GetHealth)
	api.Get("/status", handler.GetStatus)

	mode := api.Group("/mode")
	mode.Post("/toggle", handler.ToggleMode)
	mode.Post("/auto", handler.ForceAuto)
	mode.Post("/manual", handler.ForceManual)

	api.Post("/filter/toggle", handler.ToggleFilter)
	api.Post("/apply/:kelvin", handler.ApplyKelvin)
	api.Post("/location/refresh", handler.RefreshLocation)
	api.Post("/run", handler.Run)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
			"path":  c.Path(),
		})
	})
}
