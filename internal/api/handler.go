package api

import (
	"strconv"
	"time"

	"github.com/IamAndelib/Auto-blue-light-filter/internal/scheduler"
	"github.com/IamAndelib/Auto-blue-light-filter/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the daemon's control surface on loopback. It mirrors the
// CLI subcommands so keybindings can drive a running daemon directly.
type Handler struct {
	engine     *services.Engine
	controller *services.ModeController
	scheduler  *scheduler.Scheduler
	logger     *zap.Logger
}

func NewHandler(engine *services.Engine, controller *services.ModeController, sched *scheduler.Scheduler, logger *zap.Logger) *Handler {
	return &Handler{
		engine:     engine,
		controller: controller,
		scheduler:  sched,
		logger:     logger,
	}
}

// GetStatus handles GET /api/v1/status
func (h *Handler) GetStatus(c *fiber.Ctx) error {
	return c.JSON(h.engine.Status(c.Context()))
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"engine":    h.engine.Stats(),
		"scheduler": h.scheduler.GetStatus(),
	})
}

// ToggleMode handles POST /api/v1/mode/toggle
func (h *Handler) ToggleMode(c *fiber.Ctx) error {
	state, err := h.controller.ToggleMode()
	if err != nil {
		h.logger.Error("Mode toggle failed", zap.Error(err))
	}
	return c.JSON(fiber.Map{
		"state":     state,
		"persisted": err == nil,
	})
}

// ForceAuto handles POST /api/v1/mode/auto
func (h *Handler) ForceAuto(c *fiber.Ctx) error {
	state, changed, err := h.controller.ForceAuto()
	if err != nil {
		h.logger.Error("Switch to automatic failed", zap.Error(err))
	}
	return c.JSON(fiber.Map{
		"state":     state,
		"changed":   changed,
		"persisted": err == nil,
	})
}

// ForceManual handles POST /api/v1/mode/manual
func (h *Handler) ForceManual(c *fiber.Ctx) error {
	state, changed, err := h.controller.ForceManual()
	if err != nil {
		h.logger.Error("Switch to manual failed", zap.Error(err))
	}
	return c.JSON(fiber.Map{
		"state":     state,
		"changed":   changed,
		"persisted": err == nil,
	})
}

// ToggleFilter handles POST /api/v1/filter/toggle
func (h *Handler) ToggleFilter(c *fiber.Ctx) error {
	state, effective, err := h.controller.ToggleFilter()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"state": state,
		})
	}

	response := fiber.Map{
		"state":     state,
		"effective": effective,
	}
	if !effective {
		response["warning"] = "filter toggle has no effect in automatic mode, switch to manual first"
	}
	return c.JSON(response)
}

// ApplyKelvin handles POST /api/v1/apply/:kelvin
func (h *Handler) ApplyKelvin(c *fiber.Ctx) error {
	kelvin, err := strconv.Atoi(c.Params("kelvin"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "kelvin must be an integer",
		})
	}

	if err := h.engine.ApplyKelvin(kelvin); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"applied": kelvin,
	})
}

// RefreshLocation handles POST /api/v1/location/refresh
func (h *Handler) RefreshLocation(c *fiber.Ctx) error {
	location, err := h.engine.RefreshLocation(c.Context())
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(location)
}

// Run handles POST /api/v1/run
func (h *Handler) Run(c *fiber.Ctx) error {
	h.scheduler.ForceRun()
	return c.JSON(fiber.Map{
		"triggered": true,
	})
}

var startTime = time.Now()
