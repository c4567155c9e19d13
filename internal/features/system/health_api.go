package system

import (
	"context"
	"time"

	"firm-crm/internal/common/api"
	"firm-crm/internal/database"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type HealthApi struct {
	mongodb *database.MongodbDB
	hub     *Hub
	logger  *zap.Logger
}

func NewHealthApi(mongodb *database.MongodbDB, hub *Hub, logger *zap.Logger) api.Route {
	return &HealthApi{
		mongodb: mongodb,
		hub:     hub,
		logger:  logger,
	}
}

func (h *HealthApi) Setup(app *fiber.App) {
	app.Get("/health", h.Check)
}

// Check godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthApi) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.mongodb.DB.Client().Ping(ctx, nil); err != nil {
		h.logger.Warn("health check: database unreachable", zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"database": "down",
		})
	}

	return c.JSON(fiber.Map{
		"status":      "ok",
		"database":    "up",
		"subscribers": h.hub.Count(),
	})
}
