package notification

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	service NotificationService
}

func NewNotificationController(service NotificationService) *NotificationController {
	return &NotificationController{
		service: service,
	}
}

// List godoc
// @Summary List automation alerts
// @Tags alerts
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Router /api/alerts [get]
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	alerts, total, err := c.service.ListAlerts(ctx.UserContext(), page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return ctx.JSON(fiber.Map{
		"data":  alerts,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetUnreadCount godoc
// @Summary Count unread alerts
// @Tags alerts
// @Router /api/alerts/unread-count [get]
func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	count, err := c.service.GetUnreadCount(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return ctx.JSON(fiber.Map{"count": count})
}

// MarkAsRead godoc
// @Summary Mark alert as read
// @Tags alerts
// @Param id path string true "Alert ID"
// @Router /api/alerts/{id}/read [patch]
func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	if err := c.service.MarkAsRead(ctx.UserContext(), ctx.Params("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Alert not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
