package notification

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
}

func NewNotificationApi(controller *NotificationController) api.Route {
	return &NotificationApi{
		controller: controller,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	group := app.Group("/api/alerts")

	group.Get("/", h.controller.List)
	group.Get("/unread-count", h.controller.GetUnreadCount)
	group.Patch("/:id/read", h.controller.MarkAsRead)
}
