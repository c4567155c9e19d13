package audit

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AuditApi struct {
	controller *AuditController
}

func NewAuditApi(controller *AuditController) api.Route {
	return &AuditApi{
		controller: controller,
	}
}

func (h *AuditApi) Setup(app *fiber.App) {
	audit := app.Group("/api/audit-logs")

	audit.Get("/", h.controller.ListLogs)
}
