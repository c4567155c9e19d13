package automation

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AutomationApi struct {
	controller *AutomationController
}

func NewAutomationApi(controller *AutomationController) api.Route {
	return &AutomationApi{
		controller: controller,
	}
}

func (h *AutomationApi) Setup(app *fiber.App) {
	group := app.Group("/api/automations")

	// static paths first so they are not captured by /:id
	group.Post("/run", h.controller.RunNow)
	group.Get("/runs", h.controller.ListRuns)
	group.Get("/runs/export", h.controller.ExportRuns)

	group.Get("/", h.controller.ListRules)
	group.Post("/", h.controller.CreateRule)
	group.Get("/:id", h.controller.GetRule)
	group.Put("/:id", h.controller.UpdateRule)
	group.Delete("/:id", h.controller.DeleteRule)
	group.Patch("/:id/enabled", h.controller.SetEnabled)
}
