package lead

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type LeadApi struct {
	controller *LeadController
}

func NewLeadApi(controller *LeadController) api.Route {
	return &LeadApi{controller: controller}
}

func (h *LeadApi) Setup(app *fiber.App) {
	group := app.Group("/api/leads")

	group.Get("/", h.controller.ListLeads)
	group.Post("/", h.controller.CreateLead)
	group.Get("/:id", h.controller.GetLead)
	group.Put("/:id", h.controller.UpdateLead)
	group.Post("/:id/contacted", h.controller.MarkContacted)
	group.Delete("/:id", h.controller.DeleteLead)
}
