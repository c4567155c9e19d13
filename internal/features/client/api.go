package client

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ClientApi struct {
	controller *ClientController
}

func NewClientApi(controller *ClientController) api.Route {
	return &ClientApi{controller: controller}
}

func (h *ClientApi) Setup(app *fiber.App) {
	group := app.Group("/api/clients")

	group.Get("/", h.controller.ListClients)
	group.Post("/", h.controller.CreateClient)
	group.Get("/:id", h.controller.GetClient)
	group.Patch("/:id/status", h.controller.UpdateStatus)
}
