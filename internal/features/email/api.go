package email

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type EmailApi struct {
	controller *EmailController
}

func NewEmailApi(controller *EmailController) api.Route {
	return &EmailApi{controller: controller}
}

func (h *EmailApi) Setup(app *fiber.App) {
	app.Get("/api/emails", h.controller.ListOutbox)
}
