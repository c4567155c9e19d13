package cron_feature

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type CronApi struct {
	cronController *CronController
}

func NewCronApi(cronController *CronController) api.Route {
	return &CronApi{
		cronController: cronController,
	}
}

func (h *CronApi) Setup(app *fiber.App) {
	cron := app.Group("/api/cron")

	cron.Get("/status", h.cronController.GetStatus)
}
