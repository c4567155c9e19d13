package cron_feature

import (
	"github.com/gofiber/fiber/v2"
)

type CronController struct {
	service CronService
}

func NewCronController(service CronService) *CronController {
	return &CronController{service: service}
}

// GetStatus godoc
// @Summary Scheduler status
// @Description Schedule, last and next run of the periodic inactivity pass
// @Tags cron
// @Produce json
// @Success 200 {object} JobStatus
// @Router /api/cron/status [get]
func (ctrl *CronController) GetStatus(c *fiber.Ctx) error {
	return c.JSON(ctrl.service.Status())
}
