package task

import (
	"firm-crm/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type TaskApi struct {
	controller *TaskController
}

func NewTaskApi(controller *TaskController) api.Route {
	return &TaskApi{controller: controller}
}

func (h *TaskApi) Setup(app *fiber.App) {
	group := app.Group("/api/tasks")

	group.Get("/", h.controller.ListTasks)
	group.Patch("/:id/status", h.controller.UpdateStatus)
}
