package task

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskController struct {
	Service TaskService
}

func NewTaskController(service TaskService) *TaskController {
	return &TaskController{Service: service}
}

// ListTasks godoc
// @Summary List tasks
// @Tags tasks
// @Produce json
// @Param lead_id query string false "Filter by lead"
// @Param client_id query string false "Filter by client"
// @Param status query string false "Filter by status"
// @Success 200 {array} Task
// @Router /api/tasks [get]
func (ctrl *TaskController) ListTasks(c *fiber.Ctx) error {
	filter := ListFilter{Status: Status(c.Query("status"))}
	if v := c.Query("lead_id"); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid lead_id"})
		}
		filter.LeadID = &oid
	}
	if v := c.Query("client_id"); v != "" {
		oid, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid client_id"})
		}
		filter.ClientID = &oid
	}

	tasks, err := ctrl.Service.ListTasks(c.UserContext(), filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(tasks)
}

// UpdateStatus godoc
// @Summary Move a task between columns
// @Tags tasks
// @Accept json
// @Param id path string true "Task ID"
// @Success 204 {object} nil
// @Router /api/tasks/{id}/status [patch]
func (ctrl *TaskController) UpdateStatus(c *fiber.Ctx) error {
	var req struct {
		Status Status `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := ctrl.Service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	switch {
	case err == nil:
		return c.SendStatus(fiber.StatusNoContent)
	case errors.Is(err, ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
