package email

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type EmailController struct {
	Service EmailService
}

func NewEmailController(service EmailService) *EmailController {
	return &EmailController{Service: service}
}

// ListOutbox godoc
// @Summary List simulated emails
// @Tags emails
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {array} Email
// @Router /api/emails [get]
func (ctrl *EmailController) ListOutbox(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	emails, err := ctrl.Service.ListOutbox(c.UserContext(), limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.JSON(emails)
}
