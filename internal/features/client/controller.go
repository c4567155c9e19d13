package client

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type ClientController struct {
	Service ClientService
}

func NewClientController(service ClientService) *ClientController {
	return &ClientController{Service: service}
}

type statusRequest struct {
	Status OnboardingStatus `json:"status"`
}

// CreateClient godoc
// @Summary Create client
// @Tags clients
// @Accept json
// @Produce json
// @Param client body Client true "Client"
// @Success 201 {object} Client
// @Router /api/clients [post]
func (ctrl *ClientController) CreateClient(c *fiber.Ctx) error {
	var client Client
	if err := c.BodyParser(&client); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if client.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}
	if err := ctrl.Service.CreateClient(c.UserContext(), &client); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// ListClients godoc
// @Summary List clients
// @Tags clients
// @Produce json
// @Param status query string false "Filter by onboarding status"
// @Success 200 {array} Client
// @Router /api/clients [get]
func (ctrl *ClientController) ListClients(c *fiber.Ctx) error {
	clients, err := ctrl.Service.ListClients(c.UserContext(), OnboardingStatus(c.Query("status")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clients)
}

// GetClient godoc
// @Summary Get client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID"
// @Success 200 {object} Client
// @Router /api/clients/{id} [get]
func (ctrl *ClientController) GetClient(c *fiber.Ctx) error {
	client, err := ctrl.Service.GetClient(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// UpdateStatus godoc
// @Summary Change onboarding status
// @Description Writes the status; matching client-status automations fire inline
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID"
// @Param body body statusRequest true "New status"
// @Success 200 {object} Client
// @Router /api/clients/{id}/status [patch]
func (ctrl *ClientController) UpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	client, err := ctrl.Service.UpdateOnboardingStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Client not found"})
	case errors.Is(err, ErrInvalidStatus):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
