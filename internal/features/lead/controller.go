package lead

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type LeadController struct {
	Service LeadService
}

func NewLeadController(service LeadService) *LeadController {
	return &LeadController{Service: service}
}

// CreateLead godoc
// @Summary Create lead
// @Description Create a lead; enabled new-lead automations fire inline
// @Tags leads
// @Accept json
// @Produce json
// @Param lead body Lead true "Lead"
// @Success 201 {object} Lead
// @Failure 400 {object} map[string]interface{}
// @Router /api/leads [post]
func (ctrl *LeadController) CreateLead(c *fiber.Ctx) error {
	var lead Lead
	if err := c.BodyParser(&lead); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if lead.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	if err := ctrl.Service.CreateLead(c.UserContext(), &lead); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(lead)
}

// ListLeads godoc
// @Summary List leads
// @Tags leads
// @Produce json
// @Param stage query string false "Filter by stage"
// @Param status query string false "Filter by status"
// @Success 200 {array} Lead
// @Router /api/leads [get]
func (ctrl *LeadController) ListLeads(c *fiber.Ctx) error {
	leads, err := ctrl.Service.ListLeads(c.UserContext(), ListFilter{
		Stage:  Stage(c.Query("stage")),
		Status: Status(c.Query("status")),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(leads)
}

// GetLead godoc
// @Summary Get lead
// @Tags leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} Lead
// @Failure 404 {object} map[string]interface{}
// @Router /api/leads/{id} [get]
func (ctrl *LeadController) GetLead(c *fiber.Ctx) error {
	lead, err := ctrl.Service.GetLead(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// UpdateLead godoc
// @Summary Update lead
// @Tags leads
// @Accept json
// @Produce json
// @Param id path string true "Lead ID"
// @Param patch body Patch true "Fields to change"
// @Success 200 {object} Lead
// @Router /api/leads/{id} [put]
func (ctrl *LeadController) UpdateLead(c *fiber.Ctx) error {
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	lead, err := ctrl.Service.UpdateLead(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// MarkContacted godoc
// @Summary Record a contact with the lead
// @Tags leads
// @Produce json
// @Param id path string true "Lead ID"
// @Success 200 {object} Lead
// @Router /api/leads/{id}/contacted [post]
func (ctrl *LeadController) MarkContacted(c *fiber.Ctx) error {
	lead, err := ctrl.Service.MarkContacted(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// DeleteLead godoc
// @Summary Delete lead
// @Tags leads
// @Param id path string true "Lead ID"
// @Success 204 {object} nil
// @Router /api/leads/{id} [delete]
func (ctrl *LeadController) DeleteLead(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteLead(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Lead not found"})
	case errors.Is(err, ErrInvalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
}
