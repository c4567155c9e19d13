package automation

import (
	"errors"
	"strconv"

	"firm-crm/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type AutomationController struct {
	Service AutomationService
	Logger  *zap.Logger
}

func NewAutomationController(service AutomationService, logger *zap.Logger) *AutomationController {
	return &AutomationController{
		Service: service,
		Logger:  logger.Named("automation.http"),
	}
}

func (ctrl *AutomationController) parseRequest(c *fiber.Ctx) (*Automation, error) {
	var req AutomationRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, &validation.Error{Fields: []string{"invalid request body"}}
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	automation := req.toAutomation()
	return &automation, nil
}

// respondError keeps internals out of responses; details go to the log.
func (ctrl *AutomationController) respondError(c *fiber.Ctx, err error, msg string) error {
	var invalid *InvalidRuleError
	switch {
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Automation not found"})
	case validation.IsValidationError(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &invalid):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": invalid.Err.Error()})
	}
	ctrl.Logger.Error(msg, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msg})
}

// CreateRule godoc
// @Summary Create automation
// @Description Create a trigger/action automation rule
// @Tags automations
// @Accept json
// @Produce json
// @Param automation body AutomationRequest true "Automation"
// @Success 201 {object} Automation
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/automations [post]
func (ctrl *AutomationController) CreateRule(c *fiber.Ctx) error {
	automation, err := ctrl.parseRequest(c)
	if err != nil {
		return ctrl.respondError(c, err, "Failed to create automation")
	}

	if err := ctrl.Service.CreateRule(c.UserContext(), automation); err != nil {
		return ctrl.respondError(c, err, "Failed to create automation")
	}

	return c.Status(fiber.StatusCreated).JSON(automation)
}

// GetRule godoc
// @Summary Get automation
// @Tags automations
// @Produce json
// @Param id path string true "Automation ID"
// @Success 200 {object} Automation
// @Failure 404 {object} map[string]interface{}
// @Router /api/automations/{id} [get]
func (ctrl *AutomationController) GetRule(c *fiber.Ctx) error {
	automation, err := ctrl.Service.GetRule(c.UserContext(), c.Params("id"))
	if err != nil {
		return ctrl.respondError(c, err, "Failed to fetch automation")
	}
	return c.JSON(automation)
}

// ListRules godoc
// @Summary List automations
// @Description Automations in firing order
// @Tags automations
// @Produce json
// @Success 200 {array} Automation
// @Failure 500 {object} map[string]interface{}
// @Router /api/automations [get]
func (ctrl *AutomationController) ListRules(c *fiber.Ctx) error {
	automations, err := ctrl.Service.ListRules(c.UserContext())
	if err != nil {
		return ctrl.respondError(c, err, "Failed to list automations")
	}
	return c.JSON(automations)
}

// UpdateRule godoc
// @Summary Update automation
// @Tags automations
// @Accept json
// @Produce json
// @Param id path string true "Automation ID"
// @Param automation body AutomationRequest true "Automation"
// @Success 200 {object} Automation
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/automations/{id} [put]
func (ctrl *AutomationController) UpdateRule(c *fiber.Ctx) error {
	oid, err := primitive.ObjectIDFromHex(c.Params("id"))
	if err != nil {
		return ctrl.respondError(c, ErrNotFound, "")
	}

	automation, err := ctrl.parseRequest(c)
	if err != nil {
		return ctrl.respondError(c, err, "Failed to update automation")
	}
	automation.ID = oid

	if err := ctrl.Service.UpdateRule(c.UserContext(), automation); err != nil {
		return ctrl.respondError(c, err, "Failed to update automation")
	}
	return c.JSON(automation)
}

// DeleteRule godoc
// @Summary Delete automation
// @Tags automations
// @Param id path string true "Automation ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/automations/{id} [delete]
func (ctrl *AutomationController) DeleteRule(c *fiber.Ctx) error {
	if err := ctrl.Service.DeleteRule(c.UserContext(), c.Params("id")); err != nil {
		return ctrl.respondError(c, err, "Failed to delete automation")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetEnabled godoc
// @Summary Enable or disable automation
// @Tags automations
// @Accept json
// @Param id path string true "Automation ID"
// @Param body body EnabledRequest true "Enabled flag"
// @Success 204
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/automations/{id}/enabled [patch]
func (ctrl *AutomationController) SetEnabled(c *fiber.Ctx) error {
	var req EnabledRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validation.ValidateStruct(req); err != nil {
		return ctrl.respondError(c, err, "")
	}

	if err := ctrl.Service.SetEnabled(c.UserContext(), c.Params("id"), *req.Enabled); err != nil {
		return ctrl.respondError(c, err, "Failed to update automation")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RunNow godoc
// @Summary Run inactivity automations
// @Description Evaluate every enabled inactivity automation against open leads now
// @Tags automations
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/automations/run [post]
func (ctrl *AutomationController) RunNow(c *fiber.Ctx) error {
	run, err := ctrl.Service.RunInactivityPass(c.UserContext(), RunSourceManual)
	if err != nil {
		return ctrl.respondError(c, err, "Automation run failed")
	}
	return c.JSON(fiber.Map{
		"leads_updated": run.LeadsUpdated,
		"run":           run,
	})
}

// ListRuns godoc
// @Summary List automation runs
// @Tags automations
// @Produce json
// @Param limit query int false "Max runs"
// @Success 200 {array} AutomationRun
// @Router /api/automations/runs [get]
func (ctrl *AutomationController) ListRuns(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "50"), 10, 64)
	runs, err := ctrl.Service.ListRuns(c.UserContext(), limit)
	if err != nil {
		return ctrl.respondError(c, err, "Failed to list automation runs")
	}
	return c.JSON(runs)
}

// ExportRuns godoc
// @Summary Export automation runs
// @Tags automations
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param limit query int false "Max runs"
// @Success 200 {file} file
// @Router /api/automations/runs/export [get]
func (ctrl *AutomationController) ExportRuns(c *fiber.Ctx) error {
	limit, _ := strconv.ParseInt(c.Query("limit", "500"), 10, 64)
	data, err := ctrl.Service.ExportRuns(c.UserContext(), limit)
	if err != nil {
		return ctrl.respondError(c, err, "Failed to export automation runs")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="automation-runs.xlsx"`)
	return c.Send(data)
}
