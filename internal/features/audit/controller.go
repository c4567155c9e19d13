package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuditController struct {
	Service AuditService
	Logger  *zap.Logger
}

func NewAuditController(service AuditService, logger *zap.Logger) *AuditController {
	return &AuditController{Service: service, Logger: logger}
}

// ListLogs godoc
// @Summary List audit logs
// @Description Rule changes and automation runs, newest first
// @Tags audit
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param module query string false "Filter by module"
// @Param record_id query string false "Filter by record ID"
// @Param action query string false "Filter by action"
// @Success 200 {array} common_models.AuditLog
// @Failure 500 {object} map[string]interface{}
// @Router /api/audit-logs [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", "20"), 10, 64)

	filters := make(map[string]interface{})
	if module := c.Query("module"); module != "" {
		filters["module"] = module
	}
	if recordID := c.Query("record_id"); recordID != "" {
		filters["record_id"] = recordID
	}
	if action := c.Query("action"); action != "" {
		filters["action"] = action
	}

	logs, err := ctrl.Service.ListLogs(c.UserContext(), filters, page, limit)
	if err != nil {
		ctrl.Logger.Error("failed to list audit logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch audit logs",
		})
	}

	return c.JSON(logs)
}
