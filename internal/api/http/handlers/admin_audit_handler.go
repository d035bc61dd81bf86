package handlers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// AdminAuditHandler serves the tenant audit log and its exports.
type AdminAuditHandler struct {
	service *service.AuditService
}

// NewAdminAuditHandler constructs handler.
func NewAdminAuditHandler(auditService *service.AuditService) *AdminAuditHandler {
	return &AdminAuditHandler{service: auditService}
}

// List GET /api/admin/audit.
func (h *AdminAuditHandler) List(c *fiber.Ctx) error {
	_, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	filter := parseAuditQuery(c)
	filter.Limit = page.Size
	filter.Offset = page.Offset()

	entries, total, err := h.service.List(c.UserContext(), tenant.ID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.AuditEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewAuditEntryResponse(&entries[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Export GET /api/admin/audit/export?format=csv|json. Streams the filtered
// log without pagination.
func (h *AdminAuditHandler) Export(c *fiber.Ctx) error {
	_, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	format, ok := service.ParseExportFormat(c.Query("format"))
	if !ok {
		return apperrors.NewValidationError("format must be csv or json", nil)
	}
	filter := parseAuditQuery(c)

	filename := fmt.Sprintf("audit-%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	if format == "csv" {
		c.Set(fiber.HeaderContentType, "text/csv")
		return h.service.ExportCSV(c.UserContext(), tenant.ID, filter, c.Response().BodyWriter())
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return h.service.ExportJSON(c.UserContext(), tenant.ID, filter, c.Response().BodyWriter())
}

func parseAuditQuery(c *fiber.Ctx) repository.AuditFilter {
	filter := repository.AuditFilter{}
	if action := c.Query("action_type"); action != "" {
		actionType := domain.AuditActionType(action)
		filter.ActionType = &actionType
	}
	if actor := c.Query("actor_id"); actor != "" {
		filter.ActorID = &actor
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse(time.RFC3339, from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse(time.RFC3339, to); err == nil {
			filter.To = &t
		}
	}
	return filter
}
