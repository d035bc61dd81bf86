package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// AdminSettingsHandler serves tenant settings management for administrators.
type AdminSettingsHandler struct {
	service *service.TenantService
}

// NewAdminSettingsHandler constructs handler.
func NewAdminSettingsHandler(tenantService *service.TenantService) *AdminSettingsHandler {
	return &AdminSettingsHandler{service: tenantService}
}

// Update PUT /api/admin/settings. Present keys are merged over the existing
// settings map.
func (h *AdminSettingsHandler) Update(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	updated, err := h.service.UpdateSettings(c.UserContext(), actorOf(principal), tenant.ID, req.Settings, requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewTenantResponse(updated))
}
