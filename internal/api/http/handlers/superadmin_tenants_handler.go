package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// SuperadminTenantsHandler manages tenant provisioning and lifecycle.
type SuperadminTenantsHandler struct {
	service *service.TenantService
}

// NewSuperadminTenantsHandler constructs handler.
func NewSuperadminTenantsHandler(tenantService *service.TenantService) *SuperadminTenantsHandler {
	return &SuperadminTenantsHandler{service: tenantService}
}

// Create POST /api/superadmin/tenants.
func (h *SuperadminTenantsHandler) Create(c *fiber.Ctx) error {
	principal, err := superadminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	tenant, err := h.service.Create(c.UserContext(), actorOf(principal), service.TenantCreateInput{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		Settings:  req.Settings,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewTenantResponse(tenant))
}

// List GET /api/superadmin/tenants.
func (h *SuperadminTenantsHandler) List(c *fiber.Ctx) error {
	if _, err := superadminPrincipal(c); err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	filter := repository.TenantFilter{Limit: page.Size, Offset: page.Offset()}
	if status := c.Query("status"); status != "" {
		tenantStatus := domain.TenantStatus(status)
		filter.Status = &tenantStatus
	}

	tenants, total, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TenantResponse, 0, len(tenants))
	for i := range tenants {
		items = append(items, dto.NewTenantResponse(&tenants[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Get GET /api/superadmin/tenants/:id.
func (h *SuperadminTenantsHandler) Get(c *fiber.Ctx) error {
	if _, err := superadminPrincipal(c); err != nil {
		return err
	}
	tenant, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewTenantResponse(tenant))
}

// Update PUT /api/superadmin/tenants/:id.
func (h *SuperadminTenantsHandler) Update(c *fiber.Ctx) error {
	principal, err := superadminPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	input := service.TenantUpdateInput{Name: req.Name, Settings: req.Settings}
	if req.Status != nil {
		status := domain.TenantStatus(*req.Status)
		input.Status = &status
	}
	tenant, err := h.service.Update(c.UserContext(), actorOf(principal), c.Params("id"), input, requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewTenantResponse(tenant))
}

// Suspend POST /api/superadmin/tenants/:id/suspend.
func (h *SuperadminTenantsHandler) Suspend(c *fiber.Ctx) error {
	principal, err := superadminPrincipal(c)
	if err != nil {
		return err
	}
	tenant, err := h.service.Suspend(c.UserContext(), actorOf(principal), c.Params("id"), requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewTenantResponse(tenant))
}
