package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// RolesHandler manages account-scoped role endpoints. The built-in roles are
// listed alongside custom ones but cannot be mutated.
type RolesHandler struct {
	service *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roleService *service.RoleService) *RolesHandler {
	return &RolesHandler{service: roleService}
}

// Create POST /api/account/roles.
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	role, err := h.service.Create(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, service.RoleCreateInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewCustomRoleResponse(role))
}

// List GET /api/account/roles. Defaults first, then custom roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	roles, err := h.service.List(c.UserContext(), principal.AccountID)
	if err != nil {
		return err
	}
	items := []dto.RoleResponse{
		dto.NewDefaultRoleResponse(domain.RoleAdministrator),
		dto.NewDefaultRoleResponse(domain.RoleAgent),
	}
	for i := range roles {
		items = append(items, dto.NewCustomRoleResponse(&roles[i]))
	}
	return respondOK(c, items)
}

// Get GET /api/account/roles/:id.
func (h *RolesHandler) Get(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	role, err := h.service.Get(c.UserContext(), principal.AccountID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewCustomRoleResponse(role))
}

// Update PUT /api/account/roles/:id.
func (h *RolesHandler) Update(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	role, err := h.service.Update(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, c.Params("id"), service.RoleUpdateInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewCustomRoleResponse(role))
}

// Delete DELETE /api/account/roles/:id.
func (h *RolesHandler) Delete(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, c.Params("id"), requestMeta(c)); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"deleted": true})
}
