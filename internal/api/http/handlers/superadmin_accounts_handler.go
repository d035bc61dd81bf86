package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// SuperadminAccountsHandler manages accounts within a tenant on behalf of
// the platform operator.
type SuperadminAccountsHandler struct {
	accounts *service.AccountService
	tenants  *service.TenantService
}

// NewSuperadminAccountsHandler constructs handler.
func NewSuperadminAccountsHandler(accountService *service.AccountService, tenantService *service.TenantService) *SuperadminAccountsHandler {
	return &SuperadminAccountsHandler{accounts: accountService, tenants: tenantService}
}

// tenantID validates the :tenantId path segment against a real tenant.
func (h *SuperadminAccountsHandler) tenantID(c *fiber.Ctx) (string, error) {
	tenant, err := h.tenants.Get(c.UserContext(), c.Params("tenantId"))
	if err != nil {
		return "", err
	}
	return tenant.ID, nil
}

// Create POST /api/superadmin/tenants/:tenantId/accounts.
func (h *SuperadminAccountsHandler) Create(c *fiber.Ctx) error {
	principal, err := superadminPrincipal(c)
	if err != nil {
		return err
	}
	tenantID, err := h.tenantID(c)
	if err != nil {
		return err
	}
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	account, err := h.accounts.Create(c.UserContext(), actorOf(principal), tenantID, service.AccountCreateInput{Name: req.Name}, requestMeta(c))
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewAccountResponse(account))
}

// List GET /api/superadmin/tenants/:tenantId/accounts.
func (h *SuperadminAccountsHandler) List(c *fiber.Ctx) error {
	if _, err := superadminPrincipal(c); err != nil {
		return err
	}
	tenantID, err := h.tenantID(c)
	if err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	accounts, total, err := h.accounts.List(c.UserContext(), tenantID, page.Size, page.Offset())
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.NewAccountResponse(&accounts[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Get GET /api/superadmin/tenants/:tenantId/accounts/:id.
func (h *SuperadminAccountsHandler) Get(c *fiber.Ctx) error {
	if _, err := superadminPrincipal(c); err != nil {
		return err
	}
	tenantID, err := h.tenantID(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.Get(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewAccountResponse(account))
}

// Update PUT /api/superadmin/tenants/:tenantId/accounts/:id.
func (h *SuperadminAccountsHandler) Update(c *fiber.Ctx) error {
	principal, err := superadminPrincipal(c)
	if err != nil {
		return err
	}
	tenantID, err := h.tenantID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	account, err := h.accounts.Update(c.UserContext(), actorOf(principal), tenantID, c.Params("id"), accountUpdateInput(req), requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewAccountResponse(account))
}

// Delete DELETE /api/superadmin/tenants/:tenantId/accounts/:id. Destructive:
// the body must carry {"confirm":"DELETE"} or the request is a 400 and
// nothing is touched.
func (h *SuperadminAccountsHandler) Delete(c *fiber.Ctx) error {
	principal, err := superadminPrincipal(c)
	if err != nil {
		return err
	}
	tenantID, err := h.tenantID(c)
	if err != nil {
		return err
	}
	var req dto.DeleteAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Confirm != "DELETE" {
		return apperrors.NewValidationError(`confirmation required: send {"confirm":"DELETE"}`, nil)
	}

	if err := h.accounts.Delete(c.UserContext(), actorOf(principal), tenantID, c.Params("id"), requestMeta(c)); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"deleted": true})
}

func accountUpdateInput(req dto.UpdateAccountRequest) service.AccountUpdateInput {
	input := service.AccountUpdateInput{Name: req.Name}
	if req.Status != nil {
		status := domain.AccountStatus(*req.Status)
		input.Status = &status
	}
	return input
}
