package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// InboxesHandler manages account-scoped inbox endpoints.
type InboxesHandler struct {
	service *service.InboxService
}

// NewInboxesHandler constructs handler.
func NewInboxesHandler(inboxService *service.InboxService) *InboxesHandler {
	return &InboxesHandler{service: inboxService}
}

// Create POST /api/account/inboxes.
func (h *InboxesHandler) Create(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateInboxRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	inbox, err := h.service.Create(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, service.InboxCreateInput{
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		GatewayInstanceID: req.GatewayInstanceID,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewInboxResponse(inbox))
}

// List GET /api/account/inboxes.
func (h *InboxesHandler) List(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	inboxes, total, err := h.service.List(c.UserContext(), principal.AccountID, page.Size, page.Offset())
	if err != nil {
		return err
	}
	items := make([]dto.InboxResponse, 0, len(inboxes))
	for i := range inboxes {
		items = append(items, dto.NewInboxResponse(&inboxes[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Get GET /api/account/inboxes/:id.
func (h *InboxesHandler) Get(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	inbox, err := h.service.Get(c.UserContext(), principal.AccountID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewInboxResponse(inbox))
}

// Update PUT /api/account/inboxes/:id.
func (h *InboxesHandler) Update(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateInboxRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	input := service.InboxUpdateInput{
		Name:              req.Name,
		PhoneNumber:       req.PhoneNumber,
		GatewayInstanceID: req.GatewayInstanceID,
	}
	if req.Status != nil {
		status := domain.InboxStatus(*req.Status)
		input.Status = &status
	}
	inbox, err := h.service.Update(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, c.Params("id"), input, requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewInboxResponse(inbox))
}

// Delete DELETE /api/account/inboxes/:id.
func (h *InboxesHandler) Delete(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, c.Params("id"), requestMeta(c)); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"deleted": true})
}

// Status GET /api/account/inboxes/:id/status.
func (h *InboxesHandler) Status(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	status, err := h.service.ChannelStatus(c.UserContext(), principal.AccountID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, status)
}

// PairingQR GET /api/account/inboxes/:id/qr.
func (h *InboxesHandler) PairingQR(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	code, err := h.service.PairingQR(c.UserContext(), principal.AccountID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, code)
}
