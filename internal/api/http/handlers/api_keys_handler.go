package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// APIKeysHandler manages account-scoped API key endpoints.
type APIKeysHandler struct {
	service *service.APIKeyService
}

// NewAPIKeysHandler constructs handler.
func NewAPIKeysHandler(keyService *service.APIKeyService) *APIKeysHandler {
	return &APIKeysHandler{service: keyService}
}

// Create POST /api/account/api-keys. The plaintext key appears in this
// response only.
func (h *APIKeysHandler) Create(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateAPIKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	key, plaintext, err := h.service.Create(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, req.Name, requestMeta(c))
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewCreatedAPIKeyResponse(key, plaintext))
}

// List GET /api/account/api-keys.
func (h *APIKeysHandler) List(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	keys, err := h.service.List(c.UserContext(), principal.AccountID)
	if err != nil {
		return err
	}
	items := make([]dto.APIKeyResponse, 0, len(keys))
	for i := range keys {
		items = append(items, dto.NewAPIKeyResponse(&keys[i]))
	}
	return respondOK(c, items)
}

// Revoke DELETE /api/account/api-keys/:id.
func (h *APIKeysHandler) Revoke(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Revoke(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, c.Params("id"), requestMeta(c)); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"revoked": true})
}
