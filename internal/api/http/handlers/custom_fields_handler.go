package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// CustomFieldsHandler manages account-scoped custom field endpoints.
type CustomFieldsHandler struct {
	service *service.CustomFieldService
}

// NewCustomFieldsHandler constructs handler.
func NewCustomFieldsHandler(fieldService *service.CustomFieldService) *CustomFieldsHandler {
	return &CustomFieldsHandler{service: fieldService}
}

// Create POST /api/account/custom-fields.
func (h *CustomFieldsHandler) Create(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateCustomFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	field, err := h.service.Create(c.UserContext(), principal.AccountID, service.CustomFieldCreateInput{
		Key:       req.Key,
		Label:     req.Label,
		FieldType: domain.CustomFieldType(req.FieldType),
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewCustomFieldResponse(field))
}

// List GET /api/account/custom-fields.
func (h *CustomFieldsHandler) List(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	fields, err := h.service.List(c.UserContext(), principal.AccountID)
	if err != nil {
		return err
	}
	items := make([]dto.CustomFieldResponse, 0, len(fields))
	for i := range fields {
		items = append(items, dto.NewCustomFieldResponse(&fields[i]))
	}
	return respondOK(c, items)
}

// Update PUT /api/account/custom-fields/:id.
func (h *CustomFieldsHandler) Update(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCustomFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	input := service.CustomFieldUpdateInput{Label: req.Label}
	if req.FieldType != nil {
		fieldType := domain.CustomFieldType(*req.FieldType)
		input.FieldType = &fieldType
	}
	field, err := h.service.Update(c.UserContext(), principal.AccountID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewCustomFieldResponse(field))
}

// Delete DELETE /api/account/custom-fields/:id.
func (h *CustomFieldsHandler) Delete(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.AccountID, c.Params("id")); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"deleted": true})
}
