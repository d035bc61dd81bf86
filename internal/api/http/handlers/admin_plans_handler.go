package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// AdminPlansHandler manages tenant-scoped billing plans.
type AdminPlansHandler struct {
	service *service.PlanService
}

// NewAdminPlansHandler constructs handler.
func NewAdminPlansHandler(planService *service.PlanService) *AdminPlansHandler {
	return &AdminPlansHandler{service: planService}
}

// Create POST /api/admin/plans.
func (h *AdminPlansHandler) Create(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	plan, err := h.service.Create(c.UserContext(), tenant.ID, actorOf(principal), service.PlanCreateInput{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Currency:   req.Currency,
		Interval:   domain.PlanInterval(req.Interval),
		Features:   req.Features,
		MaxInboxes: req.MaxInboxes,
		MaxAgents:  req.MaxAgents,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewPlanResponse(plan))
}

// List GET /api/admin/plans.
func (h *AdminPlansHandler) List(c *fiber.Ctx) error {
	_, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	plans, total, err := h.service.List(c.UserContext(), tenant.ID, page.Size, page.Offset())
	if err != nil {
		return err
	}
	items := make([]dto.PlanResponse, 0, len(plans))
	for i := range plans {
		items = append(items, dto.NewPlanResponse(&plans[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Get GET /api/admin/plans/:id.
func (h *AdminPlansHandler) Get(c *fiber.Ctx) error {
	_, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	plan, err := h.service.Get(c.UserContext(), tenant.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewPlanResponse(plan))
}

// Update PUT /api/admin/plans/:id.
func (h *AdminPlansHandler) Update(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdatePlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	plan, err := h.service.Update(c.UserContext(), tenant.ID, actorOf(principal), c.Params("id"), service.PlanUpdateInput{
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Features:   req.Features,
		MaxInboxes: req.MaxInboxes,
		MaxAgents:  req.MaxAgents,
		Active:     req.Active,
	}, requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewPlanResponse(plan))
}

// Delete DELETE /api/admin/plans/:id. The optional body names a migration
// target for remaining subscribers; without one a plan with subscribers is a
// 409 and nothing changes.
func (h *AdminPlansHandler) Delete(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.DeletePlanRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}
	if err := h.service.Delete(c.UserContext(), tenant.ID, actorOf(principal), c.Params("id"), req.MigrateToPlanID, requestMeta(c)); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"deleted": true})
}
