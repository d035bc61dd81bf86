package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// BillingHandler serves the account subscription view, the admin plan
// assignment endpoint and the Stripe webhook.
type BillingHandler struct {
	service *service.BillingService
}

// NewBillingHandler constructs handler.
func NewBillingHandler(billingService *service.BillingService) *BillingHandler {
	return &BillingHandler{service: billingService}
}

// Subscription GET /api/account/subscription.
func (h *BillingHandler) Subscription(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	sub, err := h.service.GetForAccount(c.UserContext(), principal.AccountID)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewSubscriptionResponse(sub))
}

// AssignPlan POST /api/admin/accounts/:id/plan.
func (h *BillingHandler) AssignPlan(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	sub, err := h.service.AssignPlan(c.UserContext(), tenant.ID, actorOf(principal), c.Params("id"), req.PlanID, req.BillingEmail, requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewSubscriptionResponse(sub))
}

// StripeWebhook POST /webhooks/stripe. Authenticated by signature only.
func (h *BillingHandler) StripeWebhook(c *fiber.Ctx) error {
	signature := c.Get("Stripe-Signature")
	if signature == "" {
		return apperrors.NewUnauthorized("missing signature")
	}
	if err := h.service.HandleWebhook(c.UserContext(), c.Body(), signature); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"received": true})
}
