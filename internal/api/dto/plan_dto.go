package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreatePlanRequest is the plan creation payload.
type CreatePlanRequest struct {
	Name       string         `json:"name" validate:"required,min=1,max=120"`
	PriceCents int64          `json:"price_cents" validate:"min=0"`
	Currency   string         `json:"currency" validate:"required,len=3"`
	Interval   string         `json:"interval" validate:"required,oneof=month year"`
	Features   map[string]any `json:"features"`
	MaxInboxes int            `json:"max_inboxes" validate:"min=0"`
	MaxAgents  int            `json:"max_agents" validate:"min=0"`
}

// UpdatePlanRequest is the plan mutation payload.
type UpdatePlanRequest struct {
	Name       *string        `json:"name" validate:"omitempty,min=1,max=120"`
	PriceCents *int64         `json:"price_cents" validate:"omitempty,min=0"`
	Features   map[string]any `json:"features"`
	MaxInboxes *int           `json:"max_inboxes" validate:"omitempty,min=0"`
	MaxAgents  *int           `json:"max_agents" validate:"omitempty,min=0"`
	Active     *bool          `json:"active"`
}

// DeletePlanRequest is the optional body for plan deletion. When the plan
// still has subscribers, MigrateToPlanID names the replacement.
type DeletePlanRequest struct {
	MigrateToPlanID *string `json:"migrate_to_plan_id"`
}

// AssignPlanRequest binds an account to a plan.
type AssignPlanRequest struct {
	PlanID       string `json:"plan_id" validate:"required"`
	BillingEmail string `json:"billing_email" validate:"omitempty,email"`
}

// PlanResponse is the serialized plan.
type PlanResponse struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	PriceCents int64          `json:"price_cents"`
	Currency   string         `json:"currency"`
	Interval   string         `json:"interval"`
	Features   map[string]any `json:"features,omitempty"`
	MaxInboxes int            `json:"max_inboxes"`
	MaxAgents  int            `json:"max_agents"`
	Active     bool           `json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// NewPlanResponse maps a domain plan.
func NewPlanResponse(plan *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:         plan.ID,
		Name:       plan.Name,
		PriceCents: plan.PriceCents,
		Currency:   plan.Currency,
		Interval:   string(plan.Interval),
		Features:   plan.Features,
		MaxInboxes: plan.MaxInboxes,
		MaxAgents:  plan.MaxAgents,
		Active:     plan.Active,
		CreatedAt:  plan.CreatedAt,
		UpdatedAt:  plan.UpdatedAt,
	}
}
