package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// PlanCreateInput describes plan creation payload.
type PlanCreateInput struct {
	Name       string
	PriceCents int64
	Currency   string
	Interval   domain.PlanInterval
	Features   map[string]any
	MaxInboxes int
	MaxAgents  int
}

// PlanUpdateInput describes plan mutation payload.
type PlanUpdateInput struct {
	Name       *string
	PriceCents *int64
	Features   map[string]any
	MaxInboxes *int
	MaxAgents  *int
	Active     *bool
}

// PlanService manages tenant-scoped billing plans.
type PlanService struct {
	plans         repository.PlanRepository
	subscriptions repository.SubscriptionRepository
	audit         *AuditService
	planGuard     *guard.Guard[*domain.Plan]
}

// NewPlanService constructs the service.
func NewPlanService(plans repository.PlanRepository, subscriptions repository.SubscriptionRepository, audit *AuditService) *PlanService {
	return &PlanService{
		plans:         plans,
		subscriptions: subscriptions,
		audit:         audit,
		planGuard: guard.New("plan", "PLAN_NOT_FOUND",
			plans.GetByID,
			func(plan *domain.Plan) string { return plan.TenantID },
		),
	}
}

// Create adds a plan to the tenant. Name is unique within the tenant.
func (s *PlanService) Create(ctx context.Context, tenantID string, actor Actor, input PlanCreateInput, meta RequestMeta) (*domain.Plan, error) {
	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = "usd"
	}
	interval := input.Interval
	if interval == "" {
		interval = domain.PlanIntervalMonth
	}

	plan := &domain.Plan{
		TenantID:   tenantID,
		Name:       strings.TrimSpace(input.Name),
		PriceCents: input.PriceCents,
		Currency:   currency,
		Interval:   interval,
		Features:   input.Features,
		MaxInboxes: input.MaxInboxes,
		MaxAgents:  input.MaxAgents,
		Active:     true,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("PLAN_EXISTS", "A plan with this name already exists", nil)
		}
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditPlanCreated, plan.ID, map[string]any{
		"name":        plan.Name,
		"price_cents": plan.PriceCents,
	}, meta)
	return plan, nil
}

// Get returns a plan owned by the tenant.
func (s *PlanService) Get(ctx context.Context, tenantID, planID string) (*domain.Plan, error) {
	return s.planGuard.Require(ctx, planID, tenantID)
}

// List returns the tenant's plans.
func (s *PlanService) List(ctx context.Context, tenantID string, limit, offset int) ([]domain.Plan, int, error) {
	return s.plans.ListByTenant(ctx, tenantID, limit, offset)
}

// Update mutates a plan after the ownership check.
func (s *PlanService) Update(ctx context.Context, tenantID string, actor Actor, planID string, input PlanUpdateInput, meta RequestMeta) (*domain.Plan, error) {
	plan, err := s.planGuard.Require(ctx, planID, tenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		plan.Name = strings.TrimSpace(*input.Name)
	}
	if input.PriceCents != nil {
		plan.PriceCents = *input.PriceCents
	}
	if input.Features != nil {
		plan.Features = input.Features
	}
	if input.MaxInboxes != nil {
		plan.MaxInboxes = *input.MaxInboxes
	}
	if input.MaxAgents != nil {
		plan.MaxAgents = *input.MaxAgents
	}
	if input.Active != nil {
		plan.Active = *input.Active
	}

	if err := s.plans.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("PLAN_EXISTS", "A plan with this name already exists", nil)
		}
		if err == pgx.ErrNoRows {
			return nil, s.planGuard.NotFound()
		}
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditPlanUpdated, plan.ID, nil, meta)
	return plan, nil
}

// Delete removes a plan. A plan with subscribers requires a migration target
// in the same tenant; without one the delete is rejected and nothing changes.
func (s *PlanService) Delete(ctx context.Context, tenantID string, actor Actor, planID string, migrateToPlanID *string, meta RequestMeta) error {
	plan, err := s.planGuard.Require(ctx, planID, tenantID)
	if err != nil {
		return err
	}

	subscribers, err := s.subscriptions.CountByPlan(ctx, plan.ID)
	if err != nil {
		return err
	}

	metadata := map[string]any{"name": plan.Name, "subscribers": subscribers}

	if subscribers > 0 {
		if migrateToPlanID == nil {
			return apperrors.NewConflict("PLAN_HAS_SUBSCRIBERS", "plan has active subscribers; provide migrate_to_plan_id", map[string]any{
				"subscriber_count": subscribers,
			})
		}
		if *migrateToPlanID == plan.ID {
			return apperrors.NewValidationError("cannot migrate subscribers to the plan being deleted", nil)
		}
		target, err := s.planGuard.Require(ctx, *migrateToPlanID, tenantID)
		if err != nil {
			return err
		}
		if err := s.plans.DeleteWithMigration(ctx, plan.ID, target.ID); err != nil {
			return err
		}
		metadata["migrated_to"] = target.ID
	} else {
		if err := s.plans.Delete(ctx, plan.ID); err != nil {
			if err == pgx.ErrNoRows {
				return s.planGuard.NotFound()
			}
			return err
		}
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditPlanDeleted, plan.ID, metadata, meta)
	return nil
}
