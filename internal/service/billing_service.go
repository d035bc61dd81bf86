package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	stripe "github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"github.com/spec-kit/whatsapp-crm/internal/billing"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// BillingService manages subscriptions and the Stripe integration.
type BillingService struct {
	subscriptions repository.SubscriptionRepository
	accounts      repository.AccountRepository
	stripeGW      billing.StripeGateway
	audit         *AuditService
	logger        *zap.Logger
	planGuard     *guard.Guard[*domain.Plan]
	accountGuard  *guard.Guard[*domain.Account]
}

// NewBillingService constructs the service.
func NewBillingService(subscriptions repository.SubscriptionRepository, accounts repository.AccountRepository, plans repository.PlanRepository, stripeGW billing.StripeGateway, audit *AuditService, logger *zap.Logger) *BillingService {
	return &BillingService{
		subscriptions: subscriptions,
		accounts:      accounts,
		stripeGW:      stripeGW,
		audit:         audit,
		logger:        logger,
		planGuard: guard.New("plan", "PLAN_NOT_FOUND",
			plans.GetByID,
			func(plan *domain.Plan) string { return plan.TenantID },
		),
		accountGuard: guard.New("account", "ACCOUNT_NOT_FOUND",
			accounts.GetByID,
			func(account *domain.Account) string { return account.TenantID },
		),
	}
}

// GetForAccount returns the account's subscription.
func (s *BillingService) GetForAccount(ctx context.Context, accountID string) (*domain.Subscription, error) {
	sub, err := s.subscriptions.GetByAccount(ctx, accountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("subscription", "SUBSCRIPTION_NOT_FOUND")
		}
		return nil, err
	}
	return sub, nil
}

// AssignPlan puts an account on a plan. Both the account and the plan must
// belong to the admin's tenant. An existing subscription is moved; otherwise
// a new one is created, provisioned in Stripe when the plan has a price there.
func (s *BillingService) AssignPlan(ctx context.Context, tenantID string, actor Actor, accountID, planID string, billingEmail string, meta RequestMeta) (*domain.Subscription, error) {
	account, err := s.accountGuard.Require(ctx, accountID, tenantID)
	if err != nil {
		return nil, err
	}
	plan, err := s.planGuard.Require(ctx, planID, tenantID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, apperrors.NewConflict("PLAN_INACTIVE", "cannot assign an inactive plan", nil)
	}

	sub, err := s.subscriptions.GetByAccount(ctx, account.ID)
	switch {
	case err == nil:
		sub.PlanID = plan.ID
		if err := s.subscriptions.Update(ctx, sub); err != nil {
			return nil, err
		}
	case err == pgx.ErrNoRows:
		sub = &domain.Subscription{
			TenantID:  tenantID,
			AccountID: account.ID,
			PlanID:    plan.ID,
			Status:    domain.SubscriptionStatusPending,
		}
		if plan.StripePriceID != nil && billingEmail != "" {
			customerID, err := s.stripeGW.CreateCustomer(ctx, billingEmail, account.Name)
			if err != nil {
				return nil, err
			}
			stripeSubID, err := s.stripeGW.CreateSubscription(ctx, customerID, *plan.StripePriceID)
			if err != nil {
				return nil, err
			}
			sub.StripeCustomerID = &customerID
			sub.StripeSubscriptionID = &stripeSubID
			sub.Status = domain.SubscriptionStatusActive
		}
		if err := s.subscriptions.Create(ctx, sub); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditPlanAssigned, account.ID, map[string]any{
		"plan_id":   plan.ID,
		"plan_name": plan.Name,
	}, meta)
	return sub, nil
}

// HandleWebhook applies a verified Stripe event to local subscription state.
// Unknown event types are ignored.
func (s *BillingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.stripeGW.VerifyWebhook(payload, signature)
	if err != nil {
		return err
	}

	switch event.Type {
	case "customer.subscription.updated", "customer.subscription.deleted":
		var stripeSub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
			return apperrors.NewValidationError("malformed webhook payload", nil)
		}
		return s.syncSubscription(ctx, &stripeSub)
	default:
		s.logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
		return nil
	}
}

func (s *BillingService) syncSubscription(ctx context.Context, stripeSub *stripe.Subscription) error {
	sub, err := s.subscriptions.GetByStripeID(ctx, stripeSub.ID)
	if err != nil {
		if err == pgx.ErrNoRows {
			s.logger.Warn("stripe webhook for unknown subscription", zap.String("stripe_subscription_id", stripeSub.ID))
			return nil
		}
		return err
	}

	sub.Status = mapStripeStatus(stripeSub.Status)
	if stripeSub.CurrentPeriodEnd > 0 {
		periodEnd := time.Unix(stripeSub.CurrentPeriodEnd, 0).UTC()
		sub.CurrentPeriodEnd = &periodEnd
	}
	return s.subscriptions.Update(ctx, sub)
}

func mapStripeStatus(status stripe.SubscriptionStatus) domain.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return domain.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return domain.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled:
		return domain.SubscriptionStatusCancelled
	case stripe.SubscriptionStatusIncomplete, stripe.SubscriptionStatusIncompleteExpired:
		return domain.SubscriptionStatusPending
	default:
		return domain.SubscriptionStatusPending
	}
}
