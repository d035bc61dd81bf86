package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// SubscriptionRepository encapsulates subscription persistence.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	GetByAccount(ctx context.Context, accountID string) (*domain.Subscription, error)
	GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*domain.Subscription, error)
	CountByPlan(ctx context.Context, planID string) (int, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, tenant_id, account_id, plan_id, status, stripe_customer_id, stripe_subscription_id, current_period_end, created_at, updated_at`

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (tenant_id, account_id, plan_id, status, stripe_customer_id, stripe_subscription_id, current_period_end)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		sub.TenantID,
		sub.AccountID,
		sub.PlanID,
		sub.Status,
		sub.StripeCustomerID,
		sub.StripeSubscriptionID,
		sub.CurrentPeriodEnd,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
	return translateErr(err)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        UPDATE subscriptions SET plan_id=$1, status=$2, stripe_customer_id=$3, stripe_subscription_id=$4,
            current_period_end=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		sub.PlanID,
		sub.Status,
		sub.StripeCustomerID,
		sub.StripeSubscriptionID,
		sub.CurrentPeriodEnd,
		sub.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	return r.fetchSingle(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE id=$1`, id)
}

func (r *subscriptionRepository) GetByAccount(ctx context.Context, accountID string) (*domain.Subscription, error) {
	return r.fetchSingle(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE account_id=$1`, accountID)
}

func (r *subscriptionRepository) GetByStripeID(ctx context.Context, stripeSubscriptionID string) (*domain.Subscription, error) {
	return r.fetchSingle(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE stripe_subscription_id=$1`, stripeSubscriptionID)
}

func (r *subscriptionRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&sub.ID,
		&sub.TenantID,
		&sub.AccountID,
		&sub.PlanID,
		&sub.Status,
		&sub.StripeCustomerID,
		&sub.StripeSubscriptionID,
		&sub.CurrentPeriodEnd,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) CountByPlan(ctx context.Context, planID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscriptions WHERE plan_id=$1`, planID).Scan(&count)
	return count, err
}
