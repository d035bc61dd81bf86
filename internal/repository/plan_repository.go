package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// PlanRepository encapsulates plan persistence.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) error
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id string) error
	// DeleteWithMigration atomically moves the plan's subscriptions to
	// migrateToID and removes the plan.
	DeleteWithMigration(ctx context.Context, id, migrateToID string) error
	GetByID(ctx context.Context, id string) (*domain.Plan, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.Plan, int, error)
}

type planRepository struct {
	pool *pgxpool.Pool
}

// NewPlanRepository instantiates repository.
func NewPlanRepository(pool *pgxpool.Pool) PlanRepository {
	return &planRepository{pool: pool}
}

const planColumns = `id, tenant_id, name, price_cents, currency, interval, features, max_inboxes, max_agents, active, stripe_price_id, created_at, updated_at`

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	const query = `
        INSERT INTO plans (tenant_id, name, price_cents, currency, interval, features, max_inboxes, max_agents, active, stripe_price_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		plan.TenantID,
		plan.Name,
		plan.PriceCents,
		plan.Currency,
		plan.Interval,
		plan.Features,
		plan.MaxInboxes,
		plan.MaxAgents,
		plan.Active,
		plan.StripePriceID,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	return translateErr(err)
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	const query = `
        UPDATE plans SET name=$1, price_cents=$2, currency=$3, interval=$4, features=$5,
            max_inboxes=$6, max_agents=$7, active=$8, stripe_price_id=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		plan.Name,
		plan.PriceCents,
		plan.Currency,
		plan.Interval,
		plan.Features,
		plan.MaxInboxes,
		plan.MaxAgents,
		plan.Active,
		plan.StripePriceID,
		plan.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM plans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *planRepository) DeleteWithMigration(ctx context.Context, id, migrateToID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `UPDATE subscriptions SET plan_id=$1, updated_at=NOW() WHERE plan_id=$2`, migrateToID, id); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM plans WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.Plan, error) {
	var plan domain.Plan
	if err := r.pool.QueryRow(ctx, `SELECT `+planColumns+` FROM plans WHERE id=$1`, id).Scan(
		&plan.ID,
		&plan.TenantID,
		&plan.Name,
		&plan.PriceCents,
		&plan.Currency,
		&plan.Interval,
		&plan.Features,
		&plan.MaxInboxes,
		&plan.MaxAgents,
		&plan.Active,
		&plan.StripePriceID,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *planRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.Plan, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM plans WHERE tenant_id=$1`, tenantID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM plans WHERE tenant_id=$1 ORDER BY price_cents LIMIT %d OFFSET %d`,
		planColumns, limit, offset)

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Plan
	for rows.Next() {
		var plan domain.Plan
		if err := rows.Scan(
			&plan.ID,
			&plan.TenantID,
			&plan.Name,
			&plan.PriceCents,
			&plan.Currency,
			&plan.Interval,
			&plan.Features,
			&plan.MaxInboxes,
			&plan.MaxAgents,
			&plan.Active,
			&plan.StripePriceID,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, plan)
	}
	return result, total, rows.Err()
}
