package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// TenantFilter captures superadmin listing parameters.
type TenantFilter struct {
	Status *domain.TenantStatus
	Limit  int
	Offset int
}

// TenantRepository encapsulates tenant persistence.
type TenantRepository interface {
	Create(ctx context.Context, tenant *domain.Tenant) error
	Update(ctx context.Context, tenant *domain.Tenant) error
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error)
	List(ctx context.Context, filter TenantFilter) ([]domain.Tenant, int, error)
}

type tenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository instantiates repository.
func NewTenantRepository(pool *pgxpool.Pool) TenantRepository {
	return &tenantRepository{pool: pool}
}

const tenantColumns = `id, name, subdomain, status, settings, stripe_account_id, created_at, updated_at`

func (r *tenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        INSERT INTO tenants (name, subdomain, status, settings, stripe_account_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		tenant.Name,
		tenant.Subdomain,
		tenant.Status,
		tenant.Settings,
		tenant.StripeAccountID,
	).Scan(&tenant.ID, &tenant.CreatedAt, &tenant.UpdatedAt)
	return translateErr(err)
}

func (r *tenantRepository) Update(ctx context.Context, tenant *domain.Tenant) error {
	const query = `
        UPDATE tenants SET name=$1, subdomain=$2, status=$3, settings=$4, stripe_account_id=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		tenant.Name,
		tenant.Subdomain,
		tenant.Status,
		tenant.Settings,
		tenant.StripeAccountID,
		tenant.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *tenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	return r.fetchSingle(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id=$1`, id)
}

func (r *tenantRepository) GetBySubdomain(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return r.fetchSingle(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE subdomain=$1`, subdomain)
}

func (r *tenantRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Tenant, error) {
	var tenant domain.Tenant
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&tenant.ID,
		&tenant.Name,
		&tenant.Subdomain,
		&tenant.Status,
		&tenant.Settings,
		&tenant.StripeAccountID,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) List(ctx context.Context, filter TenantFilter) ([]domain.Tenant, int, error) {
	args := []any{}
	clause := ""
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clause = " WHERE status=$1"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM tenants%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		tenantColumns, clause, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Tenant
	for rows.Next() {
		var tenant domain.Tenant
		if err := rows.Scan(
			&tenant.ID,
			&tenant.Name,
			&tenant.Subdomain,
			&tenant.Status,
			&tenant.Settings,
			&tenant.StripeAccountID,
			&tenant.CreatedAt,
			&tenant.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, tenant)
	}
	return result, total, rows.Err()
}
