package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// RoleRepository encapsulates custom role persistence. Default roles are
// process-wide constants and never hit the database.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.CustomRole) error
	Update(ctx context.Context, role *domain.CustomRole) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.CustomRole, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.CustomRole, error)
}

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository instantiates repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

const roleColumns = `id, account_id, name, description, permissions, created_at, updated_at`

func (r *roleRepository) Create(ctx context.Context, role *domain.CustomRole) error {
	const query = `
        INSERT INTO custom_roles (account_id, name, description, permissions)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		role.AccountID,
		role.Name,
		role.Description,
		role.Permissions,
	).Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	return translateErr(err)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.CustomRole) error {
	const query = `
        UPDATE custom_roles SET name=$1, description=$2, permissions=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, role.Name, role.Description, role.Permissions, role.ID)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM custom_roles WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.CustomRole, error) {
	var role domain.CustomRole
	if err := r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM custom_roles WHERE id=$1`, id).Scan(
		&role.ID,
		&role.AccountID,
		&role.Name,
		&role.Description,
		&role.Permissions,
		&role.CreatedAt,
		&role.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.CustomRole, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roleColumns+` FROM custom_roles WHERE account_id=$1 ORDER BY name`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CustomRole
	for rows.Next() {
		var role domain.CustomRole
		if err := rows.Scan(
			&role.ID,
			&role.AccountID,
			&role.Name,
			&role.Description,
			&role.Permissions,
			&role.CreatedAt,
			&role.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, role)
	}
	return result, rows.Err()
}
