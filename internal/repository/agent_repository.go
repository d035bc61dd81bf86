package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// AgentRepository encapsulates agent persistence.
type AgentRepository interface {
	Create(ctx context.Context, agent *domain.Agent) error
	Update(ctx context.Context, agent *domain.Agent) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Agent, error)
	GetByEmailInTenant(ctx context.Context, tenantID, email string) (*domain.Agent, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Agent, int, error)
	CountByRole(ctx context.Context, roleID string) (int, error)
}

type agentRepository struct {
	pool *pgxpool.Pool
}

// NewAgentRepository instantiates repository.
func NewAgentRepository(pool *pgxpool.Pool) AgentRepository {
	return &agentRepository{pool: pool}
}

const agentColumns = `id, account_id, name, email, password_hash, role_name, custom_role_id, status, created_at, updated_at`

func (r *agentRepository) Create(ctx context.Context, agent *domain.Agent) error {
	const query = `
        INSERT INTO agents (account_id, name, email, password_hash, role_name, custom_role_id, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		agent.AccountID,
		agent.Name,
		agent.Email,
		agent.PasswordHash,
		agent.RoleName,
		agent.CustomRoleID,
		agent.Status,
	).Scan(&agent.ID, &agent.CreatedAt, &agent.UpdatedAt)
	return translateErr(err)
}

func (r *agentRepository) Update(ctx context.Context, agent *domain.Agent) error {
	const query = `
        UPDATE agents SET name=$1, email=$2, password_hash=$3, role_name=$4, custom_role_id=$5, status=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		agent.Name,
		agent.Email,
		agent.PasswordHash,
		agent.RoleName,
		agent.CustomRoleID,
		agent.Status,
		agent.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM agents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *agentRepository) GetByID(ctx context.Context, id string) (*domain.Agent, error) {
	return r.fetchSingle(ctx, `SELECT `+agentColumns+` FROM agents WHERE id=$1`, id)
}

func (r *agentRepository) GetByEmailInTenant(ctx context.Context, tenantID, email string) (*domain.Agent, error) {
	const query = `
        SELECT a.id, a.account_id, a.name, a.email, a.password_hash, a.role_name, a.custom_role_id, a.status, a.created_at, a.updated_at
        FROM agents a
        JOIN accounts acc ON acc.id = a.account_id
        WHERE acc.tenant_id=$1 AND a.email=$2
        ORDER BY a.created_at
        LIMIT 1`
	var agent domain.Agent
	if err := r.pool.QueryRow(ctx, query, tenantID, email).Scan(
		&agent.ID,
		&agent.AccountID,
		&agent.Name,
		&agent.Email,
		&agent.PasswordHash,
		&agent.RoleName,
		&agent.CustomRoleID,
		&agent.Status,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Agent, error) {
	var agent domain.Agent
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&agent.ID,
		&agent.AccountID,
		&agent.Name,
		&agent.Email,
		&agent.PasswordHash,
		&agent.RoleName,
		&agent.CustomRoleID,
		&agent.Status,
		&agent.CreatedAt,
		&agent.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *agentRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Agent, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agents WHERE account_id=$1`, accountID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM agents WHERE account_id=$1 ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		agentColumns, limit, offset)

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Agent
	for rows.Next() {
		var agent domain.Agent
		if err := rows.Scan(
			&agent.ID,
			&agent.AccountID,
			&agent.Name,
			&agent.Email,
			&agent.PasswordHash,
			&agent.RoleName,
			&agent.CustomRoleID,
			&agent.Status,
			&agent.CreatedAt,
			&agent.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, agent)
	}
	return result, total, rows.Err()
}

func (r *agentRepository) CountByRole(ctx context.Context, roleID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM agents WHERE custom_role_id=$1`, roleID).Scan(&count)
	return count, err
}
