package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// TeamRepository encapsulates team persistence including membership.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Team, int, error)
	AddMember(ctx context.Context, teamID, agentID string) error
	RemoveMember(ctx context.Context, teamID, agentID string) error
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository instantiates repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

const teamColumns = `id, account_id, name, description, created_at, updated_at`

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (account_id, name, description)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		team.AccountID,
		team.Name,
		team.Description,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
	return translateErr(err)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	const query = `
        UPDATE teams SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, team.Name, team.Description, team.ID)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var team domain.Team
	if err := r.pool.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id=$1`, id).Scan(
		&team.ID,
		&team.AccountID,
		&team.Name,
		&team.Description,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}

	memberRows, err := r.pool.Query(ctx, `SELECT agent_id FROM team_members WHERE team_id=$1 ORDER BY added_at`, id)
	if err != nil {
		return nil, err
	}
	defer memberRows.Close()
	for memberRows.Next() {
		var agentID string
		if err := memberRows.Scan(&agentID); err != nil {
			return nil, err
		}
		team.MemberIDs = append(team.MemberIDs, agentID)
	}
	return &team, memberRows.Err()
}

func (r *teamRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Team, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teams WHERE account_id=$1`, accountID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM teams WHERE account_id=$1 ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		teamColumns, limit, offset)

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(
			&team.ID,
			&team.AccountID,
			&team.Name,
			&team.Description,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, team)
	}
	return result, total, rows.Err()
}

func (r *teamRepository) AddMember(ctx context.Context, teamID, agentID string) error {
	const query = `INSERT INTO team_members (team_id, agent_id) VALUES ($1,$2)`
	_, err := r.pool.Exec(ctx, query, teamID, agentID)
	return translateErr(err)
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, agentID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE team_id=$1 AND agent_id=$2`, teamID, agentID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
