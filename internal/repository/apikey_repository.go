package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// APIKeyRepository encapsulates API key persistence.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.APIKey) error
	GetByID(ctx context.Context, id string) (*domain.APIKey, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.APIKey, error)
	Revoke(ctx context.Context, id string) error
}

type apiKeyRepository struct {
	pool *pgxpool.Pool
}

// NewAPIKeyRepository instantiates repository.
func NewAPIKeyRepository(pool *pgxpool.Pool) APIKeyRepository {
	return &apiKeyRepository{pool: pool}
}

const apiKeyColumns = `id, account_id, name, key_hash, last_used_at, revoked_at, created_at`

func (r *apiKeyRepository) Create(ctx context.Context, key *domain.APIKey) error {
	const query = `
        INSERT INTO api_keys (account_id, name, key_hash)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		key.AccountID,
		key.Name,
		key.KeyHash,
	).Scan(&key.ID, &key.CreatedAt)
	return translateErr(err)
}

func (r *apiKeyRepository) GetByID(ctx context.Context, id string) (*domain.APIKey, error) {
	var key domain.APIKey
	if err := r.pool.QueryRow(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE id=$1`, id).Scan(
		&key.ID,
		&key.AccountID,
		&key.Name,
		&key.KeyHash,
		&key.LastUsedAt,
		&key.RevokedAt,
		&key.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &key, nil
}

func (r *apiKeyRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.APIKey, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE account_id=$1 ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.APIKey
	for rows.Next() {
		var key domain.APIKey
		if err := rows.Scan(
			&key.ID,
			&key.AccountID,
			&key.Name,
			&key.KeyHash,
			&key.LastUsedAt,
			&key.RevokedAt,
			&key.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, key)
	}
	return result, rows.Err()
}

func (r *apiKeyRepository) Revoke(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE api_keys SET revoked_at=NOW() WHERE id=$1 AND revoked_at IS NULL`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
