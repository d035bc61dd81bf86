package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CustomFieldRepository encapsulates custom field persistence.
type CustomFieldRepository interface {
	Create(ctx context.Context, field *domain.CustomField) error
	Update(ctx context.Context, field *domain.CustomField) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.CustomField, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.CustomField, error)
}

type customFieldRepository struct {
	pool *pgxpool.Pool
}

// NewCustomFieldRepository instantiates repository.
func NewCustomFieldRepository(pool *pgxpool.Pool) CustomFieldRepository {
	return &customFieldRepository{pool: pool}
}

const customFieldColumns = `id, account_id, key, label, field_type, created_at, updated_at`

func (r *customFieldRepository) Create(ctx context.Context, field *domain.CustomField) error {
	const query = `
        INSERT INTO custom_fields (account_id, key, label, field_type)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		field.AccountID,
		field.Key,
		field.Label,
		field.FieldType,
	).Scan(&field.ID, &field.CreatedAt, &field.UpdatedAt)
	return translateErr(err)
}

func (r *customFieldRepository) Update(ctx context.Context, field *domain.CustomField) error {
	const query = `
        UPDATE custom_fields SET label=$1, field_type=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, field.Label, field.FieldType, field.ID)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customFieldRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM custom_fields WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *customFieldRepository) GetByID(ctx context.Context, id string) (*domain.CustomField, error) {
	var field domain.CustomField
	if err := r.pool.QueryRow(ctx, `SELECT `+customFieldColumns+` FROM custom_fields WHERE id=$1`, id).Scan(
		&field.ID,
		&field.AccountID,
		&field.Key,
		&field.Label,
		&field.FieldType,
		&field.CreatedAt,
		&field.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *customFieldRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.CustomField, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+customFieldColumns+` FROM custom_fields WHERE account_id=$1 ORDER BY key`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CustomField
	for rows.Next() {
		var field domain.CustomField
		if err := rows.Scan(
			&field.ID,
			&field.AccountID,
			&field.Key,
			&field.Label,
			&field.FieldType,
			&field.CreatedAt,
			&field.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, field)
	}
	return result, rows.Err()
}
