package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// InboxRepository encapsulates inbox persistence.
type InboxRepository interface {
	Create(ctx context.Context, inbox *domain.Inbox) error
	Update(ctx context.Context, inbox *domain.Inbox) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Inbox, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Inbox, int, error)
	CountByAccount(ctx context.Context, accountID string) (int, error)
}

type inboxRepository struct {
	pool *pgxpool.Pool
}

// NewInboxRepository instantiates repository.
func NewInboxRepository(pool *pgxpool.Pool) InboxRepository {
	return &inboxRepository{pool: pool}
}

const inboxColumns = `id, account_id, name, channel_type, phone_number, gateway_instance_id, status, created_at, updated_at`

func (r *inboxRepository) Create(ctx context.Context, inbox *domain.Inbox) error {
	const query = `
        INSERT INTO inboxes (account_id, name, channel_type, phone_number, gateway_instance_id, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		inbox.AccountID,
		inbox.Name,
		inbox.ChannelType,
		inbox.PhoneNumber,
		inbox.GatewayInstanceID,
		inbox.Status,
	).Scan(&inbox.ID, &inbox.CreatedAt, &inbox.UpdatedAt)
	return translateErr(err)
}

func (r *inboxRepository) Update(ctx context.Context, inbox *domain.Inbox) error {
	const query = `
        UPDATE inboxes SET name=$1, phone_number=$2, gateway_instance_id=$3, status=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		inbox.Name,
		inbox.PhoneNumber,
		inbox.GatewayInstanceID,
		inbox.Status,
		inbox.ID,
	)
	if err != nil {
		return translateErr(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inboxRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM inboxes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inboxRepository) GetByID(ctx context.Context, id string) (*domain.Inbox, error) {
	var inbox domain.Inbox
	if err := r.pool.QueryRow(ctx, `SELECT `+inboxColumns+` FROM inboxes WHERE id=$1`, id).Scan(
		&inbox.ID,
		&inbox.AccountID,
		&inbox.Name,
		&inbox.ChannelType,
		&inbox.PhoneNumber,
		&inbox.GatewayInstanceID,
		&inbox.Status,
		&inbox.CreatedAt,
		&inbox.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inbox, nil
}

func (r *inboxRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Inbox, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inboxes WHERE account_id=$1`, accountID).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`SELECT %s FROM inboxes WHERE account_id=$1 ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		inboxColumns, limit, offset)

	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Inbox
	for rows.Next() {
		var inbox domain.Inbox
		if err := rows.Scan(
			&inbox.ID,
			&inbox.AccountID,
			&inbox.Name,
			&inbox.ChannelType,
			&inbox.PhoneNumber,
			&inbox.GatewayInstanceID,
			&inbox.Status,
			&inbox.CreatedAt,
			&inbox.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, inbox)
	}
	return result, total, rows.Err()
}

func (r *inboxRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inboxes WHERE account_id=$1`, accountID).Scan(&count)
	return count, err
}
