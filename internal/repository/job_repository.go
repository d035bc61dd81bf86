package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// JobFilter captures job listing parameters.
type JobFilter struct {
	Kind   *domain.JobKind
	Status *domain.JobStatus
	Limit  int
	Offset int
}

// JobRepository reads background job state. Jobs are produced and mutated by
// queue workers outside this API; this layer is read-only.
type JobRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListByAccount(ctx context.Context, accountID string, filter JobFilter) ([]domain.Job, int, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, account_id, kind, status, progress, result, created_at, updated_at`

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	var job domain.Job
	if err := r.pool.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=$1`, id).Scan(
		&job.ID,
		&job.AccountID,
		&job.Kind,
		&job.Status,
		&job.Progress,
		&job.Result,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListByAccount(ctx context.Context, accountID string, filter JobFilter) ([]domain.Job, int, error) {
	clauses := "account_id=$1"
	args := []any{accountID}

	if filter.Kind != nil {
		args = append(args, *filter.Kind)
		clauses += fmt.Sprintf(" AND kind=$%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses += fmt.Sprintf(" AND status=$%d", len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jobs WHERE `+clauses, args...).Scan(&total); err != nil {
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

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		jobColumns, clauses, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(
			&job.ID,
			&job.AccountID,
			&job.Kind,
			&job.Status,
			&job.Progress,
			&job.Result,
			&job.CreatedAt,
			&job.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, job)
	}
	return result, total, rows.Err()
}
