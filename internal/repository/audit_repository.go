package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// AuditFilter captures audit listing parameters. Limit 0 falls back to the
// default page size; a negative Limit disables pagination entirely, which the
// export path relies on to read the whole filtered log.
type AuditFilter struct {
	ActionType *domain.AuditActionType
	ActorID    *string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// Unpaginated marks a filter as unbounded for full exports.
func (f AuditFilter) Unpaginated() AuditFilter {
	f.Limit = -1
	f.Offset = 0
	return f
}

// AuditRepository appends and reads immutable audit records. There is no
// update or delete on purpose.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditLogEntry) error
	ListByTenant(ctx context.Context, tenantID string, filter AuditFilter) ([]domain.AuditLogEntry, int, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository instantiates repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

const auditColumns = `id, tenant_id, actor_id, actor_type, action_type, target_id, metadata, ip, user_agent, created_at`

func (r *auditRepository) Insert(ctx context.Context, entry *domain.AuditLogEntry) error {
	const query = `
        INSERT INTO audit_log (id, tenant_id, actor_id, actor_type, action_type, target_id, metadata, ip, user_agent)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.TenantID,
		entry.ActorID,
		entry.ActorType,
		entry.ActionType,
		entry.TargetID,
		entry.Metadata,
		entry.IP,
		entry.UserAgent,
	).Scan(&entry.CreatedAt)
}

func (r *auditRepository) ListByTenant(ctx context.Context, tenantID string, filter AuditFilter) ([]domain.AuditLogEntry, int, error) {
	clauses := []string{"tenant_id=$1"}
	args := []any{tenantID}

	if filter.ActionType != nil {
		args = append(args, *filter.ActionType)
		clauses = append(clauses, fmt.Sprintf("action_type=$%d", len(args)))
	}
	if filter.ActorID != nil {
		args = append(args, *filter.ActorID)
		clauses = append(clauses, fmt.Sprintf("actor_id=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	where := clauses[0]
	for _, clause := range clauses[1:] {
		where += " AND " + clause
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_log WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM audit_log WHERE %s ORDER BY created_at DESC`, auditColumns, where)
	if filter.Limit >= 0 {
		limit := filter.Limit
		if limit == 0 {
			limit = 20
		}
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(` LIMIT %d OFFSET %d`, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.AuditLogEntry
	for rows.Next() {
		var entry domain.AuditLogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.TenantID,
			&entry.ActorID,
			&entry.ActorType,
			&entry.ActionType,
			&entry.TargetID,
			&entry.Metadata,
			&entry.IP,
			&entry.UserAgent,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, entry)
	}
	return result, total, rows.Err()
}
