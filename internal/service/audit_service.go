package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/events"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
)

// RequestMeta carries request attribution captured at the HTTP layer.
type RequestMeta struct {
	IP        string
	UserAgent string
}

// Actor identifies who performed a privileged operation.
type Actor struct {
	ID   string
	Type domain.SubjectType
}

// AuditService publishes audit events and serves audit queries.
type AuditService struct {
	repo       repository.AuditRepository
	dispatcher events.Dispatcher
}

// NewAuditService constructs the service.
func NewAuditService(repo repository.AuditRepository, dispatcher events.Dispatcher) *AuditService {
	return &AuditService{repo: repo, dispatcher: dispatcher}
}

// Record publishes an audit event for a completed privileged mutation.
// Recording is best-effort: the subscriber logs failures but the caller's
// mutation has already committed and never rolls back.
func (s *AuditService) Record(ctx context.Context, tenantID string, actor Actor, action domain.AuditActionType, targetID string, metadata map[string]any, meta RequestMeta) {
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAuditAction,
		TenantID:  tenantID,
		Actor:     events.Actor{Type: actor.Type, ID: actor.ID},
		Timestamp: time.Now().UTC(),
		Payload: events.AuditActionPayload{
			ActionType: action,
			TargetID:   targetID,
			Metadata:   metadata,
			IP:         meta.IP,
			UserAgent:  meta.UserAgent,
		},
	})
}

// List returns tenant-scoped audit entries.
func (s *AuditService) List(ctx context.Context, tenantID string, filter repository.AuditFilter) ([]domain.AuditLogEntry, int, error) {
	return s.repo.ListByTenant(ctx, tenantID, filter)
}

// ExportCSV writes the complete filtered log as CSV. Exports ignore any
// pagination on the filter.
func (s *AuditService) ExportCSV(ctx context.Context, tenantID string, filter repository.AuditFilter, w io.Writer) error {
	entries, _, err := s.repo.ListByTenant(ctx, tenantID, filter.Unpaginated())
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"id", "actor_id", "actor_type", "action_type", "target_id", "metadata", "ip", "user_agent", "created_at"}); err != nil {
		return err
	}
	for i := range entries {
		entry := &entries[i]
		metadata := ""
		if entry.Metadata != nil {
			raw, err := json.Marshal(entry.Metadata)
			if err != nil {
				return fmt.Errorf("marshal metadata for %s: %w", entry.ID, err)
			}
			metadata = string(raw)
		}
		record := []string{
			entry.ID,
			entry.ActorID,
			string(entry.ActorType),
			string(entry.ActionType),
			entry.TargetID,
			metadata,
			entry.IP,
			entry.UserAgent,
			entry.CreatedAt.Format(time.RFC3339),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportJSON writes the complete filtered log as a JSON array. Exports ignore
// any pagination on the filter.
func (s *AuditService) ExportJSON(ctx context.Context, tenantID string, filter repository.AuditFilter, w io.Writer) error {
	entries, _, err := s.repo.ListByTenant(ctx, tenantID, filter.Unpaginated())
	if err != nil {
		return err
	}
	type exportEntry struct {
		ID         string         `json:"id"`
		ActorID    string         `json:"actor_id"`
		ActorType  string         `json:"actor_type"`
		ActionType string         `json:"action_type"`
		TargetID   string         `json:"target_id"`
		Metadata   map[string]any `json:"metadata,omitempty"`
		IP         string         `json:"ip,omitempty"`
		UserAgent  string         `json:"user_agent,omitempty"`
		CreatedAt  string         `json:"created_at"`
	}
	out := make([]exportEntry, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		out = append(out, exportEntry{
			ID:         entry.ID,
			ActorID:    entry.ActorID,
			ActorType:  string(entry.ActorType),
			ActionType: string(entry.ActionType),
			TargetID:   entry.TargetID,
			Metadata:   entry.Metadata,
			IP:         entry.IP,
			UserAgent:  entry.UserAgent,
			CreatedAt:  entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return json.NewEncoder(w).Encode(out)
}

// ParseExportFormat validates the export format query value.
func ParseExportFormat(raw string) (string, bool) {
	switch raw {
	case "csv", "json":
		return raw, true
	case "":
		return "json", true
	default:
		return "", false
	}
}
