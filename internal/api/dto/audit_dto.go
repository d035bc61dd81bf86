package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// AuditEntryResponse is the serialized audit log row.
type AuditEntryResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	ActorType  string         `json:"actor_type"`
	ActionType string         `json:"action_type"`
	TargetID   string         `json:"target_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	IP         string         `json:"ip,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// NewAuditEntryResponse maps a domain audit entry.
func NewAuditEntryResponse(entry *domain.AuditLogEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:         entry.ID,
		ActorID:    entry.ActorID,
		ActorType:  string(entry.ActorType),
		ActionType: string(entry.ActionType),
		TargetID:   entry.TargetID,
		Metadata:   entry.Metadata,
		IP:         entry.IP,
		UserAgent:  entry.UserAgent,
		CreatedAt:  entry.CreatedAt,
	}
}
