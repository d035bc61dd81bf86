package events

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventAuditAction carries a privileged mutation to be recorded in the
	// audit log.
	EventAuditAction EventType = "audit_action"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.SubjectType `json:"type"`
	ID   string             `json:"id"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TenantID  string      `json:"tenant_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AuditActionPayload describes a privileged state change.
type AuditActionPayload struct {
	ActionType domain.AuditActionType `json:"action_type"`
	TargetID   string                 `json:"target_id"`
	Metadata   map[string]any         `json:"metadata,omitempty"`
	IP         string                 `json:"ip,omitempty"`
	UserAgent  string                 `json:"user_agent,omitempty"`
}
