package domain

import "time"

// AuditActionType enumerates the fixed set of auditable actions.
type AuditActionType string

const (
	AuditPlanCreated    AuditActionType = "PLAN_CREATED"
	AuditPlanUpdated    AuditActionType = "PLAN_UPDATED"
	AuditPlanDeleted    AuditActionType = "PLAN_DELETED"
	AuditPlanAssigned   AuditActionType = "PLAN_ASSIGNED"
	AuditSettingChanged AuditActionType = "SETTING_CHANGED"
	AuditAgentSuspended AuditActionType = "AGENT_SUSPENDED"
	AuditAccountCreated AuditActionType = "ACCOUNT_CREATED"
	AuditAccountDeleted AuditActionType = "ACCOUNT_DELETED"
	AuditTenantCreated  AuditActionType = "TENANT_CREATED"
	AuditTenantUpdated  AuditActionType = "TENANT_UPDATED"
	AuditRoleCreated    AuditActionType = "ROLE_CREATED"
	AuditRoleUpdated    AuditActionType = "ROLE_UPDATED"
	AuditRoleDeleted    AuditActionType = "ROLE_DELETED"
	AuditInboxCreated   AuditActionType = "INBOX_CREATED"
	AuditInboxUpdated   AuditActionType = "INBOX_UPDATED"
	AuditInboxDeleted   AuditActionType = "INBOX_DELETED"
	AuditAPIKeyCreated  AuditActionType = "API_KEY_CREATED"
	AuditAPIKeyRevoked  AuditActionType = "API_KEY_REVOKED"
)

// AuditLogEntry is an immutable record of a privileged state change.
// Entries are created alongside admin/superadmin mutations and never
// mutated or deleted.
type AuditLogEntry struct {
	ID         string
	TenantID   string
	ActorID    string
	ActorType  SubjectType
	ActionType AuditActionType
	TargetID   string
	Metadata   map[string]any
	IP         string
	UserAgent  string
	CreatedAt  time.Time
}
