package domain

import "time"

// AgentStatus enumerates lifecycle states for agents.
type AgentStatus string

const (
	AgentStatusActive    AgentStatus = "ACTIVE"
	AgentStatusInactive  AgentStatus = "INACTIVE"
	AgentStatusSuspended AgentStatus = "SUSPENDED"
)

// Agent models a human user acting within an account. RoleName holds one of
// the default role constants; CustomRoleID is set instead when the agent is
// bound to an account-scoped custom role.
type Agent struct {
	ID           string
	AccountID    string
	Name         string
	Email        string
	PasswordHash string
	RoleName     RoleName
	CustomRoleID *string
	Status       AgentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
