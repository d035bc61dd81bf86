package domain

import "time"

// AccountStatus enumerates lifecycle states for accounts.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "ACTIVE"
	AccountStatusInactive  AccountStatus = "INACTIVE"
	AccountStatusSuspended AccountStatus = "SUSPENDED"
)

// Account is a customer workspace within a tenant. It owns inboxes, teams,
// agents, API keys and custom fields.
type Account struct {
	ID        string
	TenantID  string
	Name      string
	Status    AccountStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
