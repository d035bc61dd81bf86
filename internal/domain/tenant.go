package domain

import "time"

// TenantStatus enumerates lifecycle states for tenants.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusInactive  TenantStatus = "INACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// Tenant is the top-level isolation boundary. Every account, plan and audit
// entry hangs off exactly one tenant, keyed by its subdomain.
type Tenant struct {
	ID              string
	Name            string
	Subdomain       string
	Status          TenantStatus
	Settings        map[string]any
	StripeAccountID *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
