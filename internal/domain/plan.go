package domain

import "time"

// PlanInterval enumerates billing intervals.
type PlanInterval string

const (
	PlanIntervalMonth PlanInterval = "month"
	PlanIntervalYear  PlanInterval = "year"
)

// Plan is a tenant-scoped billing plan. Name is unique within the tenant.
type Plan struct {
	ID            string
	TenantID      string
	Name          string
	PriceCents    int64
	Currency      string
	Interval      PlanInterval
	Features      map[string]any
	MaxInboxes    int
	MaxAgents     int
	Active        bool
	StripePriceID *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
