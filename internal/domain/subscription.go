package domain

import "time"

// SubscriptionStatus enumerates subscription lifecycle states.
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "PENDING"
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusPastDue   SubscriptionStatus = "PAST_DUE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusRefunded  SubscriptionStatus = "REFUNDED"
	SubscriptionStatusCompleted SubscriptionStatus = "COMPLETED"
)

// Subscription ties an account to a plan. Stripe identifiers are present once
// the subscription has been provisioned upstream.
type Subscription struct {
	ID                   string
	TenantID             string
	AccountID            string
	PlanID               string
	Status               SubscriptionStatus
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CurrentPeriodEnd     *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
