package domain

import "time"

// Team represents a group of agents within an account.
type Team struct {
	ID          string
	AccountID   string
	Name        string
	Description string
	MemberIDs   []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
