package domain

import "time"

// InboxStatus enumerates lifecycle states for inboxes.
type InboxStatus string

const (
	InboxStatusActive   InboxStatus = "ACTIVE"
	InboxStatusInactive InboxStatus = "INACTIVE"
)

// ChannelType identifies the messaging channel backing an inbox.
type ChannelType string

const (
	ChannelTypeWhatsApp ChannelType = "WHATSAPP"
)

// Inbox is a messaging channel endpoint (one WhatsApp number) owned by an
// account. GatewayInstanceID links it to the external gateway session.
type Inbox struct {
	ID                string
	AccountID         string
	Name              string
	ChannelType       ChannelType
	PhoneNumber       string
	GatewayInstanceID string
	Status            InboxStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
