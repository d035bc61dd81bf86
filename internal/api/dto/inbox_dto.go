package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreateInboxRequest is the inbox creation payload.
type CreateInboxRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=120"`
	PhoneNumber       string `json:"phone_number" validate:"required,e164"`
	GatewayInstanceID string `json:"gateway_instance_id"`
}

// UpdateInboxRequest is the inbox mutation payload. Absent fields are left
// unchanged.
type UpdateInboxRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=120"`
	PhoneNumber       *string `json:"phone_number" validate:"omitempty,e164"`
	GatewayInstanceID *string `json:"gateway_instance_id"`
	Status            *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// InboxResponse is the serialized inbox.
type InboxResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ChannelType       string    `json:"channel_type"`
	PhoneNumber       string    `json:"phone_number"`
	GatewayInstanceID string    `json:"gateway_instance_id,omitempty"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewInboxResponse maps a domain inbox.
func NewInboxResponse(inbox *domain.Inbox) InboxResponse {
	return InboxResponse{
		ID:                inbox.ID,
		Name:              inbox.Name,
		ChannelType:       string(inbox.ChannelType),
		PhoneNumber:       inbox.PhoneNumber,
		GatewayInstanceID: inbox.GatewayInstanceID,
		Status:            string(inbox.Status),
		CreatedAt:         inbox.CreatedAt,
		UpdatedAt:         inbox.UpdatedAt,
	}
}
