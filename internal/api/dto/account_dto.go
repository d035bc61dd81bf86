package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreateAccountRequest is the superadmin account creation payload.
type CreateAccountRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// UpdateAccountRequest is the account mutation payload.
type UpdateAccountRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=120"`
	Status *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// DeleteAccountRequest is the destructive-delete handshake. Confirm must be
// the literal string DELETE.
type DeleteAccountRequest struct {
	Confirm string `json:"confirm"`
}

// AccountResponse is the serialized account.
type AccountResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		TenantID:  account.TenantID,
		Name:      account.Name,
		Status:    string(account.Status),
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
