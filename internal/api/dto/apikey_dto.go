package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreateAPIKeyRequest is the API key creation payload.
type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// APIKeyResponse is the serialized key record. Key is populated only in the
// creation response; afterwards only the hash exists server-side.
type APIKeyResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Key        string     `json:"key,omitempty"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// NewAPIKeyResponse maps a stored key record.
func NewAPIKeyResponse(key *domain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         key.ID,
		Name:       key.Name,
		LastUsedAt: key.LastUsedAt,
		RevokedAt:  key.RevokedAt,
		CreatedAt:  key.CreatedAt,
	}
}

// NewCreatedAPIKeyResponse includes the one-time plaintext.
func NewCreatedAPIKeyResponse(key *domain.APIKey, plaintext string) APIKeyResponse {
	resp := NewAPIKeyResponse(key)
	resp.Key = plaintext
	return resp
}
