package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreateTenantRequest is the superadmin tenant creation payload.
type CreateTenantRequest struct {
	Name      string         `json:"name" validate:"required,min=1,max=120"`
	Subdomain string         `json:"subdomain" validate:"required,min=3,max=63"`
	Settings  map[string]any `json:"settings"`
}

// UpdateTenantRequest is the tenant mutation payload.
type UpdateTenantRequest struct {
	Name     *string        `json:"name" validate:"omitempty,min=1,max=120"`
	Status   *string        `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
	Settings map[string]any `json:"settings"`
}

// UpdateSettingsRequest carries a partial tenant settings update. Present
// keys are merged over the existing settings map.
type UpdateSettingsRequest struct {
	Settings map[string]any `json:"settings" validate:"required,min=1"`
}

// TenantResponse is the serialized tenant.
type TenantResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Subdomain string         `json:"subdomain"`
	Status    string         `json:"status"`
	Settings  map[string]any `json:"settings,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// NewTenantResponse maps a domain tenant.
func NewTenantResponse(tenant *domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Subdomain: tenant.Subdomain,
		Status:    string(tenant.Status),
		Settings:  tenant.Settings,
		CreatedAt: tenant.CreatedAt,
		UpdatedAt: tenant.UpdatedAt,
	}
}
