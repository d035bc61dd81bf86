package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreateRoleRequest is the custom role creation payload.
type CreateRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=1,max=120"`
	Description string   `json:"description" validate:"max=500"`
	Permissions []string `json:"permissions" validate:"required,min=1"`
}

// UpdateRoleRequest is the custom role mutation payload. Permissions, when
// present, replace the whole set.
type UpdateRoleRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Permissions []string `json:"permissions" validate:"omitempty,min=1"`
}

// RoleResponse serializes both custom roles and the built-in defaults.
// Default roles have no id and are not editable.
type RoleResponse struct {
	ID          string     `json:"id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Permissions []string   `json:"permissions"`
	Default     bool       `json:"default"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// NewCustomRoleResponse maps an account-scoped custom role.
func NewCustomRoleResponse(role *domain.CustomRole) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: role.Permissions,
		Default:     false,
		CreatedAt:   &role.CreatedAt,
		UpdatedAt:   &role.UpdatedAt,
	}
}

// NewDefaultRoleResponse maps a built-in role constant.
func NewDefaultRoleResponse(name domain.RoleName) RoleResponse {
	return RoleResponse{
		Name:        string(name),
		Permissions: domain.DefaultRolePermissions[name],
		Default:     true,
	}
}
