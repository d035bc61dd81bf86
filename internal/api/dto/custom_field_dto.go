package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreateCustomFieldRequest is the custom field creation payload.
type CreateCustomFieldRequest struct {
	Key       string `json:"key" validate:"required,min=1,max=64"`
	Label     string `json:"label" validate:"required,min=1,max=120"`
	FieldType string `json:"field_type" validate:"required,oneof=TEXT NUMBER DATE LIST"`
}

// UpdateCustomFieldRequest is the custom field mutation payload. Key is
// immutable once created.
type UpdateCustomFieldRequest struct {
	Label     *string `json:"label" validate:"omitempty,min=1,max=120"`
	FieldType *string `json:"field_type" validate:"omitempty,oneof=TEXT NUMBER DATE LIST"`
}

// CustomFieldResponse is the serialized custom field definition.
type CustomFieldResponse struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Label     string    `json:"label"`
	FieldType string    `json:"field_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCustomFieldResponse maps a domain custom field.
func NewCustomFieldResponse(field *domain.CustomField) CustomFieldResponse {
	return CustomFieldResponse{
		ID:        field.ID,
		Key:       field.Key,
		Label:     field.Label,
		FieldType: string(field.FieldType),
		CreatedAt: field.CreatedAt,
		UpdatedAt: field.UpdatedAt,
	}
}
