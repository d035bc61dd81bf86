package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// CustomFieldCreateInput describes custom field creation payload.
type CustomFieldCreateInput struct {
	Key       string
	Label     string
	FieldType domain.CustomFieldType
}

// CustomFieldUpdateInput describes custom field mutation payload.
type CustomFieldUpdateInput struct {
	Label     *string
	FieldType *domain.CustomFieldType
}

// CustomFieldService manages account-scoped contact attribute definitions.
type CustomFieldService struct {
	fields     repository.CustomFieldRepository
	fieldGuard *guard.Guard[*domain.CustomField]
}

// NewCustomFieldService constructs the service.
func NewCustomFieldService(fields repository.CustomFieldRepository) *CustomFieldService {
	return &CustomFieldService{
		fields: fields,
		fieldGuard: guard.New("custom field", "CUSTOM_FIELD_NOT_FOUND",
			fields.GetByID,
			func(field *domain.CustomField) string { return field.AccountID },
		),
	}
}

// Create adds a field definition to the account.
func (s *CustomFieldService) Create(ctx context.Context, accountID string, input CustomFieldCreateInput) (*domain.CustomField, error) {
	field := &domain.CustomField{
		AccountID: accountID,
		Key:       strings.ToLower(strings.TrimSpace(input.Key)),
		Label:     strings.TrimSpace(input.Label),
		FieldType: input.FieldType,
	}
	if err := s.fields.Create(ctx, field); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("CUSTOM_FIELD_EXISTS", "A custom field with this key already exists", nil)
		}
		return nil, err
	}
	return field, nil
}

// List returns the account's field definitions.
func (s *CustomFieldService) List(ctx context.Context, accountID string) ([]domain.CustomField, error) {
	return s.fields.ListByAccount(ctx, accountID)
}

// Update mutates a field definition after the ownership check.
func (s *CustomFieldService) Update(ctx context.Context, accountID, fieldID string, input CustomFieldUpdateInput) (*domain.CustomField, error) {
	field, err := s.fieldGuard.Require(ctx, fieldID, accountID)
	if err != nil {
		return nil, err
	}

	if input.Label != nil {
		field.Label = strings.TrimSpace(*input.Label)
	}
	if input.FieldType != nil {
		field.FieldType = *input.FieldType
	}

	if err := s.fields.Update(ctx, field); err != nil {
		if err == pgx.ErrNoRows {
			return nil, s.fieldGuard.NotFound()
		}
		return nil, err
	}
	return field, nil
}

// Delete removes a field definition after the ownership check.
func (s *CustomFieldService) Delete(ctx context.Context, accountID, fieldID string) error {
	field, err := s.fieldGuard.Require(ctx, fieldID, accountID)
	if err != nil {
		return err
	}
	if err := s.fields.Delete(ctx, field.ID); err != nil {
		if err == pgx.ErrNoRows {
			return s.fieldGuard.NotFound()
		}
		return err
	}
	return nil
}
