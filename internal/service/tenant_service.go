package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

var subdomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,61}[a-z0-9]$`)

// TenantCreateInput describes tenant creation payload.
type TenantCreateInput struct {
	Name      string
	Subdomain string
	Settings  map[string]any
}

// TenantUpdateInput describes tenant mutation payload.
type TenantUpdateInput struct {
	Name     *string
	Status   *domain.TenantStatus
	Settings map[string]any
}

// TenantService handles superadmin tenant management and tenant-admin
// settings changes.
type TenantService struct {
	tenants repository.TenantRepository
	audit   *AuditService
}

// NewTenantService constructs the service.
func NewTenantService(tenants repository.TenantRepository, audit *AuditService) *TenantService {
	return &TenantService{tenants: tenants, audit: audit}
}

// Create provisions a tenant.
func (s *TenantService) Create(ctx context.Context, actor Actor, input TenantCreateInput, meta RequestMeta) (*domain.Tenant, error) {
	subdomain := strings.ToLower(strings.TrimSpace(input.Subdomain))
	if !subdomainPattern.MatchString(subdomain) {
		return nil, apperrors.NewValidationError("subdomain must be lowercase alphanumeric with hyphens", nil)
	}

	tenant := &domain.Tenant{
		Name:      strings.TrimSpace(input.Name),
		Subdomain: subdomain,
		Status:    domain.TenantStatusActive,
		Settings:  input.Settings,
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("TENANT_EXISTS", "A tenant with this subdomain already exists", nil)
		}
		return nil, err
	}

	s.audit.Record(ctx, tenant.ID, actor, domain.AuditTenantCreated, tenant.ID, map[string]any{
		"subdomain": tenant.Subdomain,
	}, meta)
	return tenant, nil
}

// Get returns a tenant by ID.
func (s *TenantService) Get(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tenant", "TENANT_NOT_FOUND")
		}
		return nil, err
	}
	return tenant, nil
}

// List returns tenants matching the filter.
func (s *TenantService) List(ctx context.Context, filter repository.TenantFilter) ([]domain.Tenant, int, error) {
	return s.tenants.List(ctx, filter)
}

// Update mutates a tenant.
func (s *TenantService) Update(ctx context.Context, actor Actor, tenantID string, input TenantUpdateInput, meta RequestMeta) (*domain.Tenant, error) {
	tenant, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		tenant.Name = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		tenant.Status = *input.Status
	}
	if input.Settings != nil {
		tenant.Settings = input.Settings
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("TENANT_EXISTS", "A tenant with this subdomain already exists", nil)
		}
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("tenant", "TENANT_NOT_FOUND")
		}
		return nil, err
	}

	s.audit.Record(ctx, tenant.ID, actor, domain.AuditTenantUpdated, tenant.ID, nil, meta)
	return tenant, nil
}

// Suspend marks a tenant suspended; its traffic is rejected on the next
// resolver cache refresh.
func (s *TenantService) Suspend(ctx context.Context, actor Actor, tenantID string, meta RequestMeta) (*domain.Tenant, error) {
	status := domain.TenantStatusSuspended
	return s.Update(ctx, actor, tenantID, TenantUpdateInput{Status: &status}, meta)
}

// UpdateSettings merges tenant settings on behalf of a tenant administrator.
func (s *TenantService) UpdateSettings(ctx context.Context, actor Actor, tenantID string, settings map[string]any, meta RequestMeta) (*domain.Tenant, error) {
	tenant, err := s.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if tenant.Settings == nil {
		tenant.Settings = map[string]any{}
	}
	changed := make([]string, 0, len(settings))
	for key, value := range settings {
		tenant.Settings[key] = value
		changed = append(changed, key)
	}

	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenant.ID, actor, domain.AuditSettingChanged, tenant.ID, map[string]any{
		"keys": changed,
	}, meta)
	return tenant, nil
}
