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

// RoleCreateInput describes custom role creation payload.
type RoleCreateInput struct {
	Name        string
	Description string
	Permissions []string
}

// RoleUpdateInput describes custom role mutation payload.
type RoleUpdateInput struct {
	Name        *string
	Description *string
	Permissions []string
}

// RoleService manages account-scoped custom roles. Default roles are
// constants exposed read-only.
type RoleService struct {
	roles     repository.RoleRepository
	agents    repository.AgentRepository
	audit     *AuditService
	roleGuard *guard.Guard[*domain.CustomRole]
}

// NewRoleService constructs the service.
func NewRoleService(roles repository.RoleRepository, agents repository.AgentRepository, audit *AuditService) *RoleService {
	return &RoleService{
		roles:  roles,
		agents: agents,
		audit:  audit,
		roleGuard: guard.New("role", "ROLE_NOT_FOUND",
			roles.GetByID,
			func(role *domain.CustomRole) string { return role.AccountID },
		),
	}
}

// Create adds a custom role to the account.
func (s *RoleService) Create(ctx context.Context, tenantID string, actor Actor, accountID string, input RoleCreateInput, meta RequestMeta) (*domain.CustomRole, error) {
	role := &domain.CustomRole{
		AccountID:   accountID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Permissions: input.Permissions,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("ROLE_EXISTS", "A role with this name already exists", nil)
		}
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditRoleCreated, role.ID, map[string]any{"name": role.Name}, meta)
	return role, nil
}

// Get returns a custom role owned by the account.
func (s *RoleService) Get(ctx context.Context, accountID, roleID string) (*domain.CustomRole, error) {
	return s.roleGuard.Require(ctx, roleID, accountID)
}

// List returns the account's custom roles.
func (s *RoleService) List(ctx context.Context, accountID string) ([]domain.CustomRole, error) {
	return s.roles.ListByAccount(ctx, accountID)
}

// Update mutates a custom role after the ownership check.
func (s *RoleService) Update(ctx context.Context, tenantID string, actor Actor, accountID, roleID string, input RoleUpdateInput, meta RequestMeta) (*domain.CustomRole, error) {
	role, err := s.roleGuard.Require(ctx, roleID, accountID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		role.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		role.Description = strings.TrimSpace(*input.Description)
	}
	if input.Permissions != nil {
		role.Permissions = input.Permissions
	}

	if err := s.roles.Update(ctx, role); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("ROLE_EXISTS", "A role with this name already exists", nil)
		}
		if err == pgx.ErrNoRows {
			return nil, s.roleGuard.NotFound()
		}
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditRoleUpdated, role.ID, nil, meta)
	return role, nil
}

// Delete removes a custom role unless agents are still assigned to it.
func (s *RoleService) Delete(ctx context.Context, tenantID string, actor Actor, accountID, roleID string, meta RequestMeta) error {
	role, err := s.roleGuard.Require(ctx, roleID, accountID)
	if err != nil {
		return err
	}

	assigned, err := s.agents.CountByRole(ctx, role.ID)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return apperrors.NewConflict("ROLE_IN_USE", "role is assigned to agents", map[string]any{
			"assigned_agents": assigned,
		})
	}

	if err := s.roles.Delete(ctx, role.ID); err != nil {
		if err == pgx.ErrNoRows {
			return s.roleGuard.NotFound()
		}
		return err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditRoleDeleted, role.ID, map[string]any{"name": role.Name}, meta)
	return nil
}
