package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/auth"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// AgentCreateInput describes agent creation payload.
type AgentCreateInput struct {
	Name         string
	Email        string
	Password     string
	RoleName     domain.RoleName
	CustomRoleID *string
}

// AgentUpdateInput describes agent mutation payload.
type AgentUpdateInput struct {
	Name         *string
	RoleName     *domain.RoleName
	CustomRoleID *string
	Status       *domain.AgentStatus
}

// AgentService coordinates agent management within an account.
type AgentService struct {
	agents     repository.AgentRepository
	roles      repository.RoleRepository
	audit      *AuditService
	bcryptCost int
	agentGuard *guard.Guard[*domain.Agent]
	roleGuard  *guard.Guard[*domain.CustomRole]
}

// NewAgentService constructs the service.
func NewAgentService(agents repository.AgentRepository, roles repository.RoleRepository, audit *AuditService, bcryptCost int) *AgentService {
	return &AgentService{
		agents:     agents,
		roles:      roles,
		audit:      audit,
		bcryptCost: bcryptCost,
		agentGuard: guard.New("agent", "AGENT_NOT_FOUND",
			agents.GetByID,
			func(agent *domain.Agent) string { return agent.AccountID },
		),
		roleGuard: guard.New("role", "ROLE_NOT_FOUND",
			roles.GetByID,
			func(role *domain.CustomRole) string { return role.AccountID },
		),
	}
}

// Create adds an agent to the account.
func (s *AgentService) Create(ctx context.Context, accountID string, input AgentCreateInput) (*domain.Agent, error) {
	if input.CustomRoleID != nil {
		if _, err := s.roleGuard.Require(ctx, *input.CustomRoleID, accountID); err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	roleName := input.RoleName
	if roleName == "" {
		roleName = domain.RoleAgent
	}

	agent := &domain.Agent{
		AccountID:    accountID,
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		RoleName:     roleName,
		CustomRoleID: input.CustomRoleID,
		Status:       domain.AgentStatusActive,
	}
	if err := s.agents.Create(ctx, agent); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("AGENT_EXISTS", "An agent with this email already exists", nil)
		}
		return nil, err
	}
	return agent, nil
}

// Get returns an agent owned by the account.
func (s *AgentService) Get(ctx context.Context, accountID, agentID string) (*domain.Agent, error) {
	return s.agentGuard.Require(ctx, agentID, accountID)
}

// List returns the account's agents.
func (s *AgentService) List(ctx context.Context, accountID string, limit, offset int) ([]domain.Agent, int, error) {
	return s.agents.ListByAccount(ctx, accountID, limit, offset)
}

// Update mutates an agent after the ownership check.
func (s *AgentService) Update(ctx context.Context, accountID, agentID string, input AgentUpdateInput) (*domain.Agent, error) {
	agent, err := s.agentGuard.Require(ctx, agentID, accountID)
	if err != nil {
		return nil, err
	}

	if input.CustomRoleID != nil {
		if _, err := s.roleGuard.Require(ctx, *input.CustomRoleID, accountID); err != nil {
			return nil, err
		}
		agent.CustomRoleID = input.CustomRoleID
	}
	if input.Name != nil {
		agent.Name = strings.TrimSpace(*input.Name)
	}
	if input.RoleName != nil {
		agent.RoleName = *input.RoleName
	}
	if input.Status != nil {
		agent.Status = *input.Status
	}

	if err := s.agents.Update(ctx, agent); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("AGENT_EXISTS", "An agent with this email already exists", nil)
		}
		if err == pgx.ErrNoRows {
			return nil, s.agentGuard.NotFound()
		}
		return nil, err
	}
	return agent, nil
}

// Suspend marks an agent suspended and records the action.
func (s *AgentService) Suspend(ctx context.Context, tenantID string, actor Actor, accountID, agentID string, meta RequestMeta) (*domain.Agent, error) {
	agent, err := s.agentGuard.Require(ctx, agentID, accountID)
	if err != nil {
		return nil, err
	}
	if agent.Status == domain.AgentStatusSuspended {
		return nil, apperrors.NewConflict("AGENT_ALREADY_SUSPENDED", "agent is already suspended", nil)
	}

	agent.Status = domain.AgentStatusSuspended
	if err := s.agents.Update(ctx, agent); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditAgentSuspended, agent.ID, map[string]any{"email": agent.Email}, meta)
	return agent, nil
}

// Delete removes an agent after the ownership check.
func (s *AgentService) Delete(ctx context.Context, accountID, agentID string) error {
	agent, err := s.agentGuard.Require(ctx, agentID, accountID)
	if err != nil {
		return err
	}
	if err := s.agents.Delete(ctx, agent.ID); err != nil {
		if err == pgx.ErrNoRows {
			return s.agentGuard.NotFound()
		}
		return err
	}
	return nil
}
