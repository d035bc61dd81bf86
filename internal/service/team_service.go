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

// TeamCreateInput describes team creation payload.
type TeamCreateInput struct {
	Name        string
	Description string
}

// TeamUpdateInput describes team mutation payload.
type TeamUpdateInput struct {
	Name        *string
	Description *string
}

// TeamService coordinates team workflows.
type TeamService struct {
	teams      repository.TeamRepository
	agents     repository.AgentRepository
	teamGuard  *guard.Guard[*domain.Team]
	agentGuard *guard.Guard[*domain.Agent]
}

// NewTeamService constructs the service.
func NewTeamService(teams repository.TeamRepository, agents repository.AgentRepository) *TeamService {
	return &TeamService{
		teams:  teams,
		agents: agents,
		teamGuard: guard.New("team", "TEAM_NOT_FOUND",
			teams.GetByID,
			func(team *domain.Team) string { return team.AccountID },
		),
		agentGuard: guard.New("agent", "AGENT_NOT_FOUND",
			agents.GetByID,
			func(agent *domain.Agent) string { return agent.AccountID },
		),
	}
}

// Create adds a team to the account.
func (s *TeamService) Create(ctx context.Context, accountID string, input TeamCreateInput) (*domain.Team, error) {
	team := &domain.Team{
		AccountID:   accountID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}
	if err := s.teams.Create(ctx, team); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("TEAM_EXISTS", "A team with this name already exists", nil)
		}
		return nil, err
	}
	return team, nil
}

// Get returns a team owned by the account.
func (s *TeamService) Get(ctx context.Context, accountID, teamID string) (*domain.Team, error) {
	return s.teamGuard.Require(ctx, teamID, accountID)
}

// List returns the account's teams.
func (s *TeamService) List(ctx context.Context, accountID string, limit, offset int) ([]domain.Team, int, error) {
	return s.teams.ListByAccount(ctx, accountID, limit, offset)
}

// Update mutates a team after the ownership check.
func (s *TeamService) Update(ctx context.Context, accountID, teamID string, input TeamUpdateInput) (*domain.Team, error) {
	team, err := s.teamGuard.Require(ctx, teamID, accountID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		team.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		team.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.teams.Update(ctx, team); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("TEAM_EXISTS", "A team with this name already exists", nil)
		}
		if err == pgx.ErrNoRows {
			return nil, s.teamGuard.NotFound()
		}
		return nil, err
	}
	return team, nil
}

// Delete removes a team after the ownership check.
func (s *TeamService) Delete(ctx context.Context, accountID, teamID string) error {
	team, err := s.teamGuard.Require(ctx, teamID, accountID)
	if err != nil {
		return err
	}
	if err := s.teams.Delete(ctx, team.ID); err != nil {
		if err == pgx.ErrNoRows {
			return s.teamGuard.NotFound()
		}
		return err
	}
	return nil
}

// AddMember attaches an agent to a team. Both rows must belong to the
// caller's account.
func (s *TeamService) AddMember(ctx context.Context, accountID, teamID, agentID string) error {
	team, err := s.teamGuard.Require(ctx, teamID, accountID)
	if err != nil {
		return err
	}
	agent, err := s.agentGuard.Require(ctx, agentID, accountID)
	if err != nil {
		return err
	}

	if err := s.teams.AddMember(ctx, team.ID, agent.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewConflict("ALREADY_MEMBER", "agent is already a member of this team", nil)
		}
		return err
	}
	return nil
}

// RemoveMember detaches an agent from a team.
func (s *TeamService) RemoveMember(ctx context.Context, accountID, teamID, agentID string) error {
	team, err := s.teamGuard.Require(ctx, teamID, accountID)
	if err != nil {
		return err
	}
	if err := s.teams.RemoveMember(ctx, team.ID, agentID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("team member", "TEAM_MEMBER_NOT_FOUND")
		}
		return err
	}
	return nil
}
