package dto

import (
	"time"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
)

// CreateAgentRequest is the agent creation payload. Either a default role
// name or a custom role id is supplied, not both.
type CreateAgentRequest struct {
	Name         string  `json:"name" validate:"required,min=1,max=120"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8"`
	Role         string  `json:"role" validate:"omitempty,oneof=administrator agent"`
	CustomRoleID *string `json:"custom_role_id"`
}

// UpdateAgentRequest is the agent mutation payload.
type UpdateAgentRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=120"`
	Role         *string `json:"role" validate:"omitempty,oneof=administrator agent"`
	CustomRoleID *string `json:"custom_role_id"`
	Status       *string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// AgentResponse is the serialized agent. The password hash never leaves the
// service.
type AgentResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CustomRoleID *string   `json:"custom_role_id,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewAgentResponse maps a domain agent.
func NewAgentResponse(agent *domain.Agent) AgentResponse {
	return AgentResponse{
		ID:           agent.ID,
		Name:         agent.Name,
		Email:        agent.Email,
		Role:         string(agent.RoleName),
		CustomRoleID: agent.CustomRoleID,
		Status:       string(agent.Status),
		CreatedAt:    agent.CreatedAt,
		UpdatedAt:    agent.UpdatedAt,
	}
}
