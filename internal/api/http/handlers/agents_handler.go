package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// AgentsHandler manages account-scoped agent endpoints.
type AgentsHandler struct {
	service *service.AgentService
}

// NewAgentsHandler constructs handler.
func NewAgentsHandler(agentService *service.AgentService) *AgentsHandler {
	return &AgentsHandler{service: agentService}
}

// Create POST /api/account/agents.
func (h *AgentsHandler) Create(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	role := domain.RoleAgent
	if req.Role != "" {
		role = domain.RoleName(req.Role)
	}
	agent, err := h.service.Create(c.UserContext(), principal.AccountID, service.AgentCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		RoleName:     role,
		CustomRoleID: req.CustomRoleID,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewAgentResponse(agent))
}

// List GET /api/account/agents.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	agents, total, err := h.service.List(c.UserContext(), principal.AccountID, page.Size, page.Offset())
	if err != nil {
		return err
	}
	items := make([]dto.AgentResponse, 0, len(agents))
	for i := range agents {
		items = append(items, dto.NewAgentResponse(&agents[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Get GET /api/account/agents/:id.
func (h *AgentsHandler) Get(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	agent, err := h.service.Get(c.UserContext(), principal.AccountID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewAgentResponse(agent))
}

// Update PUT /api/account/agents/:id.
func (h *AgentsHandler) Update(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	input := service.AgentUpdateInput{
		Name:         req.Name,
		CustomRoleID: req.CustomRoleID,
	}
	if req.Role != nil {
		role := domain.RoleName(*req.Role)
		input.RoleName = &role
	}
	if req.Status != nil {
		status := domain.AgentStatus(*req.Status)
		input.Status = &status
	}
	agent, err := h.service.Update(c.UserContext(), principal.AccountID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewAgentResponse(agent))
}

// Suspend POST /api/account/agents/:id/suspend.
func (h *AgentsHandler) Suspend(c *fiber.Ctx) error {
	principal, tenant, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	agent, err := h.service.Suspend(c.UserContext(), tenant.ID, actorOf(principal), principal.AccountID, c.Params("id"), requestMeta(c))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewAgentResponse(agent))
}

// Delete DELETE /api/account/agents/:id.
func (h *AgentsHandler) Delete(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.AccountID, c.Params("id")); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"deleted": true})
}
