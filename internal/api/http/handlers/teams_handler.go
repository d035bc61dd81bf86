package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// TeamsHandler manages account-scoped team endpoints.
type TeamsHandler struct {
	service *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService) *TeamsHandler {
	return &TeamsHandler{service: teamService}
}

// Create POST /api/account/teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	team, err := h.service.Create(c.UserContext(), principal.AccountID, service.TeamCreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respondCreated(c, dto.NewTeamResponse(team))
}

// List GET /api/account/teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	teams, total, err := h.service.List(c.UserContext(), principal.AccountID, page.Size, page.Offset())
	if err != nil {
		return err
	}
	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, dto.NewTeamResponse(&teams[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Get GET /api/account/teams/:id.
func (h *TeamsHandler) Get(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	team, err := h.service.Get(c.UserContext(), principal.AccountID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewTeamResponse(team))
}

// Update PUT /api/account/teams/:id.
func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	team, err := h.service.Update(c.UserContext(), principal.AccountID, c.Params("id"), service.TeamUpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewTeamResponse(team))
}

// Delete DELETE /api/account/teams/:id.
func (h *TeamsHandler) Delete(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal.AccountID, c.Params("id")); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"deleted": true})
}

// AddMember POST /api/account/teams/:id/members/:agentId.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.AddMember(c.UserContext(), principal.AccountID, c.Params("id"), c.Params("agentId")); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"added": true})
}

// RemoveMember DELETE /api/account/teams/:id/members/:agentId.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveMember(c.UserContext(), principal.AccountID, c.Params("id"), c.Params("agentId")); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"removed": true})
}
