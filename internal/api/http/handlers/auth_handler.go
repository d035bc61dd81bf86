package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/auth"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/tenancy"
	"github.com/spec-kit/whatsapp-crm/internal/validation"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// AuthHandler manages agent login and password changes.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login. The tenant comes from the request subdomain; the
// issued token is also set as a session cookie for browser clients.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	tenant, ok := tenancy.TenantFromContext(c)
	if !ok {
		return apperrors.NewNotFound("tenant", "TENANT_NOT_FOUND")
	}
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	agent, token, expiresAt, err := h.service.Login(c.UserContext(), tenant, req.Email, req.Password)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "session",
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return respondOK(c, dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Agent:     dto.NewAgentResponse(agent),
	})
}

// ChangePassword POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Agent == nil {
		return apperrors.NewUnauthorized("agent required")
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validation.Check(req); err != nil {
		return err
	}

	if err := h.service.ChangePassword(c.UserContext(), principal.Agent.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return respondOK(c, fiber.Map{"changed": true})
}
