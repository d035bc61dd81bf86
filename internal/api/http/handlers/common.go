package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/auth"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/tenancy"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// respondOK renders a 200 envelope.
func respondOK(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

// respondCreated renders a 201 envelope.
func respondCreated(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

// respondList renders a 200 envelope with pagination metadata.
func respondList(c *fiber.Ctx, data any, meta dto.PageMeta) error {
	return c.JSON(fiber.Map{"success": true, "data": data, "meta": meta})
}

// agentPrincipal resolves the authenticated agent for tenant-scoped routes.
// A token minted for another tenant is rejected the same way a missing one
// would be.
func agentPrincipal(c *fiber.Ctx) (*auth.Principal, *domain.Tenant, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Agent == nil {
		return nil, nil, apperrors.NewUnauthorized("agent required")
	}
	tenant, ok := tenancy.TenantFromContext(c)
	if !ok {
		return nil, nil, apperrors.NewUnauthorized("tenant context missing")
	}
	if principal.TenantID != tenant.ID {
		return nil, nil, apperrors.NewUnauthorized("invalid token")
	}
	return principal, tenant, nil
}

// superadminPrincipal resolves the static-token caller for /api/superadmin
// routes.
func superadminPrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if principal.SubjectType != domain.SubjectTypeSuperadmin {
		return nil, apperrors.NewForbidden("superadmin required")
	}
	return principal, nil
}

func actorOf(principal *auth.Principal) service.Actor {
	return service.Actor{ID: principal.ActorID(), Type: principal.SubjectType}
}

func requestMeta(c *fiber.Ctx) service.RequestMeta {
	return service.RequestMeta{IP: c.IP(), UserAgent: c.Get(fiber.HeaderUserAgent)}
}
