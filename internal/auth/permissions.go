package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// RequirePermission gates a route on a permission string. Permission failures
// are 403s: the endpoint itself is not a secret, only tenant data is.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasPermission(perm) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}

// RequireAdministrator gates tenant-admin routes.
func RequireAdministrator() fiber.Handler {
	return RequirePermission(domain.PermAdminister)
}

// RequireSuperadmin ensures the caller authenticated with the static admin
// token.
func RequireSuperadmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeSuperadmin {
			return apperrors.NewForbidden("superadmin required")
		}
		return c.Next()
	}
}
