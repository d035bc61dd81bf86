package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

const (
	principalKey      = "auth_principal"
	sessionCookieName = "session"
	adminTokenHeader  = "X-Admin-Token"
)

// Principal represents the authenticated caller with its resolved tenant
// context.
type Principal struct {
	SubjectType domain.SubjectType
	Agent       *domain.Agent
	AccountID   string
	TenantID    string
	RoleName    domain.RoleName
	CustomRole  *domain.CustomRole
}

// ActorID returns the identifier used for audit records.
func (p *Principal) ActorID() string {
	if p.SubjectType == domain.SubjectTypeSuperadmin {
		return "superadmin"
	}
	if p.Agent != nil {
		return p.Agent.ID
	}
	return ""
}

// HasPermission reports whether the caller holds the given permission.
// Superadmins hold every permission; agents with a custom role use its set,
// otherwise the default set for their role name applies.
func (p *Principal) HasPermission(perm string) bool {
	if p.SubjectType == domain.SubjectTypeSuperadmin {
		return true
	}
	if p.CustomRole != nil {
		return p.CustomRole.HasPermission(perm)
	}
	for _, granted := range domain.DefaultRolePermissions[p.RoleName] {
		if granted == perm {
			return true
		}
	}
	return false
}

// AuthMiddleware resolves caller identity. Credential sources in priority
// order: bearer token, session cookie, static superadmin token.
type AuthMiddleware struct {
	tokens     *TokenManager
	agents     repository.AgentRepository
	roles      repository.RoleRepository
	adminToken string
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, agents repository.AgentRepository, roles repository.RoleRepository, adminToken string) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, agents: agents, roles: roles, adminToken: adminToken}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	tokenStr := bearerToken(c)
	if tokenStr == "" {
		tokenStr = c.Cookies(sessionCookieName)
	}

	if tokenStr != "" {
		principal, err := m.resolveAgent(c, tokenStr)
		if err != nil {
			return err
		}
		c.Locals(principalKey, principal)
		return c.Next()
	}

	if adminToken := c.Get(adminTokenHeader); adminToken != "" {
		if m.adminToken == "" || subtle.ConstantTimeCompare([]byte(adminToken), []byte(m.adminToken)) != 1 {
			return apperrors.NewUnauthorized("invalid admin token")
		}
		c.Locals(principalKey, &Principal{SubjectType: domain.SubjectTypeSuperadmin})
		return c.Next()
	}

	return apperrors.NewUnauthorized("missing credentials")
}

func (m *AuthMiddleware) resolveAgent(c *fiber.Ctx, tokenStr string) (*Principal, error) {
	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	agent, err := m.agents.GetByID(c.UserContext(), claims.AgentID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewUnauthorized("agent not found")
		}
		return nil, apperrors.MapError(err)
	}
	if agent.Status != domain.AgentStatusActive {
		return nil, apperrors.NewUnauthorized("agent not active")
	}

	principal := &Principal{
		SubjectType: domain.SubjectTypeAgent,
		Agent:       agent,
		AccountID:   agent.AccountID,
		TenantID:    claims.TenantID,
		RoleName:    agent.RoleName,
	}

	if agent.CustomRoleID != nil {
		role, err := m.roles.GetByID(c.UserContext(), *agent.CustomRoleID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperrors.NewUnauthorized("role no longer exists")
			}
			return nil, apperrors.MapError(err)
		}
		if role.AccountID != agent.AccountID {
			return nil, apperrors.NewUnauthorized("role no longer exists")
		}
		principal.CustomRole = role
	}

	return principal, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
