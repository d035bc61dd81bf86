// Package tenancy resolves the caller's tenant from the request subdomain.
package tenancy

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/viccon/sturdyc"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

const tenantKey = "tenancy_tenant"

// Resolver maps subdomains to tenants through a read-through cache. Tenant
// rows change rarely; a short TTL keeps suspensions visible within a minute.
type Resolver struct {
	tenants    repository.TenantRepository
	cache      *sturdyc.Client[*domain.Tenant]
	baseDomain string
}

// NewResolver constructs a resolver.
func NewResolver(tenants repository.TenantRepository, baseDomain string) *Resolver {
	const (
		capacity           = 10_000
		numShards          = 16
		ttl                = time.Minute
		evictionPercentage = 10
	)
	return &Resolver{
		tenants:    tenants,
		cache:      sturdyc.New[*domain.Tenant](capacity, numShards, ttl, evictionPercentage),
		baseDomain: baseDomain,
	}
}

// Resolve returns the tenant for a subdomain.
func (r *Resolver) Resolve(ctx context.Context, subdomain string) (*domain.Tenant, error) {
	return r.cache.GetOrFetch(ctx, subdomain, func(ctx context.Context) (*domain.Tenant, error) {
		return r.tenants.GetBySubdomain(ctx, subdomain)
	})
}

// Middleware extracts the subdomain from the Host header, resolves the
// tenant and stores it on the request. Unknown subdomains are 404s; resolved
// but non-active tenants are rejected outright.
func (r *Resolver) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		subdomain := SubdomainFromHost(c.Hostname(), r.baseDomain)
		if subdomain == "" {
			return apperrors.NewNotFound("tenant", "TENANT_NOT_FOUND")
		}

		tenant, err := r.Resolve(c.UserContext(), subdomain)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewNotFound("tenant", "TENANT_NOT_FOUND")
			}
			return apperrors.MapError(err)
		}
		if tenant.Status != domain.TenantStatusActive {
			return apperrors.NewDomainError("TENANT_SUSPENDED", "tenant is not active", fiber.StatusForbidden, nil)
		}

		c.Locals(tenantKey, tenant)
		return c.Next()
	}
}

// TenantFromContext retrieves the resolved tenant.
func TenantFromContext(c *fiber.Ctx) (*domain.Tenant, bool) {
	val := c.Locals(tenantKey)
	if val == nil {
		return nil, false
	}
	tenant, ok := val.(*domain.Tenant)
	return tenant, ok
}

// SubdomainFromHost strips the base domain and any port from a Host header
// value. "acme.example.com" with base "example.com" yields "acme";
// a bare base domain yields "".
func SubdomainFromHost(host, baseDomain string) string {
	if idx := strings.IndexByte(host, ':'); idx >= 0 {
		host = host[:idx]
	}
	host = strings.ToLower(host)
	baseDomain = strings.ToLower(baseDomain)

	if host == baseDomain {
		return ""
	}
	suffix := "." + baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(host, suffix)
	if strings.Contains(sub, ".") {
		// nested subdomains are not tenant identifiers
		return ""
	}
	return sub
}
