package http

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/whatsapp-crm/internal/api/http/handlers"
	"github.com/spec-kit/whatsapp-crm/internal/auth"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/tenancy"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health             *handlers.HealthHandler
	Auth               *handlers.AuthHandler
	Inboxes            *handlers.InboxesHandler
	Teams              *handlers.TeamsHandler
	Agents             *handlers.AgentsHandler
	Roles              *handlers.RolesHandler
	APIKeys            *handlers.APIKeysHandler
	CustomFields       *handlers.CustomFieldsHandler
	Jobs               *handlers.JobsHandler
	Billing            *handlers.BillingHandler
	AdminPlans         *handlers.AdminPlansHandler
	AdminAudit         *handlers.AdminAuditHandler
	AdminSettings      *handlers.AdminSettingsHandler
	SuperadminTenants  *handlers.SuperadminTenantsHandler
	SuperadminAccounts *handlers.SuperadminAccountsHandler

	AuthMiddleware *auth.AuthMiddleware
	TenantResolver *tenancy.Resolver
	RateLimiter    *RateLimiter
	PromRegistry   *prometheus.Registry
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.PromRegistry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.PromRegistry, promhttp.HandlerOpts{})))
	}

	// Stripe authenticates by signature, never by session.
	app.Post("/webhooks/stripe", cfg.Billing.StripeWebhook)

	authGroup := app.Group("/auth", cfg.TenantResolver.Middleware())
	login := authGroup.Group("")
	if cfg.RateLimiter != nil {
		login.Use(cfg.RateLimiter.Limit("login", 10, time.Minute))
	}
	login.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	account := app.Group("/api/account", cfg.TenantResolver.Middleware(), cfg.AuthMiddleware.Handle)

	inboxes := account.Group("/inboxes")
	inboxes.Get("", auth.RequirePermission(domain.PermInboxView), cfg.Inboxes.List)
	inboxes.Post("", auth.RequirePermission(domain.PermInboxManage), cfg.Inboxes.Create)
	inboxes.Get("/:id", auth.RequirePermission(domain.PermInboxView), cfg.Inboxes.Get)
	inboxes.Put("/:id", auth.RequirePermission(domain.PermInboxManage), cfg.Inboxes.Update)
	inboxes.Delete("/:id", auth.RequirePermission(domain.PermInboxManage), cfg.Inboxes.Delete)
	inboxes.Get("/:id/status", auth.RequirePermission(domain.PermInboxView), cfg.Inboxes.Status)
	inboxes.Get("/:id/qr", auth.RequirePermission(domain.PermInboxManage), cfg.Inboxes.PairingQR)

	teams := account.Group("/teams")
	teams.Get("", auth.RequirePermission(domain.PermTeamView), cfg.Teams.List)
	teams.Post("", auth.RequirePermission(domain.PermTeamManage), cfg.Teams.Create)
	teams.Get("/:id", auth.RequirePermission(domain.PermTeamView), cfg.Teams.Get)
	teams.Put("/:id", auth.RequirePermission(domain.PermTeamManage), cfg.Teams.Update)
	teams.Delete("/:id", auth.RequirePermission(domain.PermTeamManage), cfg.Teams.Delete)
	teams.Post("/:id/members/:agentId", auth.RequirePermission(domain.PermTeamManage), cfg.Teams.AddMember)
	teams.Delete("/:id/members/:agentId", auth.RequirePermission(domain.PermTeamManage), cfg.Teams.RemoveMember)

	agents := account.Group("/agents", auth.RequirePermission(domain.PermAgentManage))
	agents.Get("", cfg.Agents.List)
	agents.Post("", cfg.Agents.Create)
	agents.Get("/:id", cfg.Agents.Get)
	agents.Put("/:id", cfg.Agents.Update)
	agents.Delete("/:id", cfg.Agents.Delete)
	agents.Post("/:id/suspend", cfg.Agents.Suspend)

	roles := account.Group("/roles", auth.RequirePermission(domain.PermRoleManage))
	roles.Get("", cfg.Roles.List)
	roles.Post("", cfg.Roles.Create)
	roles.Get("/:id", cfg.Roles.Get)
	roles.Put("/:id", cfg.Roles.Update)
	roles.Delete("/:id", cfg.Roles.Delete)

	apiKeys := account.Group("/api-keys", auth.RequirePermission(domain.PermAPIKeyManage))
	apiKeys.Get("", cfg.APIKeys.List)
	apiKeys.Post("", cfg.APIKeys.Create)
	apiKeys.Delete("/:id", cfg.APIKeys.Revoke)

	customFields := account.Group("/custom-fields", auth.RequirePermission(domain.PermCustomFieldManage))
	customFields.Get("", cfg.CustomFields.List)
	customFields.Post("", cfg.CustomFields.Create)
	customFields.Put("/:id", cfg.CustomFields.Update)
	customFields.Delete("/:id", cfg.CustomFields.Delete)

	account.Get("/jobs", auth.RequirePermission(domain.PermJobView), cfg.Jobs.List)
	account.Get("/jobs/:id", auth.RequirePermission(domain.PermJobView), cfg.Jobs.Get)
	account.Get("/subscription", auth.RequirePermission(domain.PermBillingView), cfg.Billing.Subscription)

	admin := app.Group("/api/admin", cfg.TenantResolver.Middleware(), cfg.AuthMiddleware.Handle, auth.RequireAdministrator())
	admin.Get("/plans", cfg.AdminPlans.List)
	admin.Post("/plans", cfg.AdminPlans.Create)
	admin.Get("/plans/:id", cfg.AdminPlans.Get)
	admin.Put("/plans/:id", cfg.AdminPlans.Update)
	admin.Delete("/plans/:id", cfg.AdminPlans.Delete)
	admin.Post("/accounts/:id/plan", cfg.Billing.AssignPlan)
	admin.Get("/audit", cfg.AdminAudit.List)
	admin.Get("/audit/export", cfg.AdminAudit.Export)
	admin.Put("/settings", cfg.AdminSettings.Update)

	superadmin := app.Group("/api/superadmin", cfg.AuthMiddleware.Handle, auth.RequireSuperadmin())
	superadmin.Get("/tenants", cfg.SuperadminTenants.List)
	superadmin.Post("/tenants", cfg.SuperadminTenants.Create)
	superadmin.Get("/tenants/:id", cfg.SuperadminTenants.Get)
	superadmin.Put("/tenants/:id", cfg.SuperadminTenants.Update)
	superadmin.Post("/tenants/:id/suspend", cfg.SuperadminTenants.Suspend)
	superadmin.Get("/tenants/:tenantId/accounts", cfg.SuperadminAccounts.List)
	superadmin.Post("/tenants/:tenantId/accounts", cfg.SuperadminAccounts.Create)
	superadmin.Get("/tenants/:tenantId/accounts/:id", cfg.SuperadminAccounts.Get)
	superadmin.Put("/tenants/:tenantId/accounts/:id", cfg.SuperadminAccounts.Update)
	superadmin.Delete("/tenants/:tenantId/accounts/:id", cfg.SuperadminAccounts.Delete)
}
