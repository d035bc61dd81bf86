package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/whatsapp-crm/internal/api/http"
	"github.com/spec-kit/whatsapp-crm/internal/api/http/handlers"
	"github.com/spec-kit/whatsapp-crm/internal/auth"
	"github.com/spec-kit/whatsapp-crm/internal/billing"
	"github.com/spec-kit/whatsapp-crm/internal/config"
	"github.com/spec-kit/whatsapp-crm/internal/events"
	"github.com/spec-kit/whatsapp-crm/internal/gateway"
	"github.com/spec-kit/whatsapp-crm/internal/observability"
	"github.com/spec-kit/whatsapp-crm/internal/persistence"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	"github.com/spec-kit/whatsapp-crm/internal/service"
	"github.com/spec-kit/whatsapp-crm/internal/tenancy"
	"github.com/spec-kit/whatsapp-crm/internal/worker"
	"github.com/spec-kit/whatsapp-crm/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(cfg.App.Name, registry)

	pool := pg.PoolHandle()
	tenantRepo := repository.NewTenantRepository(pool)
	accountRepo := repository.NewAccountRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	inboxRepo := repository.NewInboxRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	planRepo := repository.NewPlanRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	apiKeyRepo := repository.NewAPIKeyRepository(pool)
	customFieldRepo := repository.NewCustomFieldRepository(pool)
	jobRepo := repository.NewJobRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditRecorder(dispatcher, auditRepo, logger, metrics)

	gatewayClient := gateway.NewClient(cfg.Gateway, redis.Client, logger)
	stripeGateway := billing.NewStripeGateway(cfg.Stripe)

	auditService := service.NewAuditService(auditRepo, dispatcher)
	authService := service.NewAuthService(*cfg, agentRepo)
	inboxService := service.NewInboxService(inboxRepo, subscriptionRepo, planRepo, gatewayClient, auditService)
	teamService := service.NewTeamService(teamRepo, agentRepo)
	agentService := service.NewAgentService(agentRepo, roleRepo, auditService, cfg.Auth.BcryptCost)
	roleService := service.NewRoleService(roleRepo, agentRepo, auditService)
	planService := service.NewPlanService(planRepo, subscriptionRepo, auditService)
	billingService := service.NewBillingService(subscriptionRepo, accountRepo, planRepo, stripeGateway, auditService, logger)
	tenantService := service.NewTenantService(tenantRepo, auditService)
	accountService := service.NewAccountService(accountRepo, auditService)
	apiKeyService := service.NewAPIKeyService(apiKeyRepo, auditService)
	customFieldService := service.NewCustomFieldService(customFieldRepo)
	jobService := service.NewJobService(jobRepo)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), agentRepo, roleRepo, cfg.Superadmin.AdminToken)
	tenantResolver := tenancy.NewResolver(tenantRepo, cfg.App.BaseDomain)
	rateLimiter := httptransport.NewRateLimiter(redis.Client, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:             handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:               handlers.NewAuthHandler(authService),
		Inboxes:            handlers.NewInboxesHandler(inboxService),
		Teams:              handlers.NewTeamsHandler(teamService),
		Agents:             handlers.NewAgentsHandler(agentService),
		Roles:              handlers.NewRolesHandler(roleService),
		APIKeys:            handlers.NewAPIKeysHandler(apiKeyService),
		CustomFields:       handlers.NewCustomFieldsHandler(customFieldService),
		Jobs:               handlers.NewJobsHandler(jobService),
		Billing:            handlers.NewBillingHandler(billingService),
		AdminPlans:         handlers.NewAdminPlansHandler(planService),
		AdminAudit:         handlers.NewAdminAuditHandler(auditService),
		AdminSettings:      handlers.NewAdminSettingsHandler(tenantService),
		SuperadminTenants:  handlers.NewSuperadminTenantsHandler(tenantService),
		SuperadminAccounts: handlers.NewSuperadminAccountsHandler(accountService, tenantService),
		AuthMiddleware:     authMiddleware,
		TenantResolver:     tenantResolver,
		RateLimiter:        rateLimiter,
		PromRegistry:       registry,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
