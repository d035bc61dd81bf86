package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/whatsapp-crm/internal/api/http"
	"github.com/spec-kit/whatsapp-crm/internal/api/http/handlers"
	"github.com/spec-kit/whatsapp-crm/internal/auth"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/events"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	"github.com/spec-kit/whatsapp-crm/internal/service"
)

const adminToken = "test-admin-token"

type memAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int
}

func (r *memAccountRepo) Create(_ context.Context, account *domain.Account) error {
	r.nextID++
	account.ID = fmt.Sprintf("acc-%d", r.nextID)
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if _, ok := r.accounts[account.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *account
	r.accounts[account.ID] = &clone
	return nil
}

func (r *memAccountRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.accounts, id)
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id string) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *account
	return &clone, nil
}

func (r *memAccountRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]domain.Account, int, error) {
	var out []domain.Account
	for _, account := range r.accounts {
		if account.TenantID == tenantID {
			out = append(out, *account)
		}
	}
	return out, len(out), nil
}

type memTenantRepo struct {
	tenants map[string]*domain.Tenant
}

func (r *memTenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	clone := *tenant
	r.tenants[tenant.ID] = &clone
	return nil
}

func (r *memTenantRepo) Update(_ context.Context, tenant *domain.Tenant) error {
	if _, ok := r.tenants[tenant.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *tenant
	r.tenants[tenant.ID] = &clone
	return nil
}

func (r *memTenantRepo) GetByID(_ context.Context, id string) (*domain.Tenant, error) {
	tenant, ok := r.tenants[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *tenant
	return &clone, nil
}

func (r *memTenantRepo) GetBySubdomain(_ context.Context, subdomain string) (*domain.Tenant, error) {
	for _, tenant := range r.tenants {
		if tenant.Subdomain == subdomain {
			clone := *tenant
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memTenantRepo) List(context.Context, repository.TenantFilter) ([]domain.Tenant, int, error) {
	var out []domain.Tenant
	for _, tenant := range r.tenants {
		out = append(out, *tenant)
	}
	return out, len(out), nil
}

type stubAgentRepo struct{}

func (stubAgentRepo) Create(context.Context, *domain.Agent) error { return nil }
func (stubAgentRepo) Update(context.Context, *domain.Agent) error { return nil }
func (stubAgentRepo) Delete(context.Context, string) error        { return nil }
func (stubAgentRepo) GetByID(context.Context, string) (*domain.Agent, error) {
	return nil, pgx.ErrNoRows
}
func (stubAgentRepo) GetByEmailInTenant(context.Context, string, string) (*domain.Agent, error) {
	return nil, pgx.ErrNoRows
}
func (stubAgentRepo) ListByAccount(context.Context, string, int, int) ([]domain.Agent, int, error) {
	return nil, 0, nil
}
func (stubAgentRepo) CountByRole(context.Context, string) (int, error) { return 0, nil }

type stubRoleRepo struct{}

func (stubRoleRepo) Create(context.Context, *domain.CustomRole) error { return nil }
func (stubRoleRepo) Update(context.Context, *domain.CustomRole) error { return nil }
func (stubRoleRepo) Delete(context.Context, string) error             { return nil }
func (stubRoleRepo) GetByID(context.Context, string) (*domain.CustomRole, error) {
	return nil, pgx.ErrNoRows
}
func (stubRoleRepo) ListByAccount(context.Context, string) ([]domain.CustomRole, error) {
	return nil, nil
}

type nopAuditRepo struct{}

func (nopAuditRepo) Insert(context.Context, *domain.AuditLogEntry) error { return nil }
func (nopAuditRepo) ListByTenant(context.Context, string, repository.AuditFilter) ([]domain.AuditLogEntry, int, error) {
	return nil, 0, nil
}

func newTestApp(t *testing.T) (*fiber.App, *memAccountRepo) {
	t.Helper()

	tenants := &memTenantRepo{tenants: map[string]*domain.Tenant{
		"tenant-1": {ID: "tenant-1", Name: "Acme", Subdomain: "acme", Status: domain.TenantStatusActive},
		"tenant-2": {ID: "tenant-2", Name: "Globex", Subdomain: "globex", Status: domain.TenantStatusActive},
	}}
	accounts := &memAccountRepo{accounts: map[string]*domain.Account{}}

	audit := service.NewAuditService(nopAuditRepo{}, events.NewInMemoryDispatcher())
	accountService := service.NewAccountService(accounts, audit)
	tenantService := service.NewTenantService(tenants, audit)
	handler := handlers.NewSuperadminAccountsHandler(accountService, tenantService)

	tokens := auth.NewTokenManager("test-secret", 15)
	authMiddleware := auth.NewAuthMiddleware(tokens, stubAgentRepo{}, stubRoleRepo{}, adminToken)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, zap.NewNop(), nil, 0)

	superadmin := app.Group("/api/superadmin", authMiddleware.Handle, auth.RequireSuperadmin())
	superadmin.Post("/tenants/:tenantId/accounts", handler.Create)
	superadmin.Get("/tenants/:tenantId/accounts/:id", handler.Get)
	superadmin.Delete("/tenants/:tenantId/accounts/:id", handler.Delete)

	return app, accounts
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, authed bool) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("X-Admin-Token", adminToken)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var parsed map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			t.Fatalf("unmarshal %q: %v", raw, err)
		}
	}
	return resp, parsed
}

func createAccount(t *testing.T, app *fiber.App, tenantID string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/superadmin/tenants/"+tenantID+"/accounts", `{"name":"Support"}`, true)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create account: status %d body %v", resp.StatusCode, body)
	}
	return body["data"].(map[string]any)["id"].(string)
}

func TestSuperadminRoutesRequireToken(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/superadmin/tenants/tenant-1/accounts", `{"name":"Support"}`, false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}
}

func TestAccountDeleteRequiresConfirmation(t *testing.T) {
	app, accounts := newTestApp(t)
	accountID := createAccount(t, app, "tenant-1")
	path := "/api/superadmin/tenants/tenant-1/accounts/" + accountID

	resp, body := doJSON(t, app, http.MethodDelete, path, `{}`, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("delete without confirm: status = %d, want 400", resp.StatusCode)
	}
	if body["code"] != "VALIDATION_FAILED" {
		t.Errorf("code = %v, want VALIDATION_FAILED", body["code"])
	}
	if _, ok := accounts.accounts[accountID]; !ok {
		t.Fatal("account must survive an unconfirmed delete")
	}

	resp, _ = doJSON(t, app, http.MethodDelete, path, `{"confirm":"delete"}`, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("confirm is case-sensitive: status = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, http.MethodDelete, path, `{"confirm":"DELETE"}`, true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirmed delete: status = %d, want 200", resp.StatusCode)
	}

	resp, body = doJSON(t, app, http.MethodGet, path, "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d, want 404", resp.StatusCode)
	}
	if body["code"] != "ACCOUNT_NOT_FOUND" {
		t.Errorf("code = %v, want ACCOUNT_NOT_FOUND", body["code"])
	}
}

func TestAccountLookupIsTenantScoped(t *testing.T) {
	app, _ := newTestApp(t)
	accountID := createAccount(t, app, "tenant-1")

	resp, body := doJSON(t, app, http.MethodGet, "/api/superadmin/tenants/tenant-2/accounts/"+accountID, "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("cross-tenant get: status = %d, want 404", resp.StatusCode)
	}
	if body["code"] != "ACCOUNT_NOT_FOUND" {
		t.Errorf("code = %v, want ACCOUNT_NOT_FOUND", body["code"])
	}

	resp, _ = doJSON(t, app, http.MethodGet, "/api/superadmin/tenants/tenant-1/accounts/"+accountID, "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("same-tenant get: status = %d, want 200", resp.StatusCode)
	}
}
