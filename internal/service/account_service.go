package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
)

// AccountCreateInput describes account creation payload.
type AccountCreateInput struct {
	Name string
}

// AccountUpdateInput describes account mutation payload.
type AccountUpdateInput struct {
	Name   *string
	Status *domain.AccountStatus
}

// AccountService handles superadmin account management within a tenant.
type AccountService struct {
	accounts     repository.AccountRepository
	audit        *AuditService
	accountGuard *guard.Guard[*domain.Account]
}

// NewAccountService constructs the service.
func NewAccountService(accounts repository.AccountRepository, audit *AuditService) *AccountService {
	return &AccountService{
		accounts: accounts,
		audit:    audit,
		accountGuard: guard.New("account", "ACCOUNT_NOT_FOUND",
			accounts.GetByID,
			func(account *domain.Account) string { return account.TenantID },
		),
	}
}

// Create adds an account to the tenant.
func (s *AccountService) Create(ctx context.Context, actor Actor, tenantID string, input AccountCreateInput, meta RequestMeta) (*domain.Account, error) {
	account := &domain.Account{
		TenantID: tenantID,
		Name:     strings.TrimSpace(input.Name),
		Status:   domain.AccountStatusActive,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditAccountCreated, account.ID, map[string]any{
		"name": account.Name,
	}, meta)
	return account, nil
}

// Get returns an account owned by the tenant.
func (s *AccountService) Get(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	return s.accountGuard.Require(ctx, accountID, tenantID)
}

// List returns the tenant's accounts.
func (s *AccountService) List(ctx context.Context, tenantID string, limit, offset int) ([]domain.Account, int, error) {
	return s.accounts.ListByTenant(ctx, tenantID, limit, offset)
}

// Update mutates an account after the ownership check.
func (s *AccountService) Update(ctx context.Context, actor Actor, tenantID, accountID string, input AccountUpdateInput, meta RequestMeta) (*domain.Account, error) {
	account, err := s.accountGuard.Require(ctx, accountID, tenantID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		account.Name = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		account.Status = *input.Status
	}

	if err := s.accounts.Update(ctx, account); err != nil {
		if err == pgx.ErrNoRows {
			return nil, s.accountGuard.NotFound()
		}
		return nil, err
	}
	return account, nil
}

// Delete removes an account and everything under it. The confirmation
// handshake happens at the HTTP layer; by the time this runs the caller has
// already confirmed.
func (s *AccountService) Delete(ctx context.Context, actor Actor, tenantID, accountID string, meta RequestMeta) error {
	account, err := s.accountGuard.Require(ctx, accountID, tenantID)
	if err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, account.ID); err != nil {
		if err == pgx.ErrNoRows {
			return s.accountGuard.NotFound()
		}
		return err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditAccountDeleted, account.ID, map[string]any{
		"name": account.Name,
	}, meta)
	return nil
}
