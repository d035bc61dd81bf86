package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/gateway"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

// InboxCreateInput describes inbox creation payload.
type InboxCreateInput struct {
	Name              string
	PhoneNumber       string
	GatewayInstanceID string
}

// InboxUpdateInput describes inbox mutation payload.
type InboxUpdateInput struct {
	Name              *string
	PhoneNumber       *string
	GatewayInstanceID *string
	Status            *domain.InboxStatus
}

// InboxService coordinates inbox workflows.
type InboxService struct {
	inboxes       repository.InboxRepository
	subscriptions repository.SubscriptionRepository
	plans         repository.PlanRepository
	gateway       *gateway.Client
	audit         *AuditService
	inboxGuard    *guard.Guard[*domain.Inbox]
}

// NewInboxService constructs the service.
func NewInboxService(inboxes repository.InboxRepository, subscriptions repository.SubscriptionRepository, plans repository.PlanRepository, gw *gateway.Client, audit *AuditService) *InboxService {
	return &InboxService{
		inboxes:       inboxes,
		subscriptions: subscriptions,
		plans:         plans,
		gateway:       gw,
		audit:         audit,
		inboxGuard: guard.New("inbox", "INBOX_NOT_FOUND",
			inboxes.GetByID,
			func(inbox *domain.Inbox) string { return inbox.AccountID },
		),
	}
}

// Create provisions an inbox, enforcing the account's plan inbox limit.
func (s *InboxService) Create(ctx context.Context, tenantID string, actor Actor, accountID string, input InboxCreateInput, meta RequestMeta) (*domain.Inbox, error) {
	if err := s.checkInboxQuota(ctx, accountID); err != nil {
		return nil, err
	}

	inbox := &domain.Inbox{
		AccountID:         accountID,
		Name:              strings.TrimSpace(input.Name),
		ChannelType:       domain.ChannelTypeWhatsApp,
		PhoneNumber:       strings.TrimSpace(input.PhoneNumber),
		GatewayInstanceID: input.GatewayInstanceID,
		Status:            domain.InboxStatusActive,
	}
	if err := s.inboxes.Create(ctx, inbox); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("INBOX_EXISTS", "An inbox with this phone number already exists", nil)
		}
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditInboxCreated, inbox.ID, map[string]any{"name": inbox.Name}, meta)
	return inbox, nil
}

// Get returns an inbox owned by the account.
func (s *InboxService) Get(ctx context.Context, accountID, inboxID string) (*domain.Inbox, error) {
	return s.inboxGuard.Require(ctx, inboxID, accountID)
}

// List returns the account's inboxes.
func (s *InboxService) List(ctx context.Context, accountID string, limit, offset int) ([]domain.Inbox, int, error) {
	return s.inboxes.ListByAccount(ctx, accountID, limit, offset)
}

// Update mutates an inbox after the ownership check.
func (s *InboxService) Update(ctx context.Context, tenantID string, actor Actor, accountID, inboxID string, input InboxUpdateInput, meta RequestMeta) (*domain.Inbox, error) {
	inbox, err := s.inboxGuard.Require(ctx, inboxID, accountID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		inbox.Name = strings.TrimSpace(*input.Name)
	}
	if input.PhoneNumber != nil {
		inbox.PhoneNumber = strings.TrimSpace(*input.PhoneNumber)
	}
	if input.GatewayInstanceID != nil {
		inbox.GatewayInstanceID = *input.GatewayInstanceID
	}
	if input.Status != nil {
		inbox.Status = *input.Status
	}

	if err := s.inboxes.Update(ctx, inbox); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("INBOX_EXISTS", "An inbox with this phone number already exists", nil)
		}
		if err == pgx.ErrNoRows {
			return nil, s.inboxGuard.NotFound()
		}
		return nil, err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditInboxUpdated, inbox.ID, nil, meta)
	return inbox, nil
}

// Delete removes an inbox after the ownership check.
func (s *InboxService) Delete(ctx context.Context, tenantID string, actor Actor, accountID, inboxID string, meta RequestMeta) error {
	inbox, err := s.inboxGuard.Require(ctx, inboxID, accountID)
	if err != nil {
		return err
	}
	if err := s.inboxes.Delete(ctx, inbox.ID); err != nil {
		if err == pgx.ErrNoRows {
			return s.inboxGuard.NotFound()
		}
		return err
	}

	s.audit.Record(ctx, tenantID, actor, domain.AuditInboxDeleted, inbox.ID, map[string]any{"name": inbox.Name}, meta)
	return nil
}

// ChannelStatus reads gateway-side state for an owned inbox.
func (s *InboxService) ChannelStatus(ctx context.Context, accountID, inboxID string) (*gateway.ChannelStatus, error) {
	inbox, err := s.inboxGuard.Require(ctx, inboxID, accountID)
	if err != nil {
		return nil, err
	}
	if inbox.GatewayInstanceID == "" {
		return nil, apperrors.NewConflict("INBOX_NOT_PROVISIONED", "inbox has no gateway instance", nil)
	}
	return s.gateway.InstanceStatus(ctx, inbox.GatewayInstanceID)
}

// PairingQR fetches the current pairing code for an owned inbox.
func (s *InboxService) PairingQR(ctx context.Context, accountID, inboxID string) (*gateway.PairingCode, error) {
	inbox, err := s.inboxGuard.Require(ctx, inboxID, accountID)
	if err != nil {
		return nil, err
	}
	if inbox.GatewayInstanceID == "" {
		return nil, apperrors.NewConflict("INBOX_NOT_PROVISIONED", "inbox has no gateway instance", nil)
	}
	return s.gateway.PairingQR(ctx, inbox.GatewayInstanceID)
}

func (s *InboxService) checkInboxQuota(ctx context.Context, accountID string) error {
	sub, err := s.subscriptions.GetByAccount(ctx, accountID)
	if err != nil {
		if err == pgx.ErrNoRows {
			// accounts without a subscription are not quota-limited
			return nil
		}
		return err
	}
	plan, err := s.plans.GetByID(ctx, sub.PlanID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return err
	}
	if plan.MaxInboxes <= 0 {
		return nil
	}

	count, err := s.inboxes.CountByAccount(ctx, accountID)
	if err != nil {
		return err
	}
	if count >= plan.MaxInboxes {
		return apperrors.NewConflict("PLAN_LIMIT_REACHED", "plan inbox limit reached", map[string]any{
			"max_inboxes": plan.MaxInboxes,
		})
	}
	return nil
}
