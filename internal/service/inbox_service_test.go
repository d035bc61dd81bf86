package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/events"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	"github.com/spec-kit/whatsapp-crm/internal/worker"
)

type fakeInboxRepo struct {
	inboxes map[string]*domain.Inbox
	nextID  int
}

func newFakeInboxRepo() *fakeInboxRepo {
	return &fakeInboxRepo{inboxes: map[string]*domain.Inbox{}}
}

func (r *fakeInboxRepo) Create(_ context.Context, inbox *domain.Inbox) error {
	for _, existing := range r.inboxes {
		if existing.AccountID == inbox.AccountID && existing.PhoneNumber == inbox.PhoneNumber {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	inbox.ID = fmt.Sprintf("inbox-%d", r.nextID)
	clone := *inbox
	r.inboxes[inbox.ID] = &clone
	return nil
}

func (r *fakeInboxRepo) Update(_ context.Context, inbox *domain.Inbox) error {
	if _, ok := r.inboxes[inbox.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *inbox
	r.inboxes[inbox.ID] = &clone
	return nil
}

func (r *fakeInboxRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.inboxes[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.inboxes, id)
	return nil
}

func (r *fakeInboxRepo) GetByID(_ context.Context, id string) (*domain.Inbox, error) {
	inbox, ok := r.inboxes[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *inbox
	return &clone, nil
}

func (r *fakeInboxRepo) ListByAccount(_ context.Context, accountID string, _, _ int) ([]domain.Inbox, int, error) {
	var out []domain.Inbox
	for _, inbox := range r.inboxes {
		if inbox.AccountID == accountID {
			out = append(out, *inbox)
		}
	}
	return out, len(out), nil
}

func (r *fakeInboxRepo) CountByAccount(_ context.Context, accountID string) (int, error) {
	count := 0
	for _, inbox := range r.inboxes {
		if inbox.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func newTestInboxService(t *testing.T, maxInboxes int) (*InboxService, *fakeInboxRepo) {
	t.Helper()
	inboxes := newFakeInboxRepo()
	plans := newFakePlanRepo()
	subs := &fakeSubscriptionRepo{countByPlan: map[string]int{}, byAccount: map[string]*domain.Subscription{}}

	if maxInboxes > 0 {
		plan := &domain.Plan{TenantID: "tenant-1", Name: "Starter", MaxInboxes: maxInboxes, Active: true}
		if err := plans.Create(context.Background(), plan); err != nil {
			t.Fatalf("seed plan: %v", err)
		}
		subs.byAccount["acc-1"] = &domain.Subscription{
			ID:        "sub-1",
			TenantID:  "tenant-1",
			AccountID: "acc-1",
			PlanID:    plan.ID,
			Status:    domain.SubscriptionStatusActive,
		}
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditRecorder(dispatcher, &fakeAuditRepo{}, zap.NewNop(), nil)
	audit := NewAuditService(&fakeAuditRepo{}, dispatcher)
	return NewInboxService(inboxes, subs, plans, nil, audit), inboxes
}

func TestInboxCreateEnforcesPlanQuota(t *testing.T) {
	svc, _ := newTestInboxService(t, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		input := InboxCreateInput{Name: "Line", PhoneNumber: fmt.Sprintf("+4917000000%d", i)}
		if _, err := svc.Create(ctx, "tenant-1", testActor(), "acc-1", input, RequestMeta{}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	_, err := svc.Create(ctx, "tenant-1", testActor(), "acc-1", InboxCreateInput{Name: "Over", PhoneNumber: "+491700000099"}, RequestMeta{})
	if code := conflictCode(t, err); code != "PLAN_LIMIT_REACHED" {
		t.Errorf("code = %q, want PLAN_LIMIT_REACHED", code)
	}
}

func TestInboxCreateUnlimitedWithoutSubscription(t *testing.T) {
	svc, _ := newTestInboxService(t, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		input := InboxCreateInput{Name: "Line", PhoneNumber: fmt.Sprintf("+4917100000%d", i)}
		if _, err := svc.Create(ctx, "tenant-1", testActor(), "acc-1", input, RequestMeta{}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
}

func TestInboxCreateDuplicatePhoneNumber(t *testing.T) {
	svc, _ := newTestInboxService(t, 0)
	ctx := context.Background()

	input := InboxCreateInput{Name: "Line", PhoneNumber: "+491701234567"}
	if _, err := svc.Create(ctx, "tenant-1", testActor(), "acc-1", input, RequestMeta{}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, "tenant-1", testActor(), "acc-1", input, RequestMeta{})
	if code := conflictCode(t, err); code != "INBOX_EXISTS" {
		t.Errorf("code = %q, want INBOX_EXISTS", code)
	}
}

func TestInboxCrossAccountAccessIsNotFound(t *testing.T) {
	svc, _ := newTestInboxService(t, 0)
	ctx := context.Background()

	inbox, err := svc.Create(ctx, "tenant-1", testActor(), "acc-1", InboxCreateInput{Name: "Line", PhoneNumber: "+491701234567"}, RequestMeta{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, "acc-2", inbox.ID); err == nil {
		t.Fatal("foreign account must not see the inbox")
	}
	if err := svc.Delete(ctx, "tenant-1", testActor(), "acc-2", inbox.ID, RequestMeta{}); err == nil {
		t.Fatal("foreign account must not delete the inbox")
	}
	if _, err := svc.Get(ctx, "acc-1", inbox.ID); err != nil {
		t.Fatalf("owner lookup should still work: %v", err)
	}
}
