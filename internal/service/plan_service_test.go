package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/events"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	"github.com/spec-kit/whatsapp-crm/internal/worker"
	apperrors "github.com/spec-kit/whatsapp-crm/pkg/util"
)

type fakePlanRepo struct {
	plans      map[string]*domain.Plan
	nextID     int
	deleted    []string
	migrations [][2]string
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[string]*domain.Plan{}}
}

func (r *fakePlanRepo) Create(_ context.Context, plan *domain.Plan) error {
	for _, existing := range r.plans {
		if existing.TenantID == plan.TenantID && existing.Name == plan.Name {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	plan.ID = fmt.Sprintf("plan-%d", r.nextID)
	clone := *plan
	r.plans[plan.ID] = &clone
	return nil
}

func (r *fakePlanRepo) Update(_ context.Context, plan *domain.Plan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *plan
	r.plans[plan.ID] = &clone
	return nil
}

func (r *fakePlanRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.plans[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.plans, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakePlanRepo) DeleteWithMigration(_ context.Context, id, migrateToID string) error {
	if _, ok := r.plans[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.plans, id)
	r.deleted = append(r.deleted, id)
	r.migrations = append(r.migrations, [2]string{id, migrateToID})
	return nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id string) (*domain.Plan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *plan
	return &clone, nil
}

func (r *fakePlanRepo) ListByTenant(_ context.Context, tenantID string, _, _ int) ([]domain.Plan, int, error) {
	var out []domain.Plan
	for _, plan := range r.plans {
		if plan.TenantID == tenantID {
			out = append(out, *plan)
		}
	}
	return out, len(out), nil
}

type fakeSubscriptionRepo struct {
	countByPlan map[string]int
	byAccount   map[string]*domain.Subscription
}

func (r *fakeSubscriptionRepo) Create(context.Context, *domain.Subscription) error { return nil }
func (r *fakeSubscriptionRepo) Update(context.Context, *domain.Subscription) error { return nil }
func (r *fakeSubscriptionRepo) GetByID(context.Context, string) (*domain.Subscription, error) {
	return nil, pgx.ErrNoRows
}
func (r *fakeSubscriptionRepo) GetByAccount(_ context.Context, accountID string) (*domain.Subscription, error) {
	sub, ok := r.byAccount[accountID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return sub, nil
}
func (r *fakeSubscriptionRepo) GetByStripeID(context.Context, string) (*domain.Subscription, error) {
	return nil, pgx.ErrNoRows
}
func (r *fakeSubscriptionRepo) CountByPlan(_ context.Context, planID string) (int, error) {
	return r.countByPlan[planID], nil
}

type fakeAuditRepo struct {
	entries []domain.AuditLogEntry
	fail    bool
}

func (r *fakeAuditRepo) Insert(_ context.Context, entry *domain.AuditLogEntry) error {
	if r.fail {
		return errors.New("audit storage down")
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) ListByTenant(_ context.Context, tenantID string, filter repository.AuditFilter) ([]domain.AuditLogEntry, int, error) {
	var matched []domain.AuditLogEntry
	for _, entry := range r.entries {
		if entry.TenantID == tenantID {
			matched = append(matched, entry)
		}
	}
	total := len(matched)
	if filter.Limit < 0 {
		return matched, total, nil
	}
	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func testActor() Actor {
	return Actor{ID: "agent-1", Type: domain.SubjectTypeAgent}
}

func newTestPlanService(subs *fakeSubscriptionRepo, auditRepo *fakeAuditRepo) (*PlanService, *fakePlanRepo) {
	plans := newFakePlanRepo()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditRecorder(dispatcher, auditRepo, zap.NewNop(), nil)
	audit := NewAuditService(auditRepo, dispatcher)
	return NewPlanService(plans, subs, audit), plans
}

func conflictCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.HTTPStatus != 409 {
		t.Fatalf("status = %d, want 409", domainErr.HTTPStatus)
	}
	return domainErr.Code
}

func TestPlanCreateDuplicateName(t *testing.T) {
	auditRepo := &fakeAuditRepo{}
	svc, _ := newTestPlanService(&fakeSubscriptionRepo{countByPlan: map[string]int{}}, auditRepo)
	ctx := context.Background()
	input := PlanCreateInput{Name: "Pro", Currency: "USD", Interval: domain.PlanIntervalMonth}

	plan, err := svc.Create(ctx, "tenant-1", testActor(), input, RequestMeta{})
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	if plan.Currency != "usd" {
		t.Errorf("currency = %q, want normalized usd", plan.Currency)
	}

	_, err = svc.Create(ctx, "tenant-1", testActor(), input, RequestMeta{})
	if code := conflictCode(t, err); code != "PLAN_EXISTS" {
		t.Errorf("code = %q, want PLAN_EXISTS", code)
	}

	// The failed create must not leave a second audit row.
	if len(auditRepo.entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(auditRepo.entries))
	}
	if auditRepo.entries[0].ActionType != domain.AuditPlanCreated {
		t.Errorf("action = %q, want PLAN_CREATED", auditRepo.entries[0].ActionType)
	}
}

func TestPlanDeleteWithSubscribersRequiresMigration(t *testing.T) {
	subs := &fakeSubscriptionRepo{countByPlan: map[string]int{}}
	auditRepo := &fakeAuditRepo{}
	svc, plans := newTestPlanService(subs, auditRepo)
	ctx := context.Background()

	plan, err := svc.Create(ctx, "tenant-1", testActor(), PlanCreateInput{Name: "Pro"}, RequestMeta{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	subs.countByPlan[plan.ID] = 3

	err = svc.Delete(ctx, "tenant-1", testActor(), plan.ID, nil, RequestMeta{})
	if code := conflictCode(t, err); code != "PLAN_HAS_SUBSCRIBERS" {
		t.Errorf("code = %q, want PLAN_HAS_SUBSCRIBERS", code)
	}
	// Plan and subscriptions untouched after the rejected delete.
	if _, err := plans.GetByID(ctx, plan.ID); err != nil {
		t.Errorf("plan should still exist: %v", err)
	}
	if len(plans.deleted) != 0 {
		t.Errorf("deleted = %v, want none", plans.deleted)
	}
}

func TestPlanDeleteMigratesSubscribers(t *testing.T) {
	subs := &fakeSubscriptionRepo{countByPlan: map[string]int{}}
	auditRepo := &fakeAuditRepo{}
	svc, plans := newTestPlanService(subs, auditRepo)
	ctx := context.Background()

	old, _ := svc.Create(ctx, "tenant-1", testActor(), PlanCreateInput{Name: "Old"}, RequestMeta{})
	target, _ := svc.Create(ctx, "tenant-1", testActor(), PlanCreateInput{Name: "New"}, RequestMeta{})
	subs.countByPlan[old.ID] = 2

	if err := svc.Delete(ctx, "tenant-1", testActor(), old.ID, &target.ID, RequestMeta{}); err != nil {
		t.Fatalf("delete with migration: %v", err)
	}
	if len(plans.migrations) != 1 || plans.migrations[0] != [2]string{old.ID, target.ID} {
		t.Errorf("migrations = %v, want [[%s %s]]", plans.migrations, old.ID, target.ID)
	}

	last := auditRepo.entries[len(auditRepo.entries)-1]
	if last.ActionType != domain.AuditPlanDeleted {
		t.Errorf("action = %q, want PLAN_DELETED", last.ActionType)
	}
	if last.Metadata["migrated_to"] != target.ID {
		t.Errorf("metadata migrated_to = %v, want %s", last.Metadata["migrated_to"], target.ID)
	}
}

func TestPlanDeleteRejectsSelfAndForeignMigrationTarget(t *testing.T) {
	subs := &fakeSubscriptionRepo{countByPlan: map[string]int{}}
	svc, _ := newTestPlanService(subs, &fakeAuditRepo{})
	ctx := context.Background()

	plan, _ := svc.Create(ctx, "tenant-1", testActor(), PlanCreateInput{Name: "Pro"}, RequestMeta{})
	foreign, _ := svc.Create(ctx, "tenant-2", testActor(), PlanCreateInput{Name: "Other"}, RequestMeta{})
	subs.countByPlan[plan.ID] = 1

	err := svc.Delete(ctx, "tenant-1", testActor(), plan.ID, &plan.ID, RequestMeta{})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 400 {
		t.Errorf("self-migration should be a 400, got %v", err)
	}

	err = svc.Delete(ctx, "tenant-1", testActor(), plan.ID, &foreign.ID, RequestMeta{})
	if !errors.As(err, &domainErr) || domainErr.HTTPStatus != 404 {
		t.Errorf("foreign migration target should be a 404, got %v", err)
	}
}

func TestPlanCrossTenantAccessIsNotFound(t *testing.T) {
	svc, _ := newTestPlanService(&fakeSubscriptionRepo{countByPlan: map[string]int{}}, &fakeAuditRepo{})
	ctx := context.Background()

	plan, _ := svc.Create(ctx, "tenant-1", testActor(), PlanCreateInput{Name: "Pro"}, RequestMeta{})

	_, err := svc.Get(ctx, "tenant-2", plan.ID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected DomainError, got %v", err)
	}
	if domainErr.HTTPStatus != 404 || domainErr.Code != "PLAN_NOT_FOUND" {
		t.Errorf("got %d %s, want 404 PLAN_NOT_FOUND", domainErr.HTTPStatus, domainErr.Code)
	}
}

func TestAuditWriteFailureDoesNotFailMutation(t *testing.T) {
	auditRepo := &fakeAuditRepo{fail: true}
	svc, plans := newTestPlanService(&fakeSubscriptionRepo{countByPlan: map[string]int{}}, auditRepo)
	ctx := context.Background()

	plan, err := svc.Create(ctx, "tenant-1", testActor(), PlanCreateInput{Name: "Pro"}, RequestMeta{})
	if err != nil {
		t.Fatalf("mutation must succeed even when the audit sink is down: %v", err)
	}
	if _, err := plans.GetByID(ctx, plan.ID); err != nil {
		t.Errorf("plan should be persisted: %v", err)
	}
	if len(auditRepo.entries) != 0 {
		t.Errorf("no audit rows expected, got %d", len(auditRepo.entries))
	}
}
