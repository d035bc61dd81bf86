package service

import (
	"context"

	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/guard"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
)

// JobService exposes read-only status lookups over background jobs.
type JobService struct {
	jobs     repository.JobRepository
	jobGuard *guard.Guard[*domain.Job]
}

// NewJobService constructs the service.
func NewJobService(jobs repository.JobRepository) *JobService {
	return &JobService{
		jobs: jobs,
		jobGuard: guard.New("job", "JOB_NOT_FOUND",
			jobs.GetByID,
			func(job *domain.Job) string { return job.AccountID },
		),
	}
}

// Get returns a job owned by the account.
func (s *JobService) Get(ctx context.Context, accountID, jobID string) (*domain.Job, error) {
	return s.jobGuard.Require(ctx, jobID, accountID)
}

// List returns the account's jobs.
func (s *JobService) List(ctx context.Context, accountID string, filter repository.JobFilter) ([]domain.Job, int, error) {
	return s.jobs.ListByAccount(ctx, accountID, filter)
}
