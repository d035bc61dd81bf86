package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/whatsapp-crm/internal/api/dto"
	"github.com/spec-kit/whatsapp-crm/internal/domain"
	"github.com/spec-kit/whatsapp-crm/internal/repository"
	"github.com/spec-kit/whatsapp-crm/internal/service"
)

// JobsHandler serves read-only background job status.
type JobsHandler struct {
	service *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{service: jobService}
}

// List GET /api/account/jobs.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	page := dto.ParsePage(c.Query("page"), c.Query("page_size"))
	filter := repository.JobFilter{Limit: page.Size, Offset: page.Offset()}
	if kind := c.Query("kind"); kind != "" {
		jobKind := domain.JobKind(kind)
		filter.Kind = &jobKind
	}
	if status := c.Query("status"); status != "" {
		jobStatus := domain.JobStatus(status)
		filter.Status = &jobStatus
	}

	jobs, total, err := h.service.List(c.UserContext(), principal.AccountID, filter)
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, dto.NewJobResponse(&jobs[i]))
	}
	return respondList(c, items, dto.NewPageMeta(page, total))
}

// Get GET /api/account/jobs/:id.
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	principal, _, err := agentPrincipal(c)
	if err != nil {
		return err
	}
	job, err := h.service.Get(c.UserContext(), principal.AccountID, c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, dto.NewJobResponse(job))
}
