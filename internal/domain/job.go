package domain

import "time"

// JobKind enumerates background job categories.
type JobKind string

const (
	JobKindCampaign JobKind = "CAMPAIGN"
	JobKindImport   JobKind = "IMPORT"
	JobKindReport   JobKind = "REPORT"
)

// JobStatus enumerates background job states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "QUEUED"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// Job is a background unit of work (campaign send, contact import, report
// build) processed by workers outside this API. This layer only reads status.
type Job struct {
	ID        string
	AccountID string
	Kind      JobKind
	Status    JobStatus
	Progress  int
	Result    map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}
