package models

import "time"

// ExportFormat enumerates supported timetable export formats.
type ExportFormat string

const (
	ExportPDF ExportFormat = "pdf"
	ExportCSV ExportFormat = "csv"
)

// ExportJobStatus tracks the lifecycle of an export job.
type ExportJobStatus string

const (
	ExportJobQueued     ExportJobStatus = "QUEUED"
	ExportJobProcessing ExportJobStatus = "PROCESSING"
	ExportJobCompleted  ExportJobStatus = "COMPLETED"
	ExportJobFailed     ExportJobStatus = "FAILED"
)

// ExportJob describes an asynchronous timetable export.
type ExportJob struct {
	ID          string          `json:"id"`
	TenantID    string          `json:"-"`
	ClassID     string          `json:"class_id"`
	Format      ExportFormat    `json:"format"`
	Status      ExportJobStatus `json:"status"`
	FilePath    string          `json:"-"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ExportRequest queues a new export job.
type ExportRequest struct {
	ClassID string       `json:"class_id" validate:"required"`
	Format  ExportFormat `json:"format" validate:"required,oneof=pdf csv"`
}

// ExportJobResponse is returned when polling a job, optionally with a signed
// download URL once the job completed.
type ExportJobResponse struct {
	Job         *ExportJob `json:"job"`
	DownloadURL string     `json:"download_url,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}
