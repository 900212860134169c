package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
	"github.com/noah-isme/timetable-api/pkg/export"
	"github.com/noah-isme/timetable-api/pkg/jobs"
	"github.com/noah-isme/timetable-api/pkg/storage"
)

type exportTimetableReader interface {
	ListByClass(ctx context.Context, tenantID, classID string) ([]models.TimetableEntryDetail, error)
}

type exportClassReader interface {
	FindByID(ctx context.Context, tenantID, id string) (*models.Class, error)
}

type exportMetrics interface {
	ObserveExportJob(status string)
}

// ExportServiceConfig tunes the async export pipeline.
type ExportServiceConfig struct {
	WorkerConcurrency int
	WorkerRetries     int
	CleanupInterval   time.Duration
	FileTTL           time.Duration
}

// ExportService renders class timetables to PDF or CSV asynchronously. Jobs
// are tracked in memory; files land on local storage and are downloadable via
// signed URLs until the cleanup loop retires them.
type ExportService struct {
	timetable exportTimetableReader
	classes   exportClassReader
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	metrics   exportMetrics
	validator *validator.Validate
	logger    *zap.Logger

	queue *jobs.Queue
	cfg   ExportServiceConfig

	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

// NewExportService wires the export pipeline.
func NewExportService(
	timetable exportTimetableReader,
	classes exportClassReader,
	store *storage.LocalStorage,
	signer *storage.SignedURLSigner,
	metrics exportMetrics,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ExportServiceConfig,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = 1
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.FileTTL <= 0 {
		cfg.FileTTL = 24 * time.Hour
	}

	s := &ExportService{
		timetable: timetable,
		classes:   classes,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewLandscapePDFExporter(),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		jobs:      make(map[string]*models.ExportJob),
	}
	s.queue = jobs.NewQueue("exports", s.process, jobs.QueueConfig{
		Workers:    cfg.WorkerConcurrency,
		MaxRetries: cfg.WorkerRetries,
		Logger:     logger,
	})
	return s
}

// Start launches the worker pool and the cleanup loop.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	go s.cleanupLoop(ctx)
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue registers a new export job and hands it to the workers.
func (s *ExportService) Enqueue(ctx context.Context, tenantID string, req models.ExportRequest) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if _, err := s.classes.FindByID(ctx, tenantID, req.ClassID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		ClassID:   req.ClassID,
		Format:    req.Format,
		Status:    models.ExportJobQueued,
		CreatedAt: time.Now().UTC(),
	}

	// Workers mutate the stored job; callers only ever see snapshots.
	snapshot := *job

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "export"}); err != nil {
		s.mu.Lock()
		delete(s.jobs, job.ID)
		s.mu.Unlock()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enqueue export job")
	}
	return &snapshot, nil
}

// Job returns job state for polling, with a signed download URL once done.
func (s *ExportService) Job(ctx context.Context, tenantID, jobID string) (*models.ExportJobResponse, error) {
	s.mu.RLock()
	stored, ok := s.jobs[jobID]
	var job models.ExportJob
	if ok {
		job = *stored
	}
	s.mu.RUnlock()
	if !ok || job.TenantID != tenantID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}

	resp := &models.ExportJobResponse{Job: &job}
	if job.Status == models.ExportJobCompleted && s.signer != nil {
		token, expiresAt, err := s.signer.Generate(job.ID, job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "sign download url")
		}
		resp.DownloadURL = fmt.Sprintf("/api/v1/exports/download?token=%s", token)
		resp.ExpiresAt = &expiresAt
	}
	return resp, nil
}

// Resolve validates a download token and returns the stored file path.
func (s *ExportService) Resolve(token string) (string, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}

	s.mu.RLock()
	job, ok := s.jobs[jobID]
	completed := ok && job.Status == models.ExportJobCompleted && job.FilePath == relPath
	s.mu.RUnlock()
	if !completed {
		return "", appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return s.store.Path(relPath), nil
}

func (s *ExportService) process(ctx context.Context, j jobs.Job) error {
	s.mu.Lock()
	job, ok := s.jobs[j.ID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	job.Status = models.ExportJobProcessing
	s.mu.Unlock()

	err := s.render(ctx, job)

	s.mu.Lock()
	now := time.Now().UTC()
	job.CompletedAt = &now
	status := models.ExportJobCompleted
	if err != nil {
		status = models.ExportJobFailed
		job.Error = err.Error()
	}
	job.Status = status
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ObserveExportJob(string(status))
	}
	return err
}

func (s *ExportService) render(ctx context.Context, job *models.ExportJob) error {
	class, err := s.classes.FindByID(ctx, job.TenantID, job.ClassID)
	if err != nil {
		return fmt.Errorf("load class: %w", err)
	}
	entries, err := s.timetable.ListByClass(ctx, job.TenantID, job.ClassID)
	if err != nil {
		return fmt.Errorf("load timetable: %w", err)
	}

	dataset := buildTimetableDataset(entries)

	var payload []byte
	switch job.Format {
	case models.ExportCSV:
		payload, err = s.csv.Render(dataset)
	case models.ExportPDF:
		payload, err = s.pdf.Render(dataset, fmt.Sprintf("Timetable - %s", class.Name))
	default:
		return fmt.Errorf("unsupported export format %q", job.Format)
	}
	if err != nil {
		return fmt.Errorf("render export: %w", err)
	}

	filename := fmt.Sprintf("%s/%s.%s", job.TenantID, job.ID, job.Format)
	rel, err := s.store.Save(filename, payload)
	if err != nil {
		return err
	}

	s.mu.Lock()
	job.FilePath = rel
	s.mu.Unlock()
	return nil
}

func (s *ExportService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.store.CleanupOlderThan(s.cfg.FileTTL)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(deleted) > 0 {
				s.logger.Info("export files cleaned up", zap.Int("count", len(deleted)))
				s.retireJobs(deleted)
			}
		}
	}
}

// retireJobs drops in-memory records whose files were removed.
func (s *ExportService) retireJobs(deletedFiles []string) {
	removed := make(map[string]bool, len(deletedFiles))
	for _, f := range deletedFiles {
		removed[f] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if job.FilePath != "" && removed[job.FilePath] {
			delete(s.jobs, id)
		}
	}
}

// buildTimetableDataset flattens joined entries into the tabular layout shared
// by the CSV and PDF renderers.
func buildTimetableDataset(entries []models.TimetableEntryDetail) export.Dataset {
	dayOrder := make(map[string]int, len(models.Weekdays))
	for i, d := range models.Weekdays {
		dayOrder[d] = i
	}
	sorted := make([]models.TimetableEntryDetail, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if dayOrder[sorted[i].Day] != dayOrder[sorted[j].Day] {
			return dayOrder[sorted[i].Day] < dayOrder[sorted[j].Day]
		}
		return sorted[i].SlotNumber < sorted[j].SlotNumber
	})

	dataset := export.Dataset{
		Headers: []string{"Day", "Slot", "Time", "Subject", "Code", "Teacher", "Room"},
	}
	for _, e := range sorted {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Day":     e.Day,
			"Slot":    fmt.Sprintf("%d", e.SlotNumber),
			"Time":    fmt.Sprintf("%s-%s", e.StartTime, e.EndTime),
			"Subject": e.SubjectName,
			"Code":    e.SubjectCode,
			"Teacher": e.TeacherName,
			"Room":    e.RoomNumber,
		})
	}
	return dataset
}
