package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/pkg/storage"
)

type exportClassStub struct {
	classes map[string]*models.Class
}

func (s *exportClassStub) FindByID(ctx context.Context, tenantID, id string) (*models.Class, error) {
	if c, ok := s.classes[id]; ok && c.TenantID == tenantID {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type exportTimetableStub struct {
	entries []models.TimetableEntryDetail
}

func (s *exportTimetableStub) ListByClass(ctx context.Context, tenantID, classID string) ([]models.TimetableEntryDetail, error) {
	return s.entries, nil
}

func newExportFixture(t *testing.T, classes map[string]*models.Class) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test_secret", time.Hour)

	svc := NewExportService(&exportTimetableStub{}, &exportClassStub{classes: classes}, store, signer, nil, nil, nil, ExportServiceConfig{
		WorkerConcurrency: 4,
		CleanupInterval:   time.Hour,
		FileTTL:           time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	svc.Start(ctx)
	t.Cleanup(func() {
		cancel()
		svc.Stop()
	})
	return svc
}

func exportTestClasses(n int) map[string]*models.Class {
	classes := make(map[string]*models.Class, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("class-%d", i)
		classes[id] = &models.Class{ID: id, TenantID: "tenant-1", Name: "CS-3A"}
	}
	return classes
}

func waitForJob(t *testing.T, svc *ExportService, jobID string, status models.ExportJobStatus) *models.ExportJobResponse {
	t.Helper()
	var resp *models.ExportJobResponse
	require.Eventually(t, func() bool {
		var err error
		resp, err = svc.Job(context.Background(), "tenant-1", jobID)
		return err == nil && resp.Job.Status == status
	}, 2*time.Second, 10*time.Millisecond)
	return resp
}

func TestExportJobLifecycle(t *testing.T) {
	svc := newExportFixture(t, exportTestClasses(1))

	job, err := svc.Enqueue(context.Background(), "tenant-1", models.ExportRequest{ClassID: "class-0", Format: models.ExportCSV})
	require.NoError(t, err)
	require.Equal(t, models.ExportJobQueued, job.Status)

	resp := waitForJob(t, svc, job.ID, models.ExportJobCompleted)
	require.NotEmpty(t, resp.DownloadURL)
	require.NotNil(t, resp.ExpiresAt)

	parsed, err := url.Parse(resp.DownloadURL)
	require.NoError(t, err)
	path, err := svc.Resolve(parsed.Query().Get("token"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, job.ID+".csv"))
}

func TestExportJobUnknownClassRejected(t *testing.T) {
	svc := newExportFixture(t, exportTestClasses(1))

	_, err := svc.Enqueue(context.Background(), "tenant-1", models.ExportRequest{ClassID: "missing", Format: models.ExportCSV})
	require.Error(t, err)
}

func TestExportJobNotVisibleAcrossTenants(t *testing.T) {
	svc := newExportFixture(t, exportTestClasses(1))

	job, err := svc.Enqueue(context.Background(), "tenant-1", models.ExportRequest{ClassID: "class-0", Format: models.ExportCSV})
	require.NoError(t, err)

	_, err = svc.Job(context.Background(), "tenant-2", job.ID)
	require.Error(t, err)
}

func TestExportJobResponsesAreSnapshots(t *testing.T) {
	svc := newExportFixture(t, exportTestClasses(1))

	job, err := svc.Enqueue(context.Background(), "tenant-1", models.ExportRequest{ClassID: "class-0", Format: models.ExportCSV})
	require.NoError(t, err)

	waitForJob(t, svc, job.ID, models.ExportJobCompleted)

	// Enqueue handed out a copy taken before the workers ran.
	require.Equal(t, models.ExportJobQueued, job.Status)

	first, err := svc.Job(context.Background(), "tenant-1", job.ID)
	require.NoError(t, err)
	first.Job.Status = models.ExportJobFailed
	first.Job.Error = "mutated by caller"

	second, err := svc.Job(context.Background(), "tenant-1", job.ID)
	require.NoError(t, err)
	require.Equal(t, models.ExportJobCompleted, second.Job.Status)
	require.Empty(t, second.Job.Error)
}

func TestExportJobPollingIsConcurrencySafe(t *testing.T) {
	const jobCount = 50
	svc := newExportFixture(t, exportTestClasses(jobCount))

	ids := make([]string, 0, jobCount)
	for i := 0; i < jobCount; i++ {
		job, err := svc.Enqueue(context.Background(), "tenant-1", models.ExportRequest{
			ClassID: fmt.Sprintf("class-%d", i),
			Format:  models.ExportCSV,
		})
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}

	// Marshal poll responses while the workers mutate job state.
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(jobID string) {
			defer wg.Done()
			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				resp, err := svc.Job(context.Background(), "tenant-1", jobID)
				if err != nil {
					return
				}
				if _, err := json.Marshal(resp); err != nil {
					return
				}
				if resp.Job.Status == models.ExportJobCompleted || resp.Job.Status == models.ExportJobFailed {
					return
				}
				time.Sleep(time.Millisecond)
			}
		}(id)
	}
	wg.Wait()

	for _, id := range ids {
		waitForJob(t, svc, id, models.ExportJobCompleted)
	}
}
