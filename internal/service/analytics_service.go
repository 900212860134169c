package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
)

type analyticsRepository interface {
	TeacherWorkload(ctx context.Context, tenantID string) ([]models.TeacherWorkload, error)
	RoomUtilization(ctx context.Context, tenantID string) ([]models.RoomUtilization, error)
	SubjectDistribution(ctx context.Context, tenantID string) ([]models.SubjectDistribution, error)
	DayDistribution(ctx context.Context, tenantID string) ([]models.DayDistribution, error)
}

type analyticsCache interface {
	Get(ctx context.Context, tenantID, suffix string, dest interface{}) bool
	Set(ctx context.Context, tenantID, suffix string, value interface{}, ttl time.Duration)
}

const analyticsCacheKey = "analytics:report"

// AnalyticsService assembles the timetable aggregate report, cache-fronted.
type AnalyticsService struct {
	repo     analyticsRepository
	cache    analyticsCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService wires analytics dependencies.
func NewAnalyticsService(repo analyticsRepository, cache analyticsCache, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &AnalyticsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Report returns the tenant's full analytics bundle.
func (s *AnalyticsService) Report(ctx context.Context, tenantID string) (*models.AnalyticsReport, error) {
	if s.cache != nil {
		var cached models.AnalyticsReport
		if s.cache.Get(ctx, tenantID, analyticsCacheKey, &cached) {
			return &cached, nil
		}
	}

	workload, err := s.repo.TeacherWorkload(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.repo.RoomUtilization(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.repo.SubjectDistribution(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	days, err := s.repo.DayDistribution(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	report := &models.AnalyticsReport{
		TeacherWorkload:     workload,
		RoomUtilization:     rooms,
		SubjectDistribution: subjects,
		DayDistribution:     days,
	}
	if s.cache != nil {
		s.cache.Set(ctx, tenantID, analyticsCacheKey, report, s.cacheTTL)
	}
	return report, nil
}
