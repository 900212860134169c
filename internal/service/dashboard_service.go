package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
)

type dashboardStatsReader interface {
	DashboardStats(ctx context.Context, tenantID string) (*models.DashboardStats, error)
}

type dashboardClassReader interface {
	ListRecent(ctx context.Context, tenantID string, limit int) ([]models.Class, error)
}

const dashboardCacheKey = "dashboard:summary"

// DashboardService serves the landing page counts and recent classes.
type DashboardService struct {
	stats    dashboardStatsReader
	classes  dashboardClassReader
	cache    analyticsCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService wires dashboard dependencies.
func NewDashboardService(stats dashboardStatsReader, classes dashboardClassReader, cache analyticsCache, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DashboardService{stats: stats, classes: classes, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Summary returns entity counts plus the five newest classes.
func (s *DashboardService) Summary(ctx context.Context, tenantID string) (*models.DashboardSummary, error) {
	if s.cache != nil {
		var cached models.DashboardSummary
		if s.cache.Get(ctx, tenantID, dashboardCacheKey, &cached) {
			return &cached, nil
		}
	}

	stats, err := s.stats.DashboardStats(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	recent, err := s.classes.ListRecent(ctx, tenantID, 5)
	if err != nil {
		return nil, err
	}

	summary := &models.DashboardSummary{Stats: *stats, RecentClasses: recent}
	if s.cache != nil {
		s.cache.Set(ctx, tenantID, dashboardCacheKey, summary, s.cacheTTL)
	}
	return summary, nil
}
