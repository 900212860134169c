package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// CacheService namespaces derived payload caching per tenant. Failures are
// logged and swallowed; the cache never blocks a request.
type CacheService struct {
	store  cacheStore
	logger *zap.Logger
}

// NewCacheService wires the cache facade.
func NewCacheService(store cacheStore, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{store: store, logger: logger}
}

func tenantKey(tenantID, suffix string) string {
	return fmt.Sprintf("tt:%s:%s", tenantID, suffix)
}

// Get loads a cached payload for the tenant. Returns false on miss or error.
func (s *CacheService) Get(ctx context.Context, tenantID, suffix string, dest interface{}) bool {
	if s.store == nil {
		return false
	}
	if err := s.store.Get(ctx, tenantKey(tenantID, suffix), dest); err != nil {
		return false
	}
	return true
}

// Set stores a payload for the tenant.
func (s *CacheService) Set(ctx context.Context, tenantID, suffix string, value interface{}, ttl time.Duration) {
	if s.store == nil {
		return
	}
	if err := s.store.Set(ctx, tenantKey(tenantID, suffix), value, ttl); err != nil {
		s.logger.Warn("cache set failed", zap.String("key", suffix), zap.Error(err))
	}
}

// InvalidateTenant drops every cached payload of the tenant. Master data and
// timetable mutations call this so analytics never serve stale aggregates.
func (s *CacheService) InvalidateTenant(ctx context.Context, tenantID string) {
	if s.store == nil {
		return
	}
	if err := s.store.DeleteByPattern(ctx, tenantKey(tenantID, "*")); err != nil {
		s.logger.Warn("cache invalidation failed", zap.String("tenant_id", tenantID), zap.Error(err))
	}
}
