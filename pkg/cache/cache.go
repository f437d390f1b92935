package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/oncentra/registry/pkg/common/config"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/redis/go-redis/v9"
)

// AuditRecorder receives cache invalidation events. Kept as a local interface
// so the cache layer does not depend on the audit package.
type AuditRecorder interface {
	RecordEvent(ctx context.Context, actor, action, entity, entityID string, detail map[string]interface{})
}

// Service wraps the Redis client with the registry's key schemes and TTL
// policy. Every operation degrades to a miss or no-op when the backend is
// unreachable; callers always recompute from the source tables.
type Service struct {
	client *redis.Client
	audit  AuditRecorder

	dashboardTTL  time.Duration
	queryTTL      time.Duration
	predictiveTTL time.Duration
	impactTTL     time.Duration
}

type Option func(*Service)

func WithAudit(a AuditRecorder) Option {
	return func(s *Service) { s.audit = a }
}

func New(client *redis.Client, opts ...Option) *Service {
	cfg := config.Load()
	svc := &Service{
		client:        client,
		dashboardTTL:  cfg.DashboardTTL,
		queryTTL:      cfg.QueryTTL,
		predictiveTTL: cfg.PredictiveTTL,
		impactTTL:     cfg.ImpactTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Get unmarshals the cached value into dest and reports whether it was found.
func (s *Service) Get(ctx context.Context, key string, dest interface{}) bool {
	if s.client == nil {
		return false
	}
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).WithField("key", key).Debug("cache get failed")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("cache entry corrupt, dropping")
		s.Delete(ctx, key)
		return false
	}
	return true
}

func (s *Service) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Warn("cache value not serializable")
		return
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Debug("cache set failed")
	}
}

func (s *Service) Delete(ctx context.Context, keys ...string) {
	if s.client == nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).Debug("cache delete failed")
	}
}

// DeleteByPattern scans for matching keys and deletes them, returning the
// number removed. SCAN keeps this safe against large keyspaces.
func (s *Service) DeleteByPattern(ctx context.Context, pattern string) int {
	if s.client == nil {
		return 0
	}
	var removed int
	iter := s.client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			removed += s.deleteBatch(ctx, batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		logger.Log.WithError(err).WithField("pattern", pattern).Debug("cache scan failed")
	}
	removed += s.deleteBatch(ctx, batch)
	return removed
}

func (s *Service) deleteBatch(ctx context.Context, keys []string) int {
	if len(keys) == 0 {
		return 0
	}
	n, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		logger.Log.WithError(err).Debug("cache batch delete failed")
		return 0
	}
	return int(n)
}

func (s *Service) Increment(ctx context.Context, key string) int64 {
	if s.client == nil {
		return 0
	}
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Debug("cache incr failed")
		return 0
	}
	return n
}

func (s *Service) AddToSortedSet(ctx context.Context, key, member string, score float64) {
	if s.client == nil {
		return
	}
	if err := s.client.ZIncrBy(ctx, key, score, member).Err(); err != nil {
		logger.Log.WithError(err).WithField("key", key).Debug("cache zincrby failed")
	}
}

func (s *Service) GetTopFromSortedSet(ctx context.Context, key string, count int) []string {
	if s.client == nil {
		return nil
	}
	members, err := s.client.ZRevRange(ctx, key, 0, int64(count-1)).Result()
	if err != nil {
		logger.Log.WithError(err).WithField("key", key).Debug("cache zrevrange failed")
		return nil
	}
	return members
}

// Named wrappers fixing key prefix and TTL per call site.

func (s *Service) CacheDashboardData(ctx context.Context, centerID, timeRange string, value interface{}) {
	s.Set(ctx, ExecutiveDashboardKey(centerID, timeRange), value, s.dashboardTTL)
}

func (s *Service) GetDashboardData(ctx context.Context, centerID, timeRange string, dest interface{}) bool {
	return s.Get(ctx, ExecutiveDashboardKey(centerID, timeRange), dest)
}

func (s *Service) CacheAnalyticsQuery(ctx context.Context, name string, params map[string]string, value interface{}) {
	s.Set(ctx, AnalyticsQueryKey(name, params), value, s.queryTTL)
}

func (s *Service) GetAnalyticsQuery(ctx context.Context, name string, params map[string]string, dest interface{}) bool {
	return s.Get(ctx, AnalyticsQueryKey(name, params), dest)
}

func (s *Service) CacheCenterMetrics(ctx context.Context, centerID string, value interface{}) {
	s.Set(ctx, CenterMetricsKey(centerID), value, s.queryTTL)
}

func (s *Service) GetCenterMetrics(ctx context.Context, centerID string, dest interface{}) bool {
	return s.Get(ctx, CenterMetricsKey(centerID), dest)
}

func (s *Service) CachePredictiveModel(ctx context.Context, model, scope string, value interface{}) {
	s.Set(ctx, PredictiveModelKey(model, scope), value, s.predictiveTTL)
}

func (s *Service) GetPredictiveModel(ctx context.Context, model, scope string, dest interface{}) bool {
	return s.Get(ctx, PredictiveModelKey(model, scope), dest)
}

func (s *Service) CacheResearchImpact(ctx context.Context, scope string, value interface{}) {
	s.Set(ctx, ResearchImpactKey(scope), value, s.impactTTL)
}

func (s *Service) GetResearchImpact(ctx context.Context, scope string, dest interface{}) bool {
	return s.Get(ctx, ResearchImpactKey(scope), dest)
}

// Invalidation

func (s *Service) InvalidateAllAnalyticsCache(ctx context.Context) int {
	var removed int
	for _, pattern := range AnalyticsPatterns() {
		removed += s.DeleteByPattern(ctx, pattern)
	}
	logger.Log.WithField("removed", removed).Info("analytics cache invalidated")
	return removed
}

func (s *Service) InvalidateCenterCache(ctx context.Context, centerID string) int {
	var removed int
	for _, pattern := range CenterPatterns(centerID) {
		removed += s.DeleteByPattern(ctx, pattern)
	}
	if s.audit != nil {
		s.audit.RecordEvent(ctx, "system", "cache_invalidated", "center", centerID,
			map[string]interface{}{"removed": removed})
	}
	return removed
}

func (s *Service) InvalidatePatientCache(ctx context.Context, patientID string) int {
	var removed int
	for _, pattern := range PatientPatterns(patientID) {
		removed += s.DeleteByPattern(ctx, pattern)
	}
	if s.audit != nil {
		s.audit.RecordEvent(ctx, "system", "cache_invalidated", "patient", patientID,
			map[string]interface{}{"removed": removed})
	}
	return removed
}
