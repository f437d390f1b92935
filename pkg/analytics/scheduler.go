package analytics

import (
	"context"
	"time"

	"github.com/oncentra/registry/pkg/cache"
	"github.com/oncentra/registry/pkg/common/config"
	"github.com/oncentra/registry/pkg/common/logger"
)

// Scheduler runs the periodic cache refresh jobs. A failing job increments a
// per-job failure counter in Redis and the loop keeps running.
type Scheduler struct {
	service *Service
	cache   *cache.Service

	refreshEvery time.Duration
	warmEvery    time.Duration
}

func NewScheduler(service *Service, cacheSvc *cache.Service) *Scheduler {
	cfg := config.Load()
	return &Scheduler{
		service:      service,
		cache:        cacheSvc,
		refreshEvery: cfg.DashboardRefreshEvery,
		warmEvery:    cfg.AggregateWarmEvery,
	}
}

// Run blocks until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	refreshTicker := time.NewTicker(s.refreshEvery)
	warmTicker := time.NewTicker(s.warmEvery)
	defer refreshTicker.Stop()
	defer warmTicker.Stop()

	logger.Log.WithFields(map[string]interface{}{
		"refresh_every": s.refreshEvery.String(),
		"warm_every":    s.warmEvery.String(),
	}).Info("analytics scheduler started")

	s.runJob(ctx, "dashboard_refresh", s.service.RefreshDashboards)

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("analytics scheduler stopped")
			return
		case <-refreshTicker.C:
			s.runJob(ctx, "dashboard_refresh", s.service.RefreshDashboards)
		case <-warmTicker.C:
			s.runJob(ctx, "aggregate_warm", s.service.WarmAggregates)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, name string, job func(context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.WithField("job", name).WithField("panic", r).Error("scheduler job panicked")
			s.cache.Increment(ctx, cache.SchedulerFailureKey(name))
		}
	}()

	start := time.Now()
	if err := job(ctx); err != nil {
		failures := s.cache.Increment(ctx, cache.SchedulerFailureKey(name))
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"job":      name,
			"failures": failures,
		}).Error("scheduler job failed")
		return
	}

	s.cache.Delete(ctx, cache.SchedulerFailureKey(name))
	logger.Log.WithFields(map[string]interface{}{
		"job":      name,
		"duration": time.Since(start).String(),
	}).Info("scheduler job completed")
}
