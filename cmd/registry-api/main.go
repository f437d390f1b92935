package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/oncentra/registry/pkg/analytics"
	"github.com/oncentra/registry/pkg/audit"
	"github.com/oncentra/registry/pkg/auth"
	"github.com/oncentra/registry/pkg/cache"
	"github.com/oncentra/registry/pkg/common/config"
	"github.com/oncentra/registry/pkg/common/database"
	"github.com/oncentra/registry/pkg/common/logger"
	"github.com/oncentra/registry/pkg/middleware"
	"github.com/oncentra/registry/pkg/notify"
	"github.com/oncentra/registry/pkg/research"
)

func main() {
	logger.Init()
	cfg := config.Load()

	db, err := database.GetPostgres()
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres()

	redisClient := database.GetRedis()
	defer database.CloseRedis()

	auditRepo := audit.NewRepository(db)
	authRepo := auth.NewRepository(db)
	researchRepo := research.NewRepository(db)
	analyticsRepo := analytics.NewRepository(db)
	for name, migrate := range map[string]func() error{
		"audit":     auditRepo.AutoMigrate,
		"auth":      authRepo.AutoMigrate,
		"research":  researchRepo.AutoMigrate,
		"analytics": analyticsRepo.AutoMigrate,
	} {
		if err := migrate(); err != nil {
			logger.Log.WithError(err).WithField("schema", name).Fatal("migration failed")
		}
	}

	cacheSvc := cache.New(redisClient, cache.WithAudit(auditRepo))

	roles, err := auth.LoadRoles(cfg.PermissionsPath)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to load role config, using defaults")
		roles = auth.DefaultRoles()
	}

	tokens, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
	if err != nil {
		logger.Log.WithError(err).Fatal("invalid JWT configuration")
	}

	var oidc *auth.OIDCAuthenticator
	if cfg.OIDCIssuer != "" {
		oidc, err = auth.NewOIDCAuthenticator(cfg.OIDCIssuer, cfg.OIDCClientID, cfg.OIDCClientSecret, cfg.OIDCRedirectURL)
		if err != nil {
			logger.Log.WithError(err).Fatal("invalid OIDC configuration")
		}
	}

	rules, err := research.LoadComplianceRules(cfg.ComplianceRulesPath)
	if err != nil {
		logger.Log.WithError(err).Warn("failed to load compliance rules, using defaults")
		rules = research.DefaultComplianceRules()
	}

	var notifier notify.Publisher = notify.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := notify.NewKafkaPublisher()
		defer publisher.Close()
		notifier = publisher
	}

	authService := auth.NewService(authRepo, roles, cfg.MFAIssuer)
	researchService := research.NewService(researchRepo, auditRepo, notifier, authService, cacheSvc, rules)
	analyticsService := analytics.NewService(analyticsRepo, cacheSvc)

	authn := mux.MiddlewareFunc(middleware.Authenticate(tokens))

	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS)
	router.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(middleware.BodyLimit(cfg.MaxRequestBody))

	router.HandleFunc("/health", handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ready", handleReady).Methods(http.MethodGet)

	authHandler := auth.NewHandler(authService, tokens, oidc)
	authHandler.Register(router.PathPrefix("/auth").Subrouter(), authn)

	researchHandler := research.NewHandler(researchService)
	for _, prefix := range []string{"/research", "/research-sprint3"} {
		sub := router.PathPrefix(prefix).Subrouter()
		sub.Use(authn)
		researchHandler.Register(sub)
	}

	analyticsHandler := analytics.NewHandler(analyticsService, cacheSvc)
	analyticsRouter := router.PathPrefix("/analytics/v2").Subrouter()
	analyticsRouter.Use(authn, middleware.RequirePermission(auth.PermViewAnalytics))
	analyticsHandler.Register(analyticsRouter)

	populationRouter := router.PathPrefix("/population-health").Subrouter()
	populationRouter.Use(authn, middleware.RequirePermission(auth.PermViewAnalytics))
	analyticsHandler.RegisterPopulation(populationRouter)

	auditHandler := audit.NewHandler(auditRepo)
	auditRouter := router.PathPrefix("/audit").Subrouter()
	auditRouter.Use(authn, middleware.RequirePermission(auth.PermAdminAll))
	auditHandler.Register(auditRouter)

	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go analytics.NewScheduler(analyticsService, cacheSvc).Run(schedulerCtx)

	server := &http.Server{
		Addr:         cfg.ServerHost + ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithField("addr", server.Addr).Info("registry API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down registry API")
	stopScheduler()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("graceful shutdown failed")
	}
	logger.Log.Info("registry API stopped")
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Cache degradation is tolerated, so readiness only needs the DB, which was
// checked at startup.
func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
