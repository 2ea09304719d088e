// Package main is the entry point for the College Admin Hub API server.
//
// The server exposes the scholarship allocation engine over REST:
// scholarship management, application intake, merit ranking, seat-guarded
// review decisions, and the audit trail. Background jobs sweep expired
// deadlines and keep cached rankings fresh.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/sujithkumar505/college-admin-hub/config"
	"github.com/sujithkumar505/college-admin-hub/internal/application/command"
	"github.com/sujithkumar505/college-admin-hub/internal/application/query"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/admin"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/allocation"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/application"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/audit"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/scholarship"
	"github.com/sujithkumar505/college-admin-hub/internal/domain/shared"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/messaging"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/persistence/memory"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/persistence/postgres"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/persistence/redis"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/scheduler"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/scheduler/jobs"
	"github.com/sujithkumar505/college-admin-hub/internal/infrastructure/service"
	httpapi "github.com/sujithkumar505/college-admin-hub/internal/interface/http"
	"github.com/sujithkumar505/college-admin-hub/internal/interface/http/handlers"
	"github.com/sujithkumar505/college-admin-hub/pkg/circuitbreaker"
	"github.com/sujithkumar505/college-admin-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupSlog(cfg)
	apiLog := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Observability.LogLevel),
		AddCaller: cfg.App.Debug,
	})

	log.Info("starting College Admin Hub",
		"env", string(cfg.App.Environment),
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. STORAGE
	// ─────────────────────────────────────────────────────────────────────────
	var (
		scholarshipRepo scholarship.Repository
		applicationRepo application.Repository
		auditStore      audit.Store
		adminRepo       admin.Repository
		dbConn          *postgres.Connection
	)

	if cfg.Database.URL != "" {
		log.Info("connecting to database...")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		scholarshipRepo = postgres.NewScholarshipRepository(dbConn)
		applicationRepo = postgres.NewApplicationRepository(dbConn)
		auditStore = postgres.NewAuditRepository(dbConn)
		adminRepo = postgres.NewAdminRepository(dbConn)
		log.Info("database storage initialized")
	} else {
		// Validate() rejects this in production.
		log.Warn("DATABASE_URL not set, using in-memory storage")
		scholarshipRepo = memory.NewScholarshipStore()
		applicationRepo = memory.NewApplicationStore()
		auditStore = memory.NewAuditStore()
		adminRepo = memory.NewAdminStore()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var redisCache *redis.Cache
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...", "host", cfg.Redis.Host, "port", cfg.Redis.Port)
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, continuing without cache", "error", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
			log.Info("Redis connection established")
		}
	}

	// The ranking cache degrades to a miss when Redis misbehaves; the
	// breaker keeps a dead Redis from slowing every allocation run.
	var rankingCache allocation.ResultCache
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureAllocationResultCache, nil) {
		breaker := circuitbreaker.CacheBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		})
		rankingCache = redis.NewBreakerCache(redis.NewRankingCache(redisCache), breaker)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS & AUDIT RECORDING
	// ─────────────────────────────────────────────────────────────────────────
	localBusCfg := messaging.DefaultInMemoryEventBusConfig()
	localBusCfg.Logger = log
	localBusCfg.AsyncMode = true

	var eventBus shared.EventBus
	if redisCache != nil {
		bus, err := messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client:         redisCache.Client(),
			InstanceID:     uuid.NewString(),
			LocalBusConfig: localBusCfg,
			Logger:         log,
		})
		if err != nil {
			return fmt.Errorf("failed to create event bus: %w", err)
		}
		eventBus = bus
		defer func() {
			log.Info("closing event bus...")
			_ = bus.Close()
		}()
	} else {
		bus := messaging.NewInMemoryEventBus(localBusCfg)
		eventBus = bus
		defer func() {
			log.Info("closing event bus...")
			_ = bus.Close()
		}()
	}

	dispatcher := messaging.NewDispatcher(messaging.DefaultDispatcherConfig(eventBus))
	if cfg.Features.IsEnabled(config.FeatureAuditAsyncRecording, nil) {
		recorder := service.NewAuditRecorder(auditStore, log)
		for _, eventType := range []shared.EventType{
			shared.EventScholarshipCreated,
			shared.EventScholarshipUpdated,
			shared.EventScholarshipDeleted,
			shared.EventScholarshipExpired,
			shared.EventApplicationSubmitted,
			shared.EventApplicationApproved,
			shared.EventApplicationRejected,
			shared.EventAllocationCompleted,
			shared.EventAdminLoggedIn,
		} {
			if err := dispatcher.Register(eventType, "audit-recorder", recorder.Handle); err != nil {
				return fmt.Errorf("failed to register audit recorder: %w", err)
			}
		}
	}
	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() {
		log.Info("stopping dispatcher...")
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	scorer := allocation.NewCompositeScorer()

	approveHandler := command.NewApproveApplicationHandler(applicationRepo, scholarshipRepo, rankingCache, eventBus)
	rejectHandler := command.NewRejectApplicationHandler(applicationRepo, rankingCache, eventBus)

	deps := httpapi.Dependencies{
		CreateScholarshipHandler: command.NewCreateScholarshipHandler(scholarshipRepo, eventBus),
		UpdateScholarshipHandler: command.NewUpdateScholarshipHandler(scholarshipRepo, rankingCache, eventBus),
		DeleteScholarshipHandler: command.NewDeleteScholarshipHandler(scholarshipRepo, applicationRepo, rankingCache, eventBus),
		SubmitApplicationHandler: command.NewSubmitApplicationHandler(applicationRepo, scholarshipRepo, scorer, rankingCache, eventBus),
		ApproveHandler:           approveHandler,
		RejectHandler:            rejectHandler,
		AuthenticateHandler:      command.NewAuthenticateAdminHandler(adminRepo, eventBus),
		GetScholarshipsHandler:   query.NewGetScholarshipsHandler(scholarshipRepo, applicationRepo),
		GetApplicationsHandler:   query.NewGetApplicationsHandler(applicationRepo),
		RunAllocationHandler:     query.NewRunAllocationHandler(scholarshipRepo, applicationRepo, scorer, rankingCache, eventBus),
		GetAuditTrailHandler:     query.NewGetAuditTrailHandler(auditStore),
		Logger:                   apiLog,
	}
	if cfg.Features.IsEnabled(config.FeatureReviewBulk, nil) {
		deps.BulkReviewHandler = command.NewBulkReviewHandler(approveHandler, rejectHandler)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	health := handlers.NewCompositeHealthChecker(cfg.App.Version)
	if dbConn != nil {
		health.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	}
	if redisCache != nil {
		health.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}
	deps.HealthChecker = health

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpCfg := httpapi.DefaultConfig()
	httpCfg.Host = cfg.HTTP.Host
	httpCfg.Port = cfg.HTTP.Port
	httpCfg.ReadTimeout = cfg.HTTP.ReadTimeout
	httpCfg.WriteTimeout = cfg.HTTP.WriteTimeout
	httpCfg.IdleTimeout = cfg.HTTP.IdleTimeout
	httpCfg.EnableCORS = cfg.HTTP.EnableCORS
	httpCfg.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpCfg.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute
	httpCfg.APIKeyHeader = cfg.HTTP.APIKeyHeader
	httpCfg.APIKeys = cfg.HTTP.APIKeys
	httpCfg.EnableMetrics = cfg.Observability.MetricsEnabled

	server := httpapi.NewServer(httpCfg, deps)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. BACKGROUND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(scheduler.WithLogger(log))

		if cfg.Features.IsEnabled(config.FeatureScholarshipAutoExpire, nil) {
			expiryJob := jobs.NewExpireScholarshipsJob(
				command.NewExpireScholarshipsHandler(scholarshipRepo, rankingCache, eventBus),
				log,
			)
			if err := sched.Register(expiryJob, scheduler.Every(cfg.Scheduler.ExpiryInterval)); err != nil {
				return fmt.Errorf("failed to register expiry job: %w", err)
			}
		}

		if rankingCache != nil && cfg.Features.IsEnabled(config.FeatureAllocationRefreshJob, nil) {
			refreshJob := jobs.NewRefreshRankingsJob(
				scholarshipRepo,
				deps.RunAllocationHandler,
				log,
				jobs.RefreshRankingsConfig{Timeout: cfg.Scheduler.JobTimeout},
			)
			if err := sched.Register(refreshJob, scheduler.Every(cfg.Scheduler.RankingRefreshInterval)); err != nil {
				return fmt.Errorf("failed to register ranking refresh job: %w", err)
			}
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		log.Info("scheduler started",
			"expiry_interval", cfg.Scheduler.ExpiryInterval.String(),
			"refresh_interval", cfg.Scheduler.RankingRefreshInterval.String(),
		)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. RUN & GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	serverErr := server.StartAsync()
	log.Info("HTTP server listening", "address", httpCfg.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if sched != nil {
		log.Info("stopping scheduler...")
		if err := sched.Stop(); err != nil {
			log.Warn("scheduler stop failed", "error", err)
		}
	}

	log.Info("shutting down HTTP server...", "timeout", cfg.App.ShutdownTimeout.String())
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupSlog configures the process-wide structured logger.
func setupSlog(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" || cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
