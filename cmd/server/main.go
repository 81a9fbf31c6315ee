package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/adelh/branchcash/internal/adapter/http"
	"github.com/adelh/branchcash/internal/adapter/http/handler"
	"github.com/adelh/branchcash/internal/adapter/http/middleware"
	postgresRepo "github.com/adelh/branchcash/internal/adapter/repository/postgres"
	redisRepo "github.com/adelh/branchcash/internal/adapter/repository/redis"
	"github.com/adelh/branchcash/internal/infrastructure/config"
	"github.com/adelh/branchcash/internal/infrastructure/logger"
	"github.com/adelh/branchcash/internal/infrastructure/metrics"
	"github.com/adelh/branchcash/internal/infrastructure/postgres"
	"github.com/adelh/branchcash/internal/infrastructure/redis"
	"github.com/adelh/branchcash/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	zerolog.SetGlobalLevel(log.Logger.GetLevel())

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	branchRepo := postgresRepo.NewBranchRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	reportCache := redisRepo.NewReportCache(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log.Logger)

	appMetrics := metrics.New()

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, branchRepo, movementRepo, idGen).
		WithRetrier(retrier).
		WithMetrics(appMetrics)
	movementUC := usecase.NewMovementUseCase(movementRepo)
	dailyUC := usecase.NewDailyCashUseCase(txManager, ledgerUC)

	tolerance, err := decimal.NewFromString(cfg.ReconcileTolerance)
	if err != nil {
		log.Fatal().Err(err).Str("tolerance", cfg.ReconcileTolerance).Msg("invalid reconcile tolerance")
	}
	reconcileUC := usecase.NewReconciliationUseCase(branchRepo, movementRepo, tolerance).
		WithMetrics(appMetrics)

	// Initialize handlers
	movementHandler := handler.NewMovementHandler(ledgerUC, movementUC)
	dailyHandler := handler.NewDailyHandler(dailyUC)
	reconcileHandler := handler.NewReconcileHandler(reconcileUC, reportCache, cfg.ReconcileCacheTTL)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		MovementHandler:  movementHandler,
		DailyHandler:     dailyHandler,
		ReconcileHandler: reconcileHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		RateLimiter:      middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst),
	})

	// Periodic reconciliation
	reconcileCtx, stopReconcile := context.WithCancel(ctx)
	defer stopReconcile()

	if cfg.ReconcileInterval > 0 {
		go runPeriodicReconcile(reconcileCtx, reconcileUC, reportCache, cfg)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopReconcile()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// runPeriodicReconcile reruns the balance check on a timer. The Redis
// lock keeps multiple instances from running the aggregation at once.
func runPeriodicReconcile(ctx context.Context, reconcileUC *usecase.ReconciliationUseCase, cache *redisRepo.ReportCache, cfg *config.Config) {
	ticker := time.NewTicker(cfg.ReconcileInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", cfg.ReconcileInterval).Msg("periodic reconciliation enabled")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		acquired, err := cache.AcquireLock(ctx, cfg.ReconcileInterval)
		if err != nil {
			log.Error().Err(err).Msg("failed to acquire reconcile lock")
			continue
		}
		if !acquired {
			continue
		}

		report, err := reconcileUC.Report(ctx)
		if err != nil {
			log.Error().Err(err).Msg("periodic reconciliation failed")
			_ = cache.ReleaseLock(ctx)
			continue
		}

		if err := cache.SetLatest(ctx, report, cfg.ReconcileCacheTTL); err != nil {
			log.Error().Err(err).Msg("failed to cache reconciliation report")
		}

		if report.Consistent {
			log.Info().Int("branches", report.BranchCount).Msg("reconciliation clean")
		} else {
			for _, d := range report.Discrepancies {
				log.Warn().
					Str("branch", d.Branch).
					Str("recorded", d.Recorded.String()).
					Str("computed", d.Computed.String()).
					Str("diff", d.Diff.String()).
					Msg("branch balance out of sync")
			}
		}

		_ = cache.ReleaseLock(ctx)
	}
}
