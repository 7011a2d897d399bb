package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bank-account-service/config"
	httpHandler "bank-account-service/internal/adapter/http/handler"
	"bank-account-service/internal/adapter/http/middleware"
	memStorage "bank-account-service/internal/adapter/storage/memory"
	pgStorage "bank-account-service/internal/adapter/storage/postgres"
	redisStorage "bank-account-service/internal/adapter/storage/redis"
	"bank-account-service/internal/core/ports"
	"bank-account-service/internal/service"
	"bank-account-service/pkg/logger"

	"github.com/rs/zerolog"
)

// storage bundles the repositories of the selected database driver.
type storage struct {
	accounts   ports.AccountRepository
	txns       ports.TransactionRepository
	audit      ports.AuditRepository
	transactor ports.DBTransactor
	health     ports.HealthChecker
	close      func()
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*storage, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("Using in-memory storage; data is lost on exit")
		store := memStorage.NewStore()
		return &storage{
			accounts:   memStorage.NewAccountRepo(store),
			txns:       memStorage.NewTransactionRepo(store),
			audit:      memStorage.NewAuditRepo(store),
			transactor: memStorage.NewTransactor(store),
			health:     memStorage.NewHealthChecker(),
			close:      func() {},
		}, nil
	default:
		pool, err := pgStorage.NewPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		log.Info().Msg("PostgreSQL connected")
		return &storage{
			accounts:   pgStorage.NewAccountRepo(pool),
			txns:       pgStorage.NewTransactionRepo(pool),
			audit:      pgStorage.NewAuditRepo(pool),
			transactor: pgStorage.NewTransactor(pool),
			health:     pgStorage.NewHealthCheck(pool),
			close:      pool.Close,
		}, nil
	}
}

func main() {
	configPath := flag.String("config", "", "path to a config file (optional)")
	openAPIPath := flag.String("openapi", "docs/api/openapi.yaml", "OpenAPI document served at /swagger")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("driver", cfg.Database.Driver).
		Int("port", cfg.Server.Port).
		Msg("Starting Bank Account Service")

	ctx := context.Background()

	store, err := openStorage(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open storage")
	}
	defer store.close()

	healthCheckers := []ports.HealthChecker{store.health}

	// Redis backs idempotency and rate limiting only; without it both are
	// switched off rather than failing startup.
	var (
		idempotencyCache ports.IdempotencyCache
		rateLimitStore   middleware.RateLimitStore
	)
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, idempotency cache and rate limiting disabled")
	} else {
		defer rdb.Close()
		log.Info().Msg("Redis connected")
		idempotencyCache = redisStorage.NewIdempotencyCache(rdb)
		rateLimitStore = redisStorage.NewRateLimitStore(rdb)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	}

	hashSvc := service.NewBcryptHashService(cfg.Security.BcryptCost)
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	lockoutSvc := service.NewLockoutService(store.accounts, hashSvc, store.transactor, cfg.Security.MaxFailedAttempts, log)
	balanceSvc := service.NewBalanceService(
		store.accounts,
		store.txns,
		lockoutSvc,
		idempotencyCache,
		store.transactor,
		cfg.Idempotency.TTL,
		log,
	)
	accountSvc := service.NewAccountService(store.accounts, store.txns, hashSvc, store.transactor, log)
	historySvc := service.NewHistoryService(store.accounts, store.txns, log)
	auditSvc := service.NewAuditService(store.audit, log)

	if specBytes, err := os.ReadFile(*openAPIPath); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI document loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI document not found, Swagger UI will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AccountSvc:     accountSvc,
		BalanceSvc:     balanceSvc,
		LockoutSvc:     lockoutSvc,
		HistorySvc:     historySvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		RateLimit:      cfg.RateLimit,
		HealthCheckers: healthCheckers,
		AuditSvc:       auditSvc,
		Logger:         log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
