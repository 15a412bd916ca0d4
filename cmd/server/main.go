package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	httpAdapter "github.com/quimal/dteledger/internal/adapter/http"
	"github.com/quimal/dteledger/internal/adapter/http/handler"
	postgresRepo "github.com/quimal/dteledger/internal/adapter/repository/postgres"
	redisRepo "github.com/quimal/dteledger/internal/adapter/repository/redis"
	"github.com/quimal/dteledger/internal/infrastructure/auth"
	"github.com/quimal/dteledger/internal/infrastructure/certs"
	"github.com/quimal/dteledger/internal/infrastructure/config"
	"github.com/quimal/dteledger/internal/infrastructure/logger"
	"github.com/quimal/dteledger/internal/infrastructure/metrics"
	"github.com/quimal/dteledger/internal/infrastructure/postgres"
	"github.com/quimal/dteledger/internal/infrastructure/redis"
	"github.com/quimal/dteledger/internal/sii/xmldsig"
	"github.com/quimal/dteledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()

	// PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	if err := postgres.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	periodRepo := postgresRepo.NewClosedPeriodRepository(pool)
	cafRepo := postgresRepo.NewCAFRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	appMetrics := metrics.New()

	// Use cases
	postingUC := usecase.NewPostingUseCase(txManager, entryRepo, periodRepo, ruleRepo, idGen, appMetrics)
	entryUC := usecase.NewEntryUseCase(entryRepo)
	closingUC := usecase.NewClosingUseCase(txManager, entryRepo, periodRepo, idGen)
	f29UC := usecase.NewF29UseCase(entryRepo, periodRepo, cache)
	cafUC := usecase.NewCAFUseCase(cafRepo, idGen)
	stampUC := usecase.NewStampUseCase(cafRepo, idempotencyStore, appMetrics)
	ruleUC := usecase.NewRuleUseCase(ruleRepo, idGen)

	routerCfg := httpAdapter.RouterConfig{
		InvoiceHandler: handler.NewInvoiceHandler(postingUC),
		EntryHandler:   handler.NewEntryHandler(entryUC),
		PeriodHandler:  handler.NewPeriodHandler(closingUC),
		ReportHandler:  handler.NewReportHandler(f29UC),
		CAFHandler:     handler.NewCAFHandler(cafUC),
		StampHandler:   handler.NewStampHandler(stampUC),
		RuleHandler:    handler.NewRuleHandler(ruleUC),
		HealthHandler:  handler.NewHealthHandler(pool, redisClient),

		IdempotencyStore: idempotencyStore,
		Metrics:          appMetrics,
		Logger:           log,
		RateLimit:        100,
		RateBurst:        200,
	}

	// Document signing only works with a certificate configured. Instances
	// that just do accounting run without one.
	if cert, ok := loadCertificate(cfg, log); ok {
		routerCfg.SIIHandler = handler.NewSIIHandler(usecase.NewSigningUseCase(cert))
	}

	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		routerCfg.JWTManager = jwtManager
		routerCfg.AuthHandler = handler.NewAuthHandler(jwtManager)
	}

	router := httpAdapter.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func loadCertificate(cfg *config.Config, log zerolog.Logger) (xmldsig.Certificate, bool) {
	switch {
	case cfg.CertP12Path != "":
		cert, err := certs.LoadPKCS12(cfg.CertP12Path, cfg.CertP12Password)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load signing certificate")
		}
		return cert, true
	case cfg.CertPEMPath != "" && cfg.KeyPEMPath != "":
		cert, err := certs.LoadPEM(cfg.CertPEMPath, cfg.KeyPEMPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load signing certificate")
		}
		return cert, true
	default:
		log.Info().Msg("no signing certificate configured, document signing disabled")
		return xmldsig.Certificate{}, false
	}
}
